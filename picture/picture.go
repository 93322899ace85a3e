/*
DESCRIPTION
  picture.go provides Store, which decodes pictures by index and keeps the
  most recently used ones in memory.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package picture provides discovery and decoding of the pictures shown by
// the slideshow.
package picture

import (
	"container/list"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"

	"github.com/ausocean/slideshow/navigation"
)

// Used to indicate package in logging.
const pkg = "picture: "

// DefaultCapacity is the number of decoded pictures a Store keeps by default.
// It covers the three navigation slots and one prefetched picture either side.
const DefaultCapacity = 5

// entry is a cached decode result; img is nil if the picture could not be
// decoded.
type entry struct {
	path string
	img  image.Image
}

// Store provides decoded pictures by index. Store implements
// navigation.Loader and navigation.Prefetcher and is safe for concurrent use.
type Store struct {
	log   logging.Logger
	paths []string

	mu       sync.Mutex
	capacity int
	cache    map[string]*list.Element
	order    *list.List // Front is most recently used.

	decodes singleflight.Group
	wg      sync.WaitGroup
}

// New returns a Store for the pictures at paths, caching at most capacity
// decoded pictures. A capacity less than one uses DefaultCapacity.
func New(l logging.Logger, paths []string, capacity int) *Store {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Store{
		log:      l,
		paths:    paths,
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Len returns the number of pictures.
func (s *Store) Len() int { return len(s.paths) }

// Paths returns the picture paths in index order.
func (s *Store) Paths() []string { return append([]string(nil), s.paths...) }

// Path returns the path of the picture at index i after normalisation, or
// the empty string if there are no pictures.
func (s *Store) Path(i int) string {
	if len(s.paths) == 0 {
		return ""
	}
	return s.paths[navigation.Normalize(i, len(s.paths))]
}

// Load returns the decoded picture at index i, normalised into [0, Len()).
// It returns nil if there are no pictures or the picture can not be decoded.
func (s *Store) Load(i int) image.Image {
	if len(s.paths) == 0 {
		return nil
	}
	return s.load(s.Path(i))
}

// Prefetch decodes the pictures at the given indices in the background so
// that a later Load does not have to wait for them.
func (s *Store) Prefetch(indices ...int) {
	if len(s.paths) == 0 {
		return
	}
	for _, i := range indices {
		path := s.Path(i)
		if s.cached(path) {
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.load(path)
		}()
	}
}

// Wait blocks until all prefetches in flight have finished.
func (s *Store) Wait() { s.wg.Wait() }

func (s *Store) cached(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cache[path]
	return ok
}

func (s *Store) load(path string) image.Image {
	s.mu.Lock()
	if e, ok := s.cache[path]; ok {
		s.order.MoveToFront(e)
		s.mu.Unlock()
		return e.Value.(*entry).img
	}
	s.mu.Unlock()

	v, _, _ := s.decodes.Do(path, func() (interface{}, error) {
		img, err := decode(path)
		if err != nil {
			s.log.Warning(pkg+"could not load picture", "path", path, "error", err.Error())
		}
		s.add(path, img)
		return img, nil
	})
	img, _ := v.(image.Image)
	return img
}

func (s *Store) add(path string, img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.cache[path]; ok {
		e.Value.(*entry).img = img
		s.order.MoveToFront(e)
		return
	}
	s.cache[path] = s.order.PushFront(&entry{path: path, img: img})
	for s.order.Len() > s.capacity {
		last := s.order.Back()
		s.order.Remove(last)
		delete(s.cache, last.Value.(*entry).path)
	}
}

// decode opens and decodes the picture at path. Unsupported formats give an
// error with cause image.ErrFormat.
func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open picture")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, errors.WithMessage(image.ErrFormat, "unsupported picture format")
		}
		return nil, errors.Wrap(err, "could not decode picture")
	}
	return img, nil
}
