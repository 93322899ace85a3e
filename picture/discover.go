/*
DESCRIPTION
  discover.go finds the picture files to be shown by the slideshow.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package picture

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoPictures is returned by Discover when no picture files were found.
var ErrNoPictures = errors.New("no pictures found")

// Discover returns the paths of the pictures under primary with extension
// preferred, or with extension alternate if there are none. If neither is
// found under primary the same search is done under fallback. Directories are
// searched recursively and paths are returned in lexical order. A search path
// that does not exist is treated as empty.
func Discover(primary, fallback, preferred, alternate string) ([]string, error) {
	for _, dir := range []string{primary, fallback} {
		if dir == "" {
			continue
		}
		for _, ext := range []string{preferred, alternate} {
			if ext == "" {
				continue
			}
			paths, err := find(dir, ext)
			if err != nil {
				return nil, err
			}
			if len(paths) != 0 {
				return paths, nil
			}
		}
	}
	return nil, ErrNoPictures
}

// find returns the files under dir having extension ext, ignoring case.
func find(dir, ext string) ([]string, error) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, os.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), ext) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not search %s for %s files", dir, ext)
	}
	sort.Strings(paths)
	return paths, nil
}
