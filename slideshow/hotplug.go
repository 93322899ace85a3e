/*
DESCRIPTION
  hotplug.go watches the device directory so that sensors plugged in while
  the slideshow is disconnected are connected, and sensors removed while
  connected are disconnected.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package slideshow

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch watches dir for device nodes. When an entry is created while the
// sensors are disconnected a connection is attempted. When the entry of a
// connected sensor is removed the sensors are disconnected. Watching stops
// with Stop.
func (s *Slideshow) Watch(dir string) error {
	if s.watcher != nil {
		return fmt.Errorf("already watching")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create device watcher: %w", err)
	}
	err = w.Add(dir)
	if err != nil {
		w.Close()
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}
	s.watcher = w
	s.watching.Add(1)
	go s.watch(w)
	s.log.Info(pkg+"watching for sensors", "dir", dir)
	return nil
}

func (s *Slideshow) watch(w *fsnotify.Watcher) {
	defer s.watching.Done()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			s.hotplug(ev)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warning(pkg+"device watcher error", "error", err.Error())
		}
	}
}

func (s *Slideshow) hotplug(ev fsnotify.Event) {
	switch {
	case ev.Has(fsnotify.Create):
		if !s.Disconnected() {
			return
		}
		s.log.Info(pkg+"device added, connecting", "device", ev.Name)
		err := s.Connect()
		if err != nil {
			s.log.Debug(pkg+"could not connect after device added", "error", err.Error())
		}
	case ev.Has(fsnotify.Remove):
		if !sameDevice(ev.Name, s.cfg.FrontID) && !sameDevice(ev.Name, s.cfg.RearID) {
			return
		}
		s.disconnect(nil, fmt.Sprintf("sensor %s removed", ev.Name))
	}
}

// sameDevice reports whether the watched entry name refers to the device with
// the given id. An id without a directory matches by entry name alone.
func sameDevice(name, id string) bool {
	if id == "" {
		return false
	}
	if filepath.Base(id) == id {
		return filepath.Base(name) == id
	}
	a, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	b, err := filepath.Abs(id)
	if err != nil {
		return false
	}
	return a == b
}
