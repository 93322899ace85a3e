/*
DESCRIPTION
  registry.go provides Registry, the set of sensors known to the process,
  looked up by their hardware identifier.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package device

import "sync"

// Registry holds devices in the order they were added. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.Mutex
	devices []Device
}

// NewRegistry returns a Registry holding devs.
func NewRegistry(devs ...Device) *Registry {
	r := &Registry{}
	for _, d := range devs {
		r.Add(d)
	}
	return r
}

// Add adds d to the registry, replacing any device with the same ID.
func (r *Registry) Add(d Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.devices {
		if e.ID() == d.ID() {
			r.devices[i] = d
			return
		}
	}
	r.devices = append(r.devices, d)
}

// Remove removes the device with the given ID, if present.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.devices {
		if e.ID() == id {
			r.devices = append(r.devices[:i], r.devices[i+1:]...)
			return
		}
	}
}

// Find returns the device with the given ID.
func (r *Registry) Find(id string) (Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.devices {
		if d.ID() == id {
			return d, true
		}
	}
	return nil, false
}

// List returns the registered devices in the order they were added.
func (r *Registry) List() []Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Device(nil), r.devices...)
}
