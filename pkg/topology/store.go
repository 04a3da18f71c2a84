// Package topology holds the simulated network: the device table and the
// cables between device ports.
//
// A Store is guarded by one coarse lock covering every device. Command
// execution takes the lock for its whole duration through a Tx, so at most
// one command runs at a time and no caller sees a half-applied change.
package topology

import (
	"sync"

	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/util"
)

// Store is the device and cable table.
type Store struct {
	mu      sync.Mutex
	devices map[string]*model.Device
	order   []string // device IDs in load order
	cables  []model.Cable
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{devices: make(map[string]*model.Device)}
}

// Load replaces the store contents. Devices and cables not in the new
// lists are dropped. A later device with a duplicate ID replaces the
// earlier one.
func (s *Store) Load(devices []model.Device, cables []model.Cable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices = make(map[string]*model.Device, len(devices))
	s.order = s.order[:0]
	for i := range devices {
		d := devices[i].Clone()
		if _, dup := s.devices[d.ID]; !dup {
			s.order = append(s.order, d.ID)
		}
		s.devices[d.ID] = d
	}
	s.cables = append([]model.Cable(nil), cables...)

	util.Logger.WithField("devices", len(s.devices)).
		WithField("cables", len(s.cables)).
		Debug("Topology loaded")
}

// Devices returns a copy of every device in load order.
func (s *Store) Devices() []*model.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Device, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.devices[id].Clone())
	}
	return out
}

// Device returns a copy of one device.
func (s *Store) Device(id string) (*model.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.devices[id]
	if !ok {
		return nil, util.NewNotFoundError("device", id)
	}
	return d.Clone(), nil
}

// Cables returns a copy of the cable list.
func (s *Store) Cables() []model.Cable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Cable(nil), s.cables...)
}

// Len returns the number of devices.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.devices)
}

// Update runs fn with the store locked. Device pointers obtained from the
// Tx are live and valid only inside fn. The lock is released even if fn
// panics.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{s: s})
}

// Tx is a locked view of a Store, valid for the duration of an Update call.
type Tx struct {
	s *Store
}

// Device returns the live device, or nil.
func (tx *Tx) Device(id string) *model.Device {
	return tx.s.devices[id]
}

// Cables returns the live cable list. Callers must not modify it.
func (tx *Tx) Cables() []model.Cable {
	return tx.s.cables
}
