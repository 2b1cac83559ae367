package surface

import (
	"fmt"
	"log"
)

// Slot is the single place in the dialog a surface can be mounted.
// It is owned by one writer on the UI loop and needs no locking.
type Slot struct {
	current Surface
}

// Current returns the mounted surface, or nil.
func (s *Slot) Current() Surface {
	return s.current
}

// Kind returns the mounted surface kind, or 0 when empty.
func (s *Slot) Kind() Kind {
	if s.current == nil {
		return 0
	}
	return s.current.Kind()
}

// Mount places sf in an empty slot.
func (s *Slot) Mount(sf Surface) error {
	if s.current != nil {
		return fmt.Errorf("mount %s surface: %w", sf.Kind(), ErrSlotOccupied)
	}
	s.current = sf
	return nil
}

// Unmount disposes and removes the mounted surface. The slot is empty
// afterwards even if disposal reports an error.
func (s *Slot) Unmount() error {
	if s.current == nil {
		return nil
	}
	sf := s.current
	s.current = nil
	return sf.Dispose()
}

// Swap disposes the mounted surface, then creates and mounts its replacement.
// Disposal completes before create runs.
func (s *Slot) Swap(create func() (Surface, error)) (Surface, error) {
	if err := s.Unmount(); err != nil {
		log.Printf("[Surface] Dispose during swap reported: %v", err)
	}
	next, err := create()
	if err != nil {
		return nil, err
	}
	if err := s.Mount(next); err != nil {
		return nil, err
	}
	return next, nil
}
