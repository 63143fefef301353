// Package mapgen builds dungeon levels from a randomness source.
package mapgen

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned when generation parameters cannot produce a level.
var ErrInvalidParams = errors.New("invalid generation parameters")

// Default level shape.
const (
	DefaultWidth       = 80
	DefaultHeight      = 40
	DefaultMaxRooms    = 30
	DefaultMinRoomSize = 6
	DefaultMaxRoomSize = 10
)

// Params controls the shape of a generated level. Room sizes are drawn from
// the half-open interval [MinRoomSize, MaxRoomSize).
type Params struct {
	Width       int
	Height      int
	MaxRooms    int
	MinRoomSize int
	MaxRoomSize int
}

// DefaultParams returns the standard 80x40 level shape.
func DefaultParams() Params {
	return Params{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		MaxRooms:    DefaultMaxRooms,
		MinRoomSize: DefaultMinRoomSize,
		MaxRoomSize: DefaultMaxRoomSize,
	}
}

// Validate checks that every room draw has a non-empty interval.
//
// Postcondition: returns nil, or an error wrapping ErrInvalidParams listing
// every problem found.
func (p Params) Validate() error {
	var errs []error
	if p.MaxRooms < 0 {
		errs = append(errs, fmt.Errorf("max_rooms %d must not be negative", p.MaxRooms))
	}
	if p.MinRoomSize < 2 {
		errs = append(errs, fmt.Errorf("min_room_size %d must be at least 2", p.MinRoomSize))
	}
	if p.MaxRoomSize <= p.MinRoomSize {
		errs = append(errs, fmt.Errorf("max_room_size %d must exceed min_room_size %d", p.MaxRoomSize, p.MinRoomSize))
	}
	// The largest room is MaxRoomSize-1 wide and its origin draw needs
	// Width-w-1 > 2.
	if p.Width < p.MaxRoomSize+3 {
		errs = append(errs, fmt.Errorf("width %d must be at least max_room_size+3 (%d)", p.Width, p.MaxRoomSize+3))
	}
	if p.Height < p.MaxRoomSize+3 {
		errs = append(errs, fmt.Errorf("height %d must be at least max_room_size+3 (%d)", p.Height, p.MaxRoomSize+3))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidParams, errors.Join(errs...))
}
