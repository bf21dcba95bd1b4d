// Package lazycell provides a write-once cell.
//
// A Cell starts empty, can be filled exactly once, and is read any number of
// times afterwards. Filling an already-filled cell is an error rather than a
// silent overwrite, which turns "computed at most once" from a convention into
// a checkable precondition.
package lazycell

import "errors"

// ErrFilled is returned by Fill when the cell already holds a value.
var ErrFilled = errors.New("lazycell: already filled")

// Cell is a write-once container. It is not safe for concurrent use; the
// intended owner is a single request-handling goroutine.
type Cell[T any] struct {
	value  T
	filled bool
}

// Fill stores v. It fails with ErrFilled if the cell was filled before.
func (c *Cell[T]) Fill(v T) error {
	if c.filled {
		return ErrFilled
	}
	c.value = v
	c.filled = true
	return nil
}

// Get returns the stored value and whether the cell has been filled.
func (c *Cell[T]) Get() (T, bool) {
	return c.value, c.filled
}

// Filled reports whether the cell holds a value.
func (c *Cell[T]) Filled() bool {
	return c.filled
}
