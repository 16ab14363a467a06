package ir

import "fmt"

// IDAllocator hands out the identifiers that make tree nodes addressable.
// Each forward conversion owns its own allocator, so identifiers are unique
// within one conversion and two conversions never interfere.
type IDAllocator struct {
	n int
}

// NewIDAllocator returns an allocator starting at doc-obj-1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns the next identifier.
func (a *IDAllocator) Next() string {
	a.n++
	return fmt.Sprintf("doc-obj-%d", a.n)
}

// Count returns how many identifiers have been handed out.
func (a *IDAllocator) Count() int {
	return a.n
}
