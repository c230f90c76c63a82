// Package mat provides Mat, a reference-counted handle to row-major pixel
// storage, and Vector, an ordered list of Mat handles.
//
// # Storage and Ownership
//
// Storage is a block of bytes with a reference count. Each live Mat holds
// one reference. A Mat created by a constructor, Clone or Create owns fresh
// storage; a Mat created by ShallowClone is an alias of its source and shares
// the block:
//
//	m1, _ := mat.Zeros(1, 1, mat.CV8U)
//	m2, _ := m1.ShallowClone() // alias: m2 sees writes to m1
//	m3, _ := m1.Clone()        // copy: m3 never does
//	m1.Data()[0] = 1
//
// Release drops a handle's reference. The block is freed when its last handle
// is released, so aliases stay valid after their source is released.
//
// # Element Access
//
// Ptr returns the bytes of a row starting at a column; At, UcharAt, FloatAt
// and friends read single values with bounds checks and return
// ErrIndexOutOfRange instead of reading outside the block.
//
// # Lifecycle Errors
//
// Attribute getters (Rows, Cols, Data, ...) panic with an error wrapping
// native.ErrUseAfterRelease when called on a released Mat. Methods with an
// error result return that error instead. A second Release returns
// native.ErrDoubleRelease.
package mat
