package mat

import (
	"errors"
	"fmt"

	"github.com/ironsheep/cvbind/native"
)

// Vector is an ordered list of Mat handles used to pass variable-length
// groups of matrices, such as split channels or contours.
//
// The vector owns its slot list, not the matrices in it. Release frees only
// the list; ReleaseAll also releases every contained Mat. Functions that fill
// a vector hand ownership of each element to the caller.
type Vector struct {
	obj   *native.Object
	items []*Mat
}

// NewVector returns an empty vector.
func NewVector() *Vector {
	v := &Vector{}
	v.obj = native.Acquire("MatVector", func() error {
		v.items = nil
		return nil
	})
	return v
}

// PushBack appends m.
func (v *Vector) PushBack(m *Mat) error {
	if err := v.obj.Check("PushBack"); err != nil {
		return err
	}
	if err := m.obj.Check("PushBack"); err != nil {
		return err
	}
	v.items = append(v.items, m)
	return nil
}

// Get returns the handle at index i. The vector keeps the same handle; it is
// not a copy.
func (v *Vector) Get(i int) (*Mat, error) {
	if err := v.obj.Check("Get"); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(v.items) {
		return nil, fmt.Errorf("MatVector.Get(%d): %w", i, ErrIndexOutOfRange)
	}
	return v.items[i], nil
}

// Set replaces the handle at index i. The replaced handle is not released.
func (v *Vector) Set(i int, m *Mat) error {
	if err := v.obj.Check("Set"); err != nil {
		return err
	}
	if i < 0 || i >= len(v.items) {
		return fmt.Errorf("MatVector.Set(%d): %w", i, ErrIndexOutOfRange)
	}
	if err := m.obj.Check("Set"); err != nil {
		return err
	}
	v.items[i] = m
	return nil
}

// Size returns the number of handles.
func (v *Vector) Size() int {
	v.obj.MustLive("Size")
	return len(v.items)
}

// Mats returns a copy of the slot list.
func (v *Vector) Mats() []*Mat {
	v.obj.MustLive("Mats")
	out := make([]*Mat, len(v.items))
	copy(out, v.items)
	return out
}

// Clear empties the slot list without releasing the handles.
func (v *Vector) Clear() error {
	if err := v.obj.Check("Clear"); err != nil {
		return err
	}
	v.items = v.items[:0]
	return nil
}

// Release frees the slot list. Contained matrices stay live.
func (v *Vector) Release() error {
	return v.obj.Release()
}

// ReleaseAll releases every contained Mat and then the vector itself.
// Errors from individual releases are joined.
func (v *Vector) ReleaseAll() error {
	if err := v.obj.Check("ReleaseAll"); err != nil {
		return err
	}
	var errs []error
	for i, m := range v.items {
		if err := m.Release(); err != nil {
			errs = append(errs, fmt.Errorf("MatVector.ReleaseAll[%d]: %w", i, err))
		}
	}
	errs = append(errs, v.Release())
	return errors.Join(errs...)
}
