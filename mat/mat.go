package mat

import (
	"fmt"

	"github.com/ironsheep/cvbind/native"
)

// OwnershipKind says whether a Mat allocated its storage or views another
// handle's storage.
type OwnershipKind int

const (
	// Owned storage was allocated for (or handed to) this handle.
	Owned OwnershipKind = iota
	// Alias storage is shared with the Source handle.
	Alias
)

// String returns "owned" or "alias".
func (k OwnershipKind) String() string {
	if k == Alias {
		return "alias"
	}
	return "owned"
}

// Ownership describes where a Mat's storage came from.
type Ownership struct {
	Kind OwnershipKind
	// Source is the handle this Mat was shallow-cloned from (Alias only).
	Source *Mat
}

// Mat is a handle to a reference-counted, row-major block of pixel storage.
//
// Every Mat must be released exactly once with Release. Releasing drops this
// handle's reference to the storage; the bytes are freed when the last
// handle viewing them is released. After Release, attribute getters panic
// and methods with an error result return native.ErrUseAfterRelease.
//
// Two duplication methods exist with different aliasing semantics:
//
//   - Clone copies the bytes. The result is independent of the source.
//   - ShallowClone shares the bytes. Writes through either handle are
//     visible through the other.
//
// Use Clone whenever an independent copy is expected.
type Mat struct {
	obj  *native.Object
	rows int
	cols int
	typ  Type
	blk  *block
	own  Ownership
}

func newHandle(rows, cols int, t Type, blk *block, own Ownership) *Mat {
	m := &Mat{rows: rows, cols: cols, typ: t, blk: blk, own: own}
	m.obj = native.Acquire("Mat", m.dropStorage)
	return m
}

// dropStorage releases this handle's reference to its block.
func (m *Mat) dropStorage() error {
	if m.blk == nil {
		return nil
	}
	if m.blk.release() {
		native.Logger().Debug("mat: storage freed", "id", m.obj.ID())
	}
	m.blk = nil
	return nil
}

func validShape(rows, cols int, t Type) bool {
	return rows >= 0 && cols >= 0 && t.Valid()
}

func allocBlock(rows, cols int, t Type) *block {
	n := rows * cols * t.ElemSize()
	if n == 0 {
		return nil
	}
	return newBlock(make([]byte, n))
}

// NewMat returns an empty 0x0 Mat, typically used as an output argument that
// a processing function allocates into.
func NewMat() *Mat {
	return newHandle(0, 0, CV8UC1, nil, Ownership{Kind: Owned})
}

// NewMatWithSize allocates a rows x cols Mat of type t. Go zeroes the new
// storage, but callers should not rely on its contents.
func NewMatWithSize(rows, cols int, t Type) (*Mat, error) {
	if !validShape(rows, cols, t) {
		return nil, fmt.Errorf("NewMatWithSize(%d,%d,%s): %w", rows, cols, t, ErrInvalidDimensions)
	}
	return newHandle(rows, cols, t, allocBlock(rows, cols, t), Ownership{Kind: Owned}), nil
}

// Zeros returns a rows x cols Mat of type t with every byte set to zero.
func Zeros(rows, cols int, t Type) (*Mat, error) {
	if !validShape(rows, cols, t) {
		return nil, fmt.Errorf("Zeros(%d,%d,%s): %w", rows, cols, t, ErrInvalidDimensions)
	}
	return newHandle(rows, cols, t, allocBlock(rows, cols, t), Ownership{Kind: Owned}), nil
}

// Ones returns a Mat whose first channel is 1 in every element and whose
// other channels are 0.
func Ones(rows, cols int, t Type) (*Mat, error) {
	m, err := Zeros(rows, cols, t)
	if err != nil {
		return nil, err
	}
	cn := t.Channels()
	for i := 0; i < rows*cols; i++ {
		m.writeValue(i*cn*t.Depth().Size(), 1)
	}
	return m, nil
}

// Eye returns a Mat with 1 on the main diagonal of the first channel.
func Eye(rows, cols int, t Type) (*Mat, error) {
	m, err := Zeros(rows, cols, t)
	if err != nil {
		return nil, err
	}
	for i := 0; i < rows && i < cols; i++ {
		m.writeValue((i*cols+i)*t.ElemSize(), 1)
	}
	return m, nil
}

// NewMatFromBytes wraps data as a rows x cols Mat of type t. The Mat takes
// ownership of data; the caller must not use the slice afterwards.
func NewMatFromBytes(rows, cols int, t Type, data []byte) (*Mat, error) {
	if !validShape(rows, cols, t) {
		return nil, fmt.Errorf("NewMatFromBytes(%d,%d,%s): %w", rows, cols, t, ErrInvalidDimensions)
	}
	if want := rows * cols * t.ElemSize(); len(data) != want {
		return nil, fmt.Errorf("NewMatFromBytes(%d,%d,%s): got %d bytes, want %d: %w",
			rows, cols, t, len(data), want, ErrSizeMismatch)
	}
	var blk *block
	if len(data) > 0 {
		blk = newBlock(data)
	}
	return newHandle(rows, cols, t, blk, Ownership{Kind: Owned}), nil
}

// Rows returns the number of rows.
func (m *Mat) Rows() int {
	m.obj.MustLive("Rows")
	return m.rows
}

// Cols returns the number of columns.
func (m *Mat) Cols() int {
	m.obj.MustLive("Cols")
	return m.cols
}

// Channels returns the number of channels per element.
func (m *Mat) Channels() int {
	m.obj.MustLive("Channels")
	return m.typ.Channels()
}

// Type returns the element type.
func (m *Mat) Type() Type {
	m.obj.MustLive("Type")
	return m.typ
}

// Depth returns the per-channel depth.
func (m *Mat) Depth() Depth {
	m.obj.MustLive("Depth")
	return m.typ.Depth()
}

// ElemSize returns the size in bytes of one element.
func (m *Mat) ElemSize() int {
	m.obj.MustLive("ElemSize")
	return m.typ.ElemSize()
}

// Step returns the number of bytes in one row.
func (m *Mat) Step() int {
	m.obj.MustLive("Step")
	return m.cols * m.typ.ElemSize()
}

// Total returns rows*cols.
func (m *Mat) Total() int {
	m.obj.MustLive("Total")
	return m.rows * m.cols
}

// Empty reports whether the Mat has no elements.
func (m *Mat) Empty() bool {
	m.obj.MustLive("Empty")
	return m.rows*m.cols == 0
}

// Data returns the storage bytes. The slice aliases the storage: writes
// through it are visible to every handle sharing the block.
func (m *Mat) Data() []byte {
	m.obj.MustLive("Data")
	if m.blk == nil {
		return nil
	}
	return m.blk.data
}

// Ownership reports whether the storage is owned or aliased.
func (m *Mat) Ownership() Ownership {
	m.obj.MustLive("Ownership")
	return m.own
}

// Refs returns the number of live handles viewing this Mat's storage, or 0
// for an empty Mat.
func (m *Mat) Refs() int {
	m.obj.MustLive("Refs")
	if m.blk == nil {
		return 0
	}
	return m.blk.count()
}

// SharesStorage reports whether m and o view the same storage block.
func (m *Mat) SharesStorage(o *Mat) bool {
	m.obj.MustLive("SharesStorage")
	o.obj.MustLive("SharesStorage")
	return m.blk != nil && m.blk == o.blk
}

// Live reports whether the Mat has not been released.
func (m *Mat) Live() bool { return m.obj.Live() }

// ID returns the handle's unique identifier.
func (m *Mat) ID() string { return m.obj.ID() }

// ShallowClone returns a new handle sharing this Mat's storage.
//
// The result aliases m: writing through either handle changes what the
// other reads. Both handles must be released; the storage is freed only when
// the last of them is. Use Clone when an independent copy is needed.
func (m *Mat) ShallowClone() (*Mat, error) {
	if err := m.obj.Check("ShallowClone"); err != nil {
		return nil, err
	}
	if m.blk != nil {
		m.blk.retain()
	}
	return newHandle(m.rows, m.cols, m.typ, m.blk, Ownership{Kind: Alias, Source: m}), nil
}

// Clone returns a deep copy of m with newly allocated storage. Writes to
// either Mat after the call are never visible through the other.
func (m *Mat) Clone() (*Mat, error) {
	if err := m.obj.Check("Clone"); err != nil {
		return nil, err
	}
	var blk *block
	if m.blk != nil {
		data := make([]byte, len(m.blk.data))
		copy(data, m.blk.data)
		blk = newBlock(data)
	}
	return newHandle(m.rows, m.cols, m.typ, blk, Ownership{Kind: Owned}), nil
}

// Create makes m a rows x cols Mat of type t. If m already has that shape
// and type it is left untouched, including any aliasing. Otherwise m drops
// its reference to the old storage and gets new owned storage.
func (m *Mat) Create(rows, cols int, t Type) error {
	if err := m.obj.Check("Create"); err != nil {
		return err
	}
	if !validShape(rows, cols, t) {
		return fmt.Errorf("Mat.Create(%d,%d,%s): %w", rows, cols, t, ErrInvalidDimensions)
	}
	if m.rows == rows && m.cols == cols && m.typ == t && (m.blk != nil || rows*cols == 0) {
		return nil
	}
	_ = m.dropStorage()
	m.rows, m.cols, m.typ = rows, cols, t
	m.blk = allocBlock(rows, cols, t)
	m.own = Ownership{Kind: Owned}
	return nil
}

// CopyTo copies m into dst, reallocating dst if its shape or type differ.
func (m *Mat) CopyTo(dst *Mat) error {
	if err := m.obj.Check("CopyTo"); err != nil {
		return err
	}
	if err := dst.Create(m.rows, m.cols, m.typ); err != nil {
		return err
	}
	if m.blk != nil && dst.blk != m.blk {
		copy(dst.blk.data, m.blk.data)
	}
	return nil
}

// SetTo assigns vals to every element: channel c gets vals[c], channels past
// the end of vals get 0. Integer depths saturate.
func (m *Mat) SetTo(vals ...float64) error {
	if err := m.obj.Check("SetTo"); err != nil {
		return err
	}
	cn := m.typ.Channels()
	size := m.typ.Depth().Size()
	for i := 0; i < m.rows*m.cols; i++ {
		for c := 0; c < cn; c++ {
			var v float64
			if c < len(vals) {
				v = vals[c]
			}
			m.writeValue((i*cn+c)*size, v)
		}
	}
	return nil
}

// Release drops this handle. The storage is freed if no other handle views
// it. Releasing twice returns an error wrapping native.ErrDoubleRelease.
func (m *Mat) Release() error {
	return m.obj.Release()
}

// String returns a short description such as "Mat(3x3 CV_8UC1 owned)".
func (m *Mat) String() string {
	if !m.obj.Live() {
		return "Mat(released)"
	}
	return fmt.Sprintf("Mat(%dx%d %s %s)", m.rows, m.cols, m.typ, m.own.Kind)
}
