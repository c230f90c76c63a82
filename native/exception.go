package native

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ErrUnresolvable is matched by errors for thrown handles that could not be
// resolved to an Exception (unknown or already consumed).
var ErrUnresolvable = errors.New("native: unresolvable exception handle")

// Code is a native status code. Values follow OpenCV's cv::Error codes.
type Code int

// Status codes raised by the native layer.
const (
	StsOk                Code = 0
	StsBackTrace         Code = -1
	StsError             Code = -2
	StsInternal          Code = -3
	StsNoMem             Code = -4
	StsBadArg            Code = -5
	StsBadFunc           Code = -6
	StsNullPtr           Code = -27
	StsVecLengthErr      Code = -28
	StsBadSize           Code = -201
	StsUnmatchedFormats  Code = -205
	StsBadFlag           Code = -206
	StsUnmatchedSizes    Code = -209
	StsUnsupportedFormat Code = -210
	StsOutOfRange        Code = -211
	StsNotImplemented    Code = -213
	StsAssert            Code = -215
)

var codeNames = map[Code]string{
	StsOk:                "StsOk",
	StsBackTrace:         "StsBackTrace",
	StsError:             "StsError",
	StsInternal:          "StsInternal",
	StsNoMem:             "StsNoMem",
	StsBadArg:            "StsBadArg",
	StsBadFunc:           "StsBadFunc",
	StsNullPtr:           "StsNullPtr",
	StsVecLengthErr:      "StsVecLengthErr",
	StsBadSize:           "StsBadSize",
	StsUnmatchedFormats:  "StsUnmatchedFormats",
	StsBadFlag:           "StsBadFlag",
	StsUnmatchedSizes:    "StsUnmatchedSizes",
	StsUnsupportedFormat: "StsUnsupportedFormat",
	StsOutOfRange:        "StsOutOfRange",
	StsNotImplemented:    "StsNotImplemented",
	StsAssert:            "StsAssert",
}

// String returns the symbolic name of the code, or its number.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Exception is the structured form of a native failure.
type Exception struct {
	Code    Code   `json:"code"`
	Func    string `json:"func,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Exception) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("native: %s: %s (%s)", e.Func, e.Message, e.Code)
	}
	return fmt.Sprintf("native: %s (%s)", e.Message, e.Code)
}

// ExceptionPtr is the opaque numeric handle the native layer throws.
type ExceptionPtr uintptr

// RawException carries a thrown value that could not be resolved. Value is
// the original thrown value, unchanged.
type RawException struct {
	Value any
}

// Error implements the error interface.
func (r *RawException) Error() string {
	return fmt.Sprintf("native: unresolved exception %#v", r.Value)
}

// Unwrap makes errors.Is(err, ErrUnresolvable) hold.
func (r *RawException) Unwrap() error { return ErrUnresolvable }

// Registry holds exceptions between the throw and their resolution.
type Registry struct {
	mu      sync.Mutex
	next    ExceptionPtr
	pending map[ExceptionPtr]*Exception
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{pending: make(map[ExceptionPtr]*Exception)}
}

// Register stores e and returns the handle that identifies it.
func (r *Registry) Register(e *Exception) ExceptionPtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.pending[r.next] = e
	return r.next
}

// Resolve returns the exception for p and forgets it. Resolving an unknown or
// already resolved handle fails with ErrUnresolvable.
func (r *Registry) Resolve(p ExceptionPtr) (*Exception, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.pending[p]
	if !ok {
		return nil, fmt.Errorf("resolve %#x: %w", uintptr(p), ErrUnresolvable)
	}
	delete(r.pending, p)
	return e, nil
}

// Pending returns the number of thrown but unresolved exceptions.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// DefaultRegistry is the registry used by Throw, ExceptionFromPtr and
// Translate.
var DefaultRegistry = NewRegistry()

// Throw raises a native failure: the exception is registered and the
// goroutine panics with its handle. It must run under Call or Recover.
func Throw(code Code, fn string, format string, args ...any) {
	p := DefaultRegistry.Register(&Exception{
		Code:    code,
		Func:    fn,
		Message: fmt.Sprintf(format, args...),
	})
	panic(p)
}

// ExceptionFromPtr resolves a thrown handle against DefaultRegistry.
func ExceptionFromPtr(p ExceptionPtr) (*Exception, error) {
	return DefaultRegistry.Resolve(p)
}

// Translate converts a thrown value into an error.
//
// Numeric handles are resolved to *Exception. If resolution fails the
// original value is returned inside a *RawException rather than masked.
// Values that already implement error pass through unchanged.
func Translate(v any) error {
	if v == nil {
		return nil
	}

	if p, ok := asHandle(v); ok {
		e, err := ExceptionFromPtr(p)
		if err != nil {
			Logger().Debug("native: exception handle not resolvable", "handle", fmt.Sprintf("%#x", uintptr(p)))
			return &RawException{Value: v}
		}
		return e
	}

	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("native: %v", v)
}

func asHandle(v any) (ExceptionPtr, bool) {
	switch x := v.(type) {
	case ExceptionPtr:
		return x, true
	case uintptr:
		return ExceptionPtr(x), true
	case int:
		return ExceptionPtr(x), true
	case int8:
		return ExceptionPtr(x), true
	case int16:
		return ExceptionPtr(x), true
	case int32:
		return ExceptionPtr(x), true
	case int64:
		return ExceptionPtr(x), true
	case uint:
		return ExceptionPtr(x), true
	case uint8:
		return ExceptionPtr(x), true
	case uint16:
		return ExceptionPtr(x), true
	case uint32:
		return ExceptionPtr(x), true
	case uint64:
		return ExceptionPtr(x), true
	}
	return 0, false
}

// Call runs fn and converts a panic raised by the native layer into an error.
// Errors returned by fn pass through. Runtime errors (nil dereference, index
// out of range) are programming bugs and are re-panicked.
func Call(fn func() error) (err error) {
	defer Recover(&err)
	return fn()
}

// Recover is the deferred form of Call:
//
//	func op() (err error) {
//	    defer native.Recover(&err)
//	    ...
//	}
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if re, ok := r.(runtime.Error); ok {
		panic(re)
	}
	*errp = Translate(r)
}
