// Package native models state that lives on the native side of the binding:
// objects that must be released explicitly, and failures that cross the
// boundary as opaque numeric handles.
//
// # Object Lifecycle
//
// Every wrapper around native state (matrices, detectors, parameter structs)
// embeds an *Object obtained from Acquire. The object is Live from
// construction until Release, after which it is Released for good:
//
//	Acquire -> Live --Release--> Released
//
// Methods on a wrapper call Check (or MustLive) before touching native state,
// so use after release is reported as ErrUseAfterRelease instead of reading
// freed memory. A second Release returns ErrDoubleRelease and does not run the
// free function again.
//
// The required usage pattern pairs construction with a deferred release:
//
//	det := objdetect.NewQRCodeDetector()
//	defer det.Release()
//
// Live and LiveTotal report how many objects of each kind are still live,
// which makes leaks visible in tests.
//
// # Exception Bridge
//
// The native layer reports failures by panicking with an ExceptionPtr, an
// opaque handle into a Registry of pending exceptions. Call and Recover turn
// such panics into errors:
//
//   - ExceptionPtr (or any integer) that resolves: *Exception {Code, Message}
//   - handle that cannot be resolved: RawException holding the original value
//   - values that already implement error: returned unchanged
//
// Handles are one-shot. Resolving consumes the registry entry, so a handle is
// only meaningful during the failure-handling call that received it.
//
// # Thread Safety
//
// Individual objects are not safe for concurrent use; callers that share a
// handle across goroutines must synchronize. The live counters and the
// exception registry are safe for concurrent use.
package native
