package native

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_ResolveIsOneShot(t *testing.T) {
	r := NewRegistry()
	p := r.Register(&Exception{Code: StsBadArg, Message: "bad"})
	require.Equal(t, 1, r.Pending())

	e, err := r.Resolve(p)
	require.NoError(t, err)
	require.Equal(t, StsBadArg, e.Code)
	require.Equal(t, "bad", e.Message)
	require.Equal(t, 0, r.Pending())

	_, err = r.Resolve(p)
	require.ErrorIs(t, err, ErrUnresolvable)
}

func TestRegistry_DistinctHandles(t *testing.T) {
	r := NewRegistry()
	a := r.Register(&Exception{Message: "a"})
	b := r.Register(&Exception{Message: "b"})
	require.NotEqual(t, a, b)

	eb, err := r.Resolve(b)
	require.NoError(t, err)
	require.Equal(t, "b", eb.Message)
	ea, err := r.Resolve(a)
	require.NoError(t, err)
	require.Equal(t, "a", ea.Message)
}

func TestTranslate(t *testing.T) {
	structured := errors.New("already structured")

	t.Run("nil", func(t *testing.T) {
		require.NoError(t, Translate(nil))
	})

	t.Run("registered handle", func(t *testing.T) {
		p := DefaultRegistry.Register(&Exception{Code: StsAssert, Func: "cvtColor", Message: "scn == 4"})
		err := Translate(p)

		var e *Exception
		require.ErrorAs(t, err, &e)
		require.Equal(t, StsAssert, e.Code)
		require.Equal(t, "native: cvtColor: scn == 4 (StsAssert)", err.Error())
	})

	t.Run("registered handle as plain int", func(t *testing.T) {
		p := DefaultRegistry.Register(&Exception{Code: StsBadSize, Message: "size"})
		err := Translate(int(p))

		var e *Exception
		require.ErrorAs(t, err, &e)
		require.Equal(t, StsBadSize, e.Code)
	})

	t.Run("expired handle keeps raw value", func(t *testing.T) {
		p := DefaultRegistry.Register(&Exception{Message: "once"})
		_, err := ExceptionFromPtr(p)
		require.NoError(t, err)

		err = Translate(p)
		require.ErrorIs(t, err, ErrUnresolvable)
		var raw *RawException
		require.ErrorAs(t, err, &raw)
		require.Equal(t, p, raw.Value)
	})

	t.Run("unknown number keeps raw value", func(t *testing.T) {
		err := Translate(-42)
		var raw *RawException
		require.ErrorAs(t, err, &raw)
		require.Equal(t, -42, raw.Value)
	})

	t.Run("every integer kind keeps raw value", func(t *testing.T) {
		// Handles start at 1, so zero and negative values never resolve.
		for _, v := range []any{int8(-7), int16(-300), int32(-9), int64(-10), uint8(0), uint16(0), uint32(0), uint64(0), uint(0), uintptr(0)} {
			err := Translate(v)
			require.ErrorIs(t, err, ErrUnresolvable, "%T", v)
			var raw *RawException
			require.ErrorAs(t, err, &raw, "%T", v)
			require.Equal(t, v, raw.Value, "%T", v)
		}
	})

	t.Run("registered handle as small integer kinds", func(t *testing.T) {
		for _, conv := range []func(ExceptionPtr) any{
			func(p ExceptionPtr) any { return uint16(p) },
			func(p ExceptionPtr) any { return int16(p) },
		} {
			p := DefaultRegistry.Register(&Exception{Code: StsOutOfRange, Message: "small"})
			require.Less(t, uint64(p), uint64(1<<15))

			var e *Exception
			require.ErrorAs(t, Translate(conv(p)), &e)
			require.Equal(t, StsOutOfRange, e.Code)
		}
	})

	t.Run("structured error passes through", func(t *testing.T) {
		require.Same(t, structured, Translate(structured))
	})

	t.Run("other values are wrapped", func(t *testing.T) {
		err := Translate("bad things")
		require.EqualError(t, err, "native: bad things")
	})
}

func TestCall(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		require.NoError(t, Call(func() error { return nil }))
	})

	t.Run("returned error passes through", func(t *testing.T) {
		want := errors.New("plain")
		require.Same(t, want, Call(func() error { return want }))
	})

	t.Run("thrown exception is translated", func(t *testing.T) {
		pending := DefaultRegistry.Pending()
		err := Call(func() error {
			Throw(StsUnsupportedFormat, "threshold", "depth %s not supported", "CV_64F")
			return nil
		})

		var e *Exception
		require.ErrorAs(t, err, &e)
		require.Equal(t, StsUnsupportedFormat, e.Code)
		require.Equal(t, "threshold", e.Func)
		require.Equal(t, "depth CV_64F not supported", e.Message)
		require.Equal(t, pending, DefaultRegistry.Pending(), "translation must consume the handle")
	})

	t.Run("panicked error passes through", func(t *testing.T) {
		want := errors.New("lifecycle")
		err := Call(func() error { panic(want) })
		require.Same(t, want, err)
	})

	t.Run("runtime errors are not masked", func(t *testing.T) {
		require.Panics(t, func() {
			_ = Call(func() error {
				var s []int
				_ = s[3]
				return nil
			})
		})
	})
}

func TestRecover_NamedResult(t *testing.T) {
	op := func() (err error) {
		defer Recover(&err)
		Throw(StsNullPtr, "op", "null input")
		return nil
	}

	var e *Exception
	require.ErrorAs(t, op(), &e)
	require.Equal(t, StsNullPtr, e.Code)
}

func TestCode_String(t *testing.T) {
	require.Equal(t, "StsAssert", StsAssert.String())
	require.Equal(t, "Code(-999)", Code(-999).String())
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	SetTraceLifecycle(true)
	defer SetTraceLifecycle(false)

	o := Acquire("TestLogged", nil)
	require.NoError(t, o.Release())
	require.Error(t, o.Release())

	out := buf.String()
	require.True(t, strings.Contains(out, "native: acquired"), out)
	require.True(t, strings.Contains(out, "native: released"), out)
	require.True(t, strings.Contains(out, "native: double release"), out)
	require.True(t, strings.Contains(out, "kind=TestLogged"), out)
}
