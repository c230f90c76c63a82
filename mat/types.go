package mat

import "fmt"

// Depth is the element type of a single channel value.
// Values match OpenCV's CV_8U .. CV_64F.
type Depth int

const (
	U8  Depth = iota // CV_8U
	S8               // CV_8S
	U16              // CV_16U
	S16              // CV_16S
	S32              // CV_32S
	F32              // CV_32F
	F64              // CV_64F
)

var depthNames = [...]string{"8U", "8S", "16U", "16S", "32S", "32F", "64F"}

// Valid reports whether d is one of the supported depths.
func (d Depth) Valid() bool {
	return d >= U8 && d <= F64
}

// Size returns the byte size of one channel value.
func (d Depth) Size() int {
	switch d {
	case U8, S8:
		return 1
	case U16, S16:
		return 2
	case S32, F32:
		return 4
	case F64:
		return 8
	}
	return 0
}

// String returns the OpenCV depth name, e.g. "CV_8U".
func (d Depth) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Depth(%d)", int(d))
	}
	return "CV_" + depthNames[d]
}

// MaxChannels is the largest channel count a Type can encode.
const MaxChannels = 512

const (
	depthMask  = 7
	channelBit = 3
)

// Type combines a depth and a channel count, encoded like OpenCV's
// CV_MAKETYPE: depth | (channels-1) << 3.
type Type int

// MakeType returns the Type for depth d with the given number of channels.
func MakeType(d Depth, channels int) Type {
	return Type(int(d)&depthMask | (channels-1)<<channelBit)
}

// Common types.
const (
	CV8U    Type = Type(U8)
	CV8UC1  Type = Type(U8)
	CV8UC2  Type = Type(U8) | 1<<channelBit
	CV8UC3  Type = Type(U8) | 2<<channelBit
	CV8UC4  Type = Type(U8) | 3<<channelBit
	CV8SC1  Type = Type(S8)
	CV16UC1 Type = Type(U16)
	CV16SC1 Type = Type(S16)
	CV32SC1 Type = Type(S32)
	CV32SC2 Type = Type(S32) | 1<<channelBit
	CV32SC4 Type = Type(S32) | 3<<channelBit
	CV32FC1 Type = Type(F32)
	CV32FC2 Type = Type(F32) | 1<<channelBit
	CV64FC1 Type = Type(F64)
)

// Depth returns the per-channel element depth.
func (t Type) Depth() Depth { return Depth(int(t) & depthMask) }

// Channels returns the number of channels.
func (t Type) Channels() int { return int(t)>>channelBit + 1 }

// ElemSize returns the byte size of one element (all channels).
func (t Type) ElemSize() int { return t.Depth().Size() * t.Channels() }

// Valid reports whether t has a supported depth and channel count.
func (t Type) Valid() bool {
	return t >= 0 && t.Depth().Valid() && t.Channels() >= 1 && t.Channels() <= MaxChannels
}

// String returns the OpenCV type name, e.g. "CV_8UC4".
func (t Type) String() string {
	return fmt.Sprintf("%sC%d", t.Depth(), t.Channels())
}
