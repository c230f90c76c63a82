package mat

import "sync/atomic"

var liveBlocks atomic.Int64

// LiveBlocks returns the number of storage blocks that have been allocated
// and not yet freed.
func LiveBlocks() int64 {
	return liveBlocks.Load()
}

// block is a reference-counted allocation shared by every Mat that views it.
type block struct {
	data []byte
	refs atomic.Int32
}

// newBlock wraps data with a reference count of one.
func newBlock(data []byte) *block {
	b := &block{data: data}
	b.refs.Store(1)
	liveBlocks.Add(1)
	return b
}

// retain adds a reference for a new viewing handle.
func (b *block) retain() {
	b.refs.Add(1)
}

// release drops one reference and frees the bytes when it was the last.
// It reports whether the block was freed.
func (b *block) release() bool {
	if b.refs.Add(-1) != 0 {
		return false
	}
	b.data = nil
	liveBlocks.Add(-1)
	return true
}

func (b *block) count() int {
	return int(b.refs.Load())
}
