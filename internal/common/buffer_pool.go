package common

import (
	"bytes"
	"sync"
)

// BufferPool manages a pool of byte buffers to reduce allocations
type BufferPool struct {
	pool sync.Pool
	// maxRetained keeps oversized buffers out of the pool
	maxRetained int
}

// NewBufferPool creates a pool whose buffers start with initialCapacity bytes.
// Buffers that grew beyond 4x that are dropped instead of being reused.
func NewBufferPool(initialCapacity int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, initialCapacity))
			},
		},
		maxRetained: initialCapacity * 4,
	}
}

// Get retrieves an empty buffer from the pool
func (bp *BufferPool) Get() *bytes.Buffer {
	return bp.pool.Get().(*bytes.Buffer)
}

// Put returns a buffer to the pool after resetting it
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > bp.maxRetained {
		return
	}
	buf.Reset()
	bp.pool.Put(buf)
}
