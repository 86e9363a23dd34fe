package handler

import (
	"bytes"
	"sync"
)

// responseBufferSize covers the typical JSON envelope; wallet and contest
// responses rarely exceed it
const responseBufferSize = 512

// bufferPool recycles encoding buffers across requests
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, responseBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// putBuffer resets the buffer before handing it back to the pool
func putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	bufferPool.Put(buf)
}
