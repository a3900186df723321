package logger

import (
	"bytes"
	"sync"
)

// Log lines here are short progress and convert-summary records; a few
// KB covers the longest of them. A buffer that grew past the cap (e.g.
// a dumped multi-line error) is discarded instead of pooled.
const maxPooledBufferSize = 8 * 1024

var bufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBufferSize {
		return
	}
	bufferPool.Put(buf)
}
