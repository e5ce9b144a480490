package stream

import (
	"bytes"
)

// Delimiter separates application messages in the stream.
const Delimiter = '#'

// Framer reassembles '#'-delimited messages from arbitrarily chunked input.
// A Framer belongs to a single connection and is not safe for concurrent use.
type Framer struct {
	buf []byte
}

// Push appends chunk and returns every complete, non-blank segment in order.
// Bytes after the last delimiter are kept for the next call.
func (f *Framer) Push(chunk []byte) [][]byte {
	f.buf = append(f.buf, chunk...)

	var out [][]byte
	for {
		i := bytes.IndexByte(f.buf, Delimiter)
		if i < 0 {
			break
		}
		seg := bytes.TrimSpace(f.buf[:i])
		if len(seg) > 0 {
			out = append(out, bytes.Clone(seg))
		}
		f.buf = f.buf[i+1:]
	}

	if len(f.buf) == 0 {
		f.buf = nil
	}
	return out
}

// Pending returns the number of buffered bytes not yet terminated by a delimiter.
func (f *Framer) Pending() int {
	return len(f.buf)
}

// Reset discards any partial message.
func (f *Framer) Reset() {
	f.buf = nil
}
