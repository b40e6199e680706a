package postings

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/s2"

	"github.com/standardbeagle/qfind/internal/errors"
)

// writerCodec wraps a single s2.Writer/bytes.Buffer pair, reset and
// reused across every posting-list commit instead of allocating a fresh
// compression context each time. The commit path runs single-threaded
// per shard commit pass, so one codec per Index is sufficient; callers
// must not share a writerCodec across goroutines.
type writerCodec struct {
	buf *bytes.Buffer
	w   *s2.Writer
}

func newWriterCodec() *writerCodec {
	buf := new(bytes.Buffer)
	return &writerCodec{buf: buf, w: s2.NewWriter(buf)}
}

func (c *writerCodec) compress(raw []byte) ([]byte, error) {
	c.buf.Reset()
	c.w.Reset(c.buf)
	if _, err := c.w.Write(raw); err != nil {
		return nil, errors.NewCompressionError("encode", err)
	}
	if err := c.w.Close(); err != nil {
		return nil, errors.NewCompressionError("encode-close", err)
	}
	out := make([]byte, c.buf.Len())
	copy(out, c.buf.Bytes())
	return out, nil
}

// readerPool hands out s2.Reader instances for posting-list decode during
// the query pipeline's parallel sharded scan, where many goroutines
// decode concurrently and a single shared reader would serialize them.
var readerPool = sync.Pool{
	New: func() any { return s2.NewReader(nil) },
}

func decompress(compressed []byte, sizeHint int) ([]byte, error) {
	r := readerPool.Get().(*s2.Reader)
	defer readerPool.Put(r)

	r.Reset(bytes.NewReader(compressed))
	out := make([]byte, 0, sizeHint)
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewCompressionError("decode", err)
		}
	}
	return out, nil
}
