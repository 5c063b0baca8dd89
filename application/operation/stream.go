package operation

import (
	"io"

	"mediafetch/domain/media"
)

// FailedStream returns a stream on which every call fails with err
func FailedStream(err error) media.PayloadStream {
	return failedStream{err: err}
}

type failedStream struct {
	err error
}

func (f failedStream) Read([]byte) (int, error) { return 0, f.err }
func (f failedStream) Close() error             { return nil }
func (f failedStream) PipeTo(io.Writer) error   { return f.err }
func (f failedStream) Bytes() ([]byte, error)   { return nil, f.err }
func (f failedStream) Wait() error              { return f.err }
