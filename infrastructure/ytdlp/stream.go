package ytdlp

import (
	"io"
	"os"

	"mediafetch/domain/media"
)

// Stream is the streaming view of a Session. Reads block until yt-dlp
// writes more payload, which gives the process backpressure. The stream
// reaches EOF only after a successful exit; otherwise reads fail with the
// session's error.
type Stream struct {
	session  *Session
	pr       *io.PipeReader
	rejected bool
}

func (st *Stream) Read(p []byte) (int, error) {
	return st.pr.Read(p)
}

// Close abandons the stream and kills the process if it is still running
func (st *Stream) Close() error {
	st.pr.CloseWithError(media.ErrStreamClosed)
	if st.rejected {
		return nil
	}
	if err := st.session.Kill(os.Kill); err != nil && err != media.ErrNotStarted {
		return err
	}
	return nil
}

// PipeTo copies the payload into w and waits for the process. A failing
// writer kills the process and is reported as *media.SinkError.
func (st *Stream) PipeTo(w io.Writer) error {
	sw := &sinkWriter{w: w}
	if _, err := io.Copy(sw, st.pr); err != nil && sw.err != nil {
		_ = st.Close()
		_ = st.Wait()
		return &media.SinkError{Err: sw.err}
	}
	return st.Wait()
}

// Bytes drains the payload into memory and waits for the process
func (st *Stream) Bytes() ([]byte, error) {
	data, readErr := io.ReadAll(st.pr)
	if err := st.Wait(); err != nil {
		return data, err
	}
	return data, readErr
}

// Wait blocks until the process exited
func (st *Stream) Wait() error {
	if st.rejected {
		return media.ErrAlreadyStarted
	}
	return st.session.Wait()
}

// Session returns the session backing the stream
func (st *Stream) Session() *Session { return st.session }

// sinkWriter remembers the first write error so PipeTo can tell writer
// failures from process failures
type sinkWriter struct {
	w   io.Writer
	err error
}

func (sw *sinkWriter) Write(p []byte) (int, error) {
	n, err := sw.w.Write(p)
	if err != nil && sw.err == nil {
		sw.err = err
	}
	return n, err
}

// Ensure Stream implements media.PayloadStream
var _ media.PayloadStream = (*Stream)(nil)
