package zipdoc

import "io"

// CopyBufferSize is the chunk size used by CopyStream.
const CopyBufferSize = 2048

// CopyStream copies src to dst in CopyBufferSize chunks until src is exhausted.
// Neither stream is closed.
func CopyStream(dst io.Writer, src io.Reader) (int64, error) {
	if src == nil {
		return 0, NewArgumentError("src", "nil reader")
	}
	if dst == nil {
		return 0, NewArgumentError("dst", "nil writer")
	}

	buf := make([]byte, CopyBufferSize)
	var written int64
	for {
		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			written += int64(nw)
			if werr != nil {
				return written, werr
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
