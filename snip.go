package csvsniffer

import (
	"bytes"
	"io"
)

// snipPreamble advances r past exactly n line terminators, without
// allocating the intermediate lines, by scanning a 4 KiB buffer at a time
// for '\n' with bytes.IndexByte (the idiomatic stdlib stand-in for the
// reference implementation's memchr binding -- nothing in the example
// pack binds memchr, and bytes.IndexByte is the same SWAR-accelerated
// primitive under the hood).
//
// r must already be positioned at the start of the stream; snipPreamble
// leaves it positioned just after the n-th newline.
func snipPreamble(r io.ReadSeeker, n int) error {
	if n == 0 {
		return nil
	}

	const bufSize = 4096
	buf := make([]byte, bufSize)
	var consumed, seekPoint int64
	remaining := n

	for {
		nRead, err := r.Read(buf)
		if nRead > 0 {
			chunk := buf[:nRead]
			offset := 0
			for remaining > 0 {
				idx := bytes.IndexByte(chunk[offset:], '\n')
				if idx < 0 {
					break
				}
				offset += idx + 1
				remaining--
			}
			seekPoint = consumed + int64(offset)
			consumed += int64(nRead)
			if remaining == 0 {
				break
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		if nRead == 0 {
			break
		}
	}

	_, err := r.Seek(seekPoint, io.SeekStart)
	return err
}
