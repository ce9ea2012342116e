package services

import "unicode/utf8"

// utf8Decoder decodes a byte stream into text incrementally. A multi-byte character split across two
// chunk boundaries is held back until its remaining bytes arrive, so a chunk boundary never produces
// a garbled character at the split point.
type utf8Decoder struct {
	pending []byte
}

// decode consumes the next chunk and returns the decoded text, holding back any trailing bytes that
// form an incomplete multi-byte sequence. It returns an empty string when the chunk carries no
// complete characters yet.
func (d *utf8Decoder) decode(p []byte) string {
	if len(p) == 0 {
		return ""
	}

	buf := append(d.pending, p...)

	// Scan back over at most one character's worth of bytes looking for an incomplete trailing
	// sequence. ASCII and continuation-only tails shorter than a full character are resolved here;
	// anything further back is already complete.
	cut := len(buf)
	for i := len(buf) - 1; i >= 0 && len(buf)-i < utf8.UTFMax; i-- {
		b := buf[i]
		if b < utf8.RuneSelf {
			break
		}
		if b&0xC0 == 0xC0 {
			if !utf8.FullRune(buf[i:]) {
				cut = i
			}
			break
		}
	}

	out := string(buf[:cut])
	d.pending = append(d.pending[:0], buf[cut:]...)
	return out
}

// flush returns any bytes still held back once the stream has ended. A truncated sequence at
// end-of-stream is emitted as-is; there is nothing left to complete it with.
func (d *utf8Decoder) flush() string {
	if len(d.pending) == 0 {
		return ""
	}
	out := string(d.pending)
	d.pending = d.pending[:0]
	return out
}
