package wire

// LineReader reads up to and including a delimiter.
type LineReader interface {
	ReadUntil(delim byte) ([]byte, error)
}

// ReadFrame reads one frame followed by term. The frame is delimited by
// its length field, so term bytes inside the frame don't end the read.
// All bytes consumed are returned, including leading noise and term.
// A frame failing verification is returned along with the error.
func ReadFrame(r LineReader, codec *Codec, term byte) ([]byte, *Frame, error) {
	p := NewParser(codec)
	var out []byte
	for {
		chunk, err := r.ReadUntil(term)
		out = append(out, chunk...)
		for i, b := range chunk {
			results := p.Parse(b)
			if len(results) == 0 {
				continue
			}
			pr := results[0]
			// a chunk ends at term, if the frame ends there too the term
			// following the frame is still pending.
			if i == len(chunk)-1 && err == nil {
				tail, tailErr := r.ReadUntil(term)
				out = append(out, tail...)
				if pr.Err == nil {
					pr.Err = tailErr
				}
			}
			return out, pr.Frame, pr.Err
		}
		if err != nil {
			return out, nil, err
		}
	}
}
