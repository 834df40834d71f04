// Package stream models byte streams that carry frames, one beat per cycle.
package stream

// A Beat is one transfer on a byte stream. Data holds the valid bytes of
// the beat. Last marks the final beat of a frame.
type Beat struct {
	Data []byte
	Last bool
}

// Chunk splits a frame into beats of at most beatBytes bytes. A zero-length
// frame becomes a single empty beat with Last set.
func Chunk(frame []byte, beatBytes int) []Beat {
	if len(frame) == 0 {
		return []Beat{{Last: true}}
	}

	beats := make([]Beat, 0, (len(frame)+beatBytes-1)/beatBytes)
	for off := 0; off < len(frame); off += beatBytes {
		end := min(off+beatBytes, len(frame))
		beats = append(beats, Beat{
			Data: frame[off:end],
			Last: end == len(frame),
		})
	}

	return beats
}
