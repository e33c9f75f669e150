package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// idSource hands out monotonic ULIDs. Within one millisecond the random
// part of the previous id is incremented instead of redrawn.
type idSource struct {
	mu      sync.Mutex
	ms      uint64
	entropy [10]byte
}

var ids idSource

// NewID returns a new job id: a 26 character ULID that sorts by creation
// time.
func NewID() string {
	return ids.next(time.Now())
}

func (s *idSource) next(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := uint64(now.UnixMilli())
	if ms <= s.ms {
		// Same millisecond or a clock step backwards.
		for i := len(s.entropy) - 1; i >= 0; i-- {
			s.entropy[i]++
			if s.entropy[i] != 0 {
				break
			}
		}
	} else {
		s.ms = ms
		rand.Read(s.entropy[:])
	}

	var b [16]byte
	binary.BigEndian.PutUint16(b[0:2], uint16(s.ms>>32))
	binary.BigEndian.PutUint32(b[2:6], uint32(s.ms))
	copy(b[6:], s.entropy[:])
	return encodeULID(b)
}

// encodeULID writes the 128 bits as 26 base32 digits, most significant
// first. The leading digit carries only the top 3 bits.
func encodeULID(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[:8])
	lo := binary.BigEndian.Uint64(b[8:])
	var out [26]byte
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
