package auth

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// TimingDelay pads failed login responses with a small randomized delay so
// response timing does not distinguish hash formats or failure causes.
type TimingDelay struct {
	base   time.Duration
	jitter time.Duration
}

// NewTimingDelay creates a TimingDelay with the given base delay and random
// jitter range.
func NewTimingDelay(base, jitter time.Duration) *TimingDelay {
	return &TimingDelay{base: base, jitter: jitter}
}

// Wait sleeps for base plus a random fraction of jitter.
func (td *TimingDelay) Wait() {
	delay := td.base
	if td.jitter > 0 {
		delay += time.Duration(cryptoRandInt64(int64(td.jitter)))
	}
	time.Sleep(delay)
}

// cryptoRandInt64 returns a random value in [0, max). Uses crypto/rand:
// math/rand jitter could in principle be reconstructed by an observer.
func cryptoRandInt64(max int64) int64 {
	if max <= 0 {
		return 0
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(buf[:]) % uint64(max))
}
