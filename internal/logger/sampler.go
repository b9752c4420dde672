package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// ratioSampler passes num events out of every den, round-robin.
// A zero ratio means "pass everything".
type ratioSampler struct {
	num     atomic.Int64
	den     atomic.Int64
	counter atomic.Int64
}

func newRatioSampler(num, den int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(num, den)
	return s
}

// Set replaces the sampling ratio; invalid values disable sampling.
func (s *ratioSampler) Set(num, den int) {
	if num <= 0 || den <= 0 {
		s.num.Store(0)
		s.den.Store(0)
		s.counter.Store(0)
		return
	}
	if num > den {
		num = den
	}
	s.num.Store(int64(num))
	s.den.Store(int64(den))
	s.counter.Store(0)
}

// Allow reports whether the current event should pass sampling.
func (s *ratioSampler) Allow() bool {
	den := s.den.Load()
	num := s.num.Load()
	if den <= 0 || num <= 0 {
		return true
	}
	n := s.counter.Add(1)
	return (n-1)%den < num
}

// parseRatioSpec understands "1/50" and bare "50" (meaning 1/50).
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0
	}
	if num, den, ok := strings.Cut(spec, "/"); ok {
		n, err1 := strconv.Atoi(strings.TrimSpace(num))
		d, err2 := strconv.Atoi(strings.TrimSpace(den))
		if err1 == nil && err2 == nil {
			return n, d
		}
		return 0, 0
	}
	if v, err := strconv.Atoi(spec); err == nil && v > 0 {
		return 1, v
	}
	return 0, 0
}
