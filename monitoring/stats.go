package monitoring

import "sync"

// FeedWindow summarises feed parses recorded since the previous snapshot
type FeedWindow struct {
	Attempts    int
	Failures    int
	AvgDuration float64
}

// FailureRate returns the share of failed parses in the window
func (w FeedWindow) FailureRate() float64 {
	if w.Attempts == 0 {
		return 0
	}
	return float64(w.Failures) / float64(w.Attempts)
}

// FeedStats accumulates feed parse outcomes between alert evaluations
type FeedStats struct {
	mu            sync.Mutex
	attempts      int
	failures      int
	totalDuration float64
}

// DefaultFeedStats is fed by RecordFeedParse
var DefaultFeedStats = &FeedStats{}

// Record adds one parse outcome
func (s *FeedStats) Record(ok bool, duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts++
	if !ok {
		s.failures++
	}
	s.totalDuration += duration
}

// Swap returns the current window and starts a new one
func (s *FeedStats) Swap() FeedWindow {
	s.mu.Lock()
	defer s.mu.Unlock()

	window := FeedWindow{
		Attempts: s.attempts,
		Failures: s.failures,
	}
	if s.attempts > 0 {
		window.AvgDuration = s.totalDuration / float64(s.attempts)
	}

	s.attempts, s.failures, s.totalDuration = 0, 0, 0
	return window
}
