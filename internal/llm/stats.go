package llm

import (
	"context"
	"slices"
	"sync"
	"time"
)

type callSample struct {
	at          time.Time
	latencyMs   int64
	promptChars int
	failed      bool
}

// StatsSnapshot aggregates the completion calls still inside the window.
// Latency percentiles cover successful calls only.
type StatsSnapshot struct {
	Model       string  `json:"model,omitempty"`
	Window      string  `json:"window"`
	Calls       int     `json:"calls"`
	Failures    int     `json:"failures"`
	PromptChars int     `json:"prompt_chars"`
	MinMs       int64   `json:"min_ms"`
	MaxMs       int64   `json:"max_ms"`
	AvgMs       float64 `json:"avg_ms"`
	P50Ms       float64 `json:"p50_ms"`
	P95Ms       float64 `json:"p95_ms"`
	P99Ms       float64 `json:"p99_ms"`
}

// Stats keeps completion-call samples for a rolling window.
type Stats struct {
	mu      sync.Mutex
	samples []callSample
	window  time.Duration
	now     func() time.Time
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{
		samples: make([]callSample, 0, 128),
		window:  window,
		now:     time.Now,
	}
}

// Record adds one call outcome.
func (s *Stats) Record(latency time.Duration, promptChars int, err error) {
	ms := latency.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, callSample{
		at:          now,
		latencyMs:   ms,
		promptChars: promptChars,
		failed:      err != nil,
	})
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	snap := StatsSnapshot{Window: s.window.String(), Calls: len(s.samples)}

	var ok []int64
	var sum int64
	for _, sm := range s.samples {
		snap.PromptChars += sm.promptChars
		if sm.failed {
			snap.Failures++
			continue
		}
		ok = append(ok, sm.latencyMs)
		sum += sm.latencyMs
	}
	if len(ok) == 0 {
		return snap
	}
	slices.Sort(ok)
	snap.MinMs = ok[0]
	snap.MaxMs = ok[len(ok)-1]
	snap.AvgMs = float64(sum) / float64(len(ok))
	snap.P50Ms = percentile(ok, 50)
	snap.P95Ms = percentile(ok, 95)
	snap.P99Ms = percentile(ok, 99)
	return snap
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm callSample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}
	rank := float64(len(sorted)-1) * pct / 100
	lo := int(rank)
	if lo+1 >= len(sorted) {
		return float64(sorted[lo])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo]) + (float64(sorted[lo+1])-float64(sorted[lo]))*frac
}

// Instrumented records every call through Next into Stats.
type Instrumented struct {
	Next  Completer
	Stats *Stats
}

func (i *Instrumented) Complete(ctx context.Context, prompt string, p Params) (string, error) {
	start := time.Now()
	out, err := i.Next.Complete(ctx, prompt, p)
	i.Stats.Record(time.Since(start), len(prompt), err)
	return out, err
}

func (i *Instrumented) Model() string {
	if m, ok := i.Next.(Modeler); ok {
		return m.Model()
	}
	return ""
}

// Close forwards to the wrapped client.
func (i *Instrumented) Close() { Close(i.Next) }
