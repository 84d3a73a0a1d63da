// Package blooms holds the Bloom's-taxonomy bucket planner and the keyword
// classifier.
package blooms

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Bucket labels in declaration order. Rounding error accumulates into the
// last one.
const (
	BucketUnderstand      = "Understand"
	BucketApply           = "Apply"
	BucketAnalyzeEvaluate = "Analyze/Evaluate"
)

// DefaultBucket receives every question when no weights are given.
const DefaultBucket = BucketUnderstand

// Buckets is the fixed bucket ordering used for planning and generation.
var Buckets = []string{BucketUnderstand, BucketApply, BucketAnalyzeEvaluate}

// DefaultSplit is substituted when the supplied weights sum to zero.
var DefaultSplit = Weights{
	BucketUnderstand:      30,
	BucketApply:           30,
	BucketAnalyzeEvaluate: 40,
}

var (
	ErrUnknownBucket = errors.New("unknown bucket")
	ErrInvalidWeight = errors.New("invalid weight")
)

// Weights maps bucket label to a percentage. Missing labels weigh zero.
type Weights map[string]float64

// Allocation is one bucket's share of the plan.
type Allocation struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// Plan is an ordered bucket allocation. Counts are never negative and always
// sum to the requested total.
type Plan []Allocation

// Total returns the sum of all counts.
func (p Plan) Total() int {
	n := 0
	for _, a := range p {
		n += a.Count
	}
	return n
}

// Count returns the allocation for bucket, or 0.
func (p Plan) Count(bucket string) int {
	for _, a := range p {
		if a.Bucket == bucket {
			return a.Count
		}
	}
	return 0
}

// Weighted reports whether the plan spreads over more than the default bucket.
func (p Plan) Weighted() bool {
	return len(p) > 1
}

// NewPlan computes per-bucket counts for n questions. With nil or empty
// weights every question lands in DefaultBucket. Negative weights count as
// zero. If the last bucket's remainder would go negative, the deficit is
// taken back from the preceding buckets, latest first.
func NewPlan(n int, w Weights) (Plan, error) {
	if n < 0 {
		n = 0
	}
	if len(w) == 0 {
		return Plan{{Bucket: DefaultBucket, Count: n}}, nil
	}
	for label, v := range w {
		if !isBucket(label) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, label)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s=%v", ErrInvalidWeight, label, v)
		}
	}

	var sum float64
	for _, b := range Buckets {
		if v := w[b]; v > 0 {
			sum += v
		}
	}
	norm := make(map[string]float64, len(Buckets))
	if sum == 0 {
		for _, b := range Buckets {
			norm[b] = DefaultSplit[b]
		}
	} else {
		for _, b := range Buckets {
			if v := w[b]; v > 0 {
				norm[b] = v * 100 / sum
			}
		}
	}

	plan := make(Plan, len(Buckets))
	assigned := 0
	last := len(Buckets) - 1
	for i, b := range Buckets[:last] {
		c := int(math.Round(float64(n) * norm[b] / 100))
		plan[i] = Allocation{Bucket: b, Count: c}
		assigned += c
	}
	remainder := n - assigned
	for i := last - 1; remainder < 0 && i >= 0; i-- {
		take := plan[i].Count
		if take > -remainder {
			take = -remainder
		}
		plan[i].Count -= take
		remainder += take
	}
	plan[last] = Allocation{Bucket: Buckets[last], Count: remainder}
	return plan, nil
}

// ParseWeights reads "Label=pct,Label=pct". Labels match case-insensitively
// and "-" is accepted for "/" so "analyze-evaluate" works on a command line.
func ParseWeights(s string) (Weights, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	w := Weights{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, val, ok := strings.Cut(part, "=")
		if !ok {
			label, val, ok = strings.Cut(part, ":")
		}
		if !ok {
			return nil, fmt.Errorf("weight %q: expected label=percent", part)
		}
		bucket, found := canonicalBucket(label)
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, strings.TrimSpace(label))
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "%")), 64)
		if err != nil {
			return nil, fmt.Errorf("weight %q: %w", part, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeight, part)
		}
		w[bucket] = v
	}
	return w, nil
}

// String renders weights in bucket order, for logs.
func (w Weights) String() string {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return bucketIndex(keys[i]) < bucketIndex(keys[j]) })
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.FormatFloat(w[k], 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func canonicalBucket(label string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	l = strings.ReplaceAll(l, "-", "/")
	for _, b := range Buckets {
		if strings.ToLower(b) == l {
			return b, true
		}
	}
	return "", false
}

func isBucket(label string) bool {
	return bucketIndex(label) >= 0
}

func bucketIndex(label string) int {
	for i, b := range Buckets {
		if b == label {
			return i
		}
	}
	return -1
}
