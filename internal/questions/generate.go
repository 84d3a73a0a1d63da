package questions

import (
	"context"
	"fmt"

	"github.com/dgallion1/bloomgen/internal/blooms"
	"github.com/dgallion1/bloomgen/internal/llm"
	"github.com/dgallion1/bloomgen/internal/logger"
)

// FillerQuestion pads a bucket the model under-filled.
const FillerQuestion = "Explain any one important concept from the syllabus in your own words."

// Generator issues batched completion calls per bucket.
type Generator struct {
	LLM       llm.Completer
	BatchSize int
	Params    llm.Params
	Log       *logger.Logger
}

func NewGenerator(c llm.Completer, batchSize int, log *logger.Logger) *Generator {
	if batchSize <= 0 {
		batchSize = 6
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{
		LLM:       c,
		BatchSize: batchSize,
		Params:    llm.Params{Temperature: 0.5},
		Log:       log,
	}
}

// Job is the per-action input to Generate.
type Job struct {
	Subject string
	Digest  string
	Kind    Kind
	Example string
	Plan    blooms.Plan
}

// Output is the ordered question list plus bookkeeping.
type Output struct {
	Records []Record
	Calls   int
	Fillers int
}

// Rounds returns how many calls a bucket of count questions needs.
func (g *Generator) Rounds(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + g.BatchSize - 1) / g.BatchSize
}

// Bucket generates up to count questions for one bucket. The slice may be
// short if the model under-generates; it is never longer than count.
func (g *Generator) Bucket(ctx context.Context, job Job, bucket string, count int) ([]string, int, error) {
	var out []string
	calls := 0
	remaining := count
	for round := 0; round < g.Rounds(count); round++ {
		n := g.BatchSize
		if remaining < n {
			n = remaining
		}
		prompt := GenerationPrompt{
			Subject: job.Subject,
			Digest:  job.Digest,
			Kind:    job.Kind,
			Bucket:  bucket,
			Count:   n,
			Example: job.Example,
		}.Build()

		calls++
		raw, err := g.LLM.Complete(ctx, prompt, g.Params)
		if err != nil {
			return nil, calls, fmt.Errorf("generate %s round %d: %w", bucket, round+1, err)
		}
		lines := ParseLines(raw, job.Kind)
		if len(lines) > n {
			lines = lines[:n]
		}
		if len(lines) < n {
			g.Log.Warn("model under-generated", "bucket", bucket, "round", round+1, "requested", n, "got", len(lines))
		}
		out = append(out, lines...)
		remaining -= n
	}
	if len(out) > count {
		out = out[:count]
	}
	return out, calls, nil
}

// Generate runs every bucket of the plan in declaration order, pads each
// bucket with FillerQuestion to its planned count and returns exactly
// job.Plan.Total() records numbered from 1. Completion errors propagate.
func (g *Generator) Generate(ctx context.Context, job Job) (Output, error) {
	var res Output
	for _, alloc := range job.Plan {
		if alloc.Count <= 0 {
			continue
		}
		lines, calls, err := g.Bucket(ctx, job, alloc.Bucket, alloc.Count)
		res.Calls += calls
		if err != nil {
			return res, err
		}
		for _, text := range lines {
			res.Records = append(res.Records, Record{Text: text, Bucket: alloc.Bucket, Kind: job.Kind})
		}
		for i := len(lines); i < alloc.Count; i++ {
			res.Records = append(res.Records, Record{Text: FillerQuestion, Bucket: alloc.Bucket, Kind: job.Kind, Filler: true})
			res.Fillers++
		}
	}
	res.Records = fit(res.Records, job.Plan.Total(), job.Kind, &res.Fillers)
	for i := range res.Records {
		res.Records[i].Seq = i + 1
	}
	return res, nil
}

// fit truncates or pads records to exactly n, padding under the default
// bucket.
func fit(records []Record, n int, kind Kind, fillers *int) []Record {
	if len(records) > n {
		return records[:n]
	}
	for len(records) < n {
		records = append(records, Record{Text: FillerQuestion, Bucket: blooms.DefaultBucket, Kind: kind, Filler: true})
		*fillers++
	}
	return records
}
