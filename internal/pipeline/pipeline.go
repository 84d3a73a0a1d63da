// Package pipeline wires extraction output through summarization, planning,
// generation and labeling for one generate action.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/bloomgen/internal/blooms"
	"github.com/dgallion1/bloomgen/internal/chunker"
	"github.com/dgallion1/bloomgen/internal/logger"
	"github.com/dgallion1/bloomgen/internal/questions"
	"github.com/dgallion1/bloomgen/internal/session"
)

// Pipeline runs one generate action synchronously. Completion calls are
// issued one at a time in the calling goroutine.
type Pipeline struct {
	Summarizer   *questions.Summarizer
	Generator    *questions.Generator
	Rules        blooms.Rules
	MaxQuestions int
	Log          *logger.Logger

	now func() time.Time
}

func New(s *questions.Summarizer, g *questions.Generator, maxQuestions int, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		Summarizer:   s,
		Generator:    g,
		Rules:        blooms.DefaultRules,
		MaxQuestions: maxQuestions,
		Log:          log,
		now:          time.Now,
	}
}

// Run generates req.Count questions and returns sess with the result in its
// cache slot. On error sess is returned unchanged.
func (p *Pipeline) Run(ctx context.Context, sess session.Session, req questions.Request) (session.Session, *questions.Result, error) {
	if err := req.Validate(p.MaxQuestions); err != nil {
		return sess, nil, err
	}
	plan, err := blooms.NewPlan(req.Count, req.Weights)
	if err != nil {
		return sess, nil, err
	}

	log := p.Log.With("session", sess.ID, "subject", req.Subject, "kind", string(req.Kind))
	start := time.Now()

	digest, summaryCalls, err := p.Summarizer.Summarize(ctx, req.Syllabus)
	if err != nil {
		return sess, nil, fmt.Errorf("summarize: %w", err)
	}
	log.Info("syllabus summarized",
		"calls", summaryCalls,
		"syllabus_tokens", chunker.EstimateTokens(req.Syllabus),
		"digest_tokens", chunker.EstimateTokens(digest),
	)

	out, err := p.Generator.Generate(ctx, questions.Job{
		Subject: req.Subject,
		Digest:  digest,
		Kind:    req.Kind,
		Example: req.Example,
		Plan:    plan,
	})
	if err != nil {
		log.Error("generation failed", "error", err, "calls", summaryCalls+out.Calls)
		return sess, nil, err
	}

	records := p.label(out.Records, plan.Weighted(), req)

	res := &questions.Result{
		ID:           uuid.NewString(),
		Subject:      req.Subject,
		Kind:         req.Kind,
		Requested:    req.Count,
		Plan:         plan,
		Weighted:     plan.Weighted(),
		Records:      records,
		Digest:       digest,
		SyllabusHash: ContentHashHex([]byte(req.Syllabus)),
		Calls:        summaryCalls + out.Calls,
		Fillers:      out.Fillers,
		GeneratedAt:  p.clock().UTC(),
		Weights:      req.Weights,
	}

	log.Info("generation complete",
		"questions", len(records),
		"fillers", out.Fillers,
		"calls", res.Calls,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return sess.WithResult(res), res, nil
}

// Reset clears the session's cached result.
func (p *Pipeline) Reset(sess session.Session) session.Session {
	return sess.Reset()
}

// label fills Level, CO, PO and Marks. Weighted plans show the bucket label;
// unweighted plans run the keyword classifier, except for assignments which
// carry no level.
func (p *Pipeline) label(records []questions.Record, weighted bool, req questions.Request) []questions.Record {
	marks := req.MarksPerQuestion()
	rules := p.Rules
	if rules == nil {
		rules = blooms.DefaultRules
	}
	for i := range records {
		r := &records[i]
		switch {
		case weighted:
			r.Level = r.Bucket
		case req.Kind.Classified():
			r.Level = rules.Classify(r.Text)
		}
		r.CO = roundRobin(req.COs, r.Seq)
		r.PO = roundRobin(req.POs, r.Seq)
		r.Marks = marks
	}
	return records
}

// roundRobin picks ids[(seq-1) mod len(ids)].
func roundRobin(ids []string, seq int) string {
	if len(ids) == 0 || seq < 1 {
		return ""
	}
	return ids[(seq-1)%len(ids)]
}

func (p *Pipeline) clock() time.Time {
	if p.now == nil {
		return time.Now()
	}
	return p.now()
}
