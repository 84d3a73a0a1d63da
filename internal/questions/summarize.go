package questions

import (
	"context"
	"strings"

	"github.com/dgallion1/bloomgen/internal/chunker"
	"github.com/dgallion1/bloomgen/internal/llm"
	"github.com/dgallion1/bloomgen/internal/logger"
)

// Summarizer reduces a syllabus to a digest: one completion call per chunk,
// capped at MaxChunks.
type Summarizer struct {
	LLM       llm.Completer
	Chunking  chunker.Config
	MaxChunks int
	MaxWords  int
	Params    llm.Params
	Log       *logger.Logger
}

// NewSummarizer returns a Summarizer with the digest defaults.
func NewSummarizer(c llm.Completer, log *logger.Logger) *Summarizer {
	if log == nil {
		log = logger.Nop()
	}
	return &Summarizer{
		LLM:       c,
		Chunking:  chunker.DefaultConfig(),
		MaxChunks: 6,
		MaxWords:  120,
		Params:    llm.Params{Temperature: 0.2, MaxOutputTokens: 300},
		Log:       log,
	}
}

// Summarize returns the digest and the number of completion calls made.
// A failed or empty chunk summary is dropped; if every chunk is dropped the
// digest falls back to the head of the syllabus. The only error is an
// invalid chunk configuration.
func (s *Summarizer) Summarize(ctx context.Context, syllabus string) (string, int, error) {
	chunks, err := chunker.Split(syllabus, s.Chunking)
	if err != nil {
		return "", 0, err
	}
	if s.MaxChunks > 0 && len(chunks) > s.MaxChunks {
		s.Log.Debug("dropping chunks over cap", "chunks", len(chunks), "cap", s.MaxChunks)
		chunks = chunks[:s.MaxChunks]
	}

	var parts []string
	calls := 0
	for _, c := range chunks {
		calls++
		out, err := s.LLM.Complete(ctx, BuildSummaryPrompt(c.Text, s.MaxWords), s.Params)
		if err != nil {
			s.Log.Warn("chunk summary failed", "chunk", c.Index, "error", err)
			continue
		}
		if out = strings.TrimSpace(out); out != "" {
			parts = append(parts, out)
		}
	}

	digest := strings.Join(parts, "\n\n")
	if digest == "" && len(chunks) > 0 {
		digest = chunks[0].Text
	}
	s.Log.Info("digest built",
		"chunks", len(chunks),
		"syllabus_tokens", chunker.EstimateTokens(syllabus),
		"digest_tokens", chunker.EstimateTokens(digest),
	)
	return digest, calls, nil
}
