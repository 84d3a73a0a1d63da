package questions

import (
	"fmt"
	"strings"

	"github.com/dgallion1/bloomgen/internal/blooms"
)

// SummaryPrompt compresses one syllabus chunk into exam-relevant bullets.
const SummaryPrompt = `You are preparing material for an exam paper. Summarize the syllabus excerpt below as short bullet points.

Rules:
- Keep only topics, sub-topics and keywords an examiner could ask about
- Drop administrative text: credits, hours, grading, textbooks, faculty names
- At most %d words in total
- One bullet per line, starting with "- "
- Respond with ONLY the bullets, no other text`

// bucketGuides lists the action verbs each bucket's questions should open
// with.
var bucketGuides = map[string]string{
	blooms.BucketUnderstand:      "test comprehension; start with verbs such as explain, describe, summarize, classify, interpret or outline",
	blooms.BucketApply:           "require using a concept in a concrete situation; start with verbs such as solve, apply, demonstrate, use, compute or implement",
	blooms.BucketAnalyzeEvaluate: "require breaking ideas apart or judging them; start with verbs such as compare, differentiate, examine, analyze, justify, assess or critique",
}

// BuildSummaryPrompt creates the prompt for one chunk.
func BuildSummaryPrompt(chunk string, maxWords int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, SummaryPrompt, maxWords)
	sb.WriteString("\n\n---\n")
	sb.WriteString(chunk)
	return sb.String()
}

// GenerationPrompt carries everything one batch call needs.
type GenerationPrompt struct {
	Subject string
	Digest  string
	Kind    Kind
	Bucket  string
	Count   int
	Example string
}

// Build renders the prompt. The output contract is strict so the response
// can be split on line breaks.
func (g GenerationPrompt) Build() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate exactly %d %s for the subject %q based on the syllabus summary below.\n\n", g.Count, g.Kind.Noun(), g.Subject)
	if guide, ok := bucketGuides[g.Bucket]; ok {
		fmt.Fprintf(&sb, "Cognitive level: %s. The questions must %s.\n", g.Bucket, guide)
	}
	sb.WriteString("\nOutput rules:\n")
	sb.WriteString("- One question per line\n")
	sb.WriteString("- No numbering, no bullets, no blank lines\n")
	sb.WriteString("- No headings, introductions or answers\n")
	if g.Kind == KindMCQ {
		sb.WriteString("- Put the question and its four options (A) to (D) on the same line\n")
	}
	if ex := strings.TrimSpace(g.Example); ex != "" {
		fmt.Fprintf(&sb, "\nUse this as an example format:\n%s\n", ex)
	}
	sb.WriteString("\n---\n")
	sb.WriteString(g.Digest)
	return sb.String()
}
