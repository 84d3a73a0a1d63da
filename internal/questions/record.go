package questions

import (
	"errors"
	"time"

	"github.com/dgallion1/bloomgen/internal/blooms"
)

var (
	ErrMissingSubject  = errors.New("subject is required")
	ErrMissingSyllabus = errors.New("syllabus text is empty")
	ErrMissingExample  = errors.New("example format is required")
	ErrInvalidCount    = errors.New("question count out of range")
	ErrInvalidKind     = errors.New("invalid question kind")
)

// Record is one generated question. Seq starts at 1.
type Record struct {
	Seq    int    `json:"seq"`
	Text   string `json:"text"`
	Bucket string `json:"bucket"`
	Level  string `json:"level"`
	Kind   Kind   `json:"kind"`
	CO     string `json:"co,omitempty"`
	PO     string `json:"po,omitempty"`
	Marks  int    `json:"marks"`
	Filler bool   `json:"filler,omitempty"`
}

// Request is one generation action's input. It is passed by value and never
// mutated by the pipeline.
type Request struct {
	Subject  string         `json:"subject"`
	Syllabus string         `json:"-"`
	Kind     Kind           `json:"kind"`
	Count    int            `json:"count"`
	Weights  blooms.Weights `json:"weights,omitempty"`
	Example  string         `json:"example"`
	COs      []string       `json:"cos,omitempty"`
	POs      []string       `json:"pos,omitempty"`
	Marks    int            `json:"marks,omitempty"` // 0 means the kind default.
}

// Validate checks the boundary requirements. maxCount <= 0 disables the
// upper bound.
func (r Request) Validate(maxCount int) error {
	switch {
	case r.Subject == "":
		return ErrMissingSubject
	case r.Syllabus == "":
		return ErrMissingSyllabus
	case r.Example == "":
		return ErrMissingExample
	case !r.Kind.Valid():
		return ErrInvalidKind
	case r.Count < 0, maxCount > 0 && r.Count > maxCount:
		return ErrInvalidCount
	}
	return nil
}

// MarksPerQuestion returns the requested marks or the kind default.
func (r Request) MarksPerQuestion() int {
	if r.Marks > 0 {
		return r.Marks
	}
	return r.Kind.DefaultMarks()
}

// Result is the cached outcome of one generation action.
type Result struct {
	ID           string         `json:"id"`
	Subject      string         `json:"subject"`
	Kind         Kind           `json:"kind"`
	Requested    int            `json:"requested"`
	Plan         blooms.Plan    `json:"plan"`
	Weighted     bool           `json:"weighted"`
	Records      []Record       `json:"records"`
	Digest       string         `json:"digest,omitempty"`
	SyllabusHash string         `json:"syllabus_hash"`
	Calls        int            `json:"calls"`
	Fillers      int            `json:"fillers"`
	GeneratedAt  time.Time      `json:"generated_at"`
	Weights      blooms.Weights `json:"weights,omitempty"`
}

// TotalMarks sums the marks of every record.
func (r *Result) TotalMarks() int {
	total := 0
	for _, rec := range r.Records {
		total += rec.Marks
	}
	return total
}
