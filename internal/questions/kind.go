// Package questions builds exam questions from a syllabus digest.
package questions

import (
	"fmt"
	"strings"
)

// Kind is the question format requested from the model.
type Kind string

const (
	KindMCQ        Kind = "mcq"
	KindShort      Kind = "short"
	KindLong       Kind = "long"
	KindAssignment Kind = "assignment"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{KindMCQ, KindShort, KindLong, KindAssignment}

type kindInfo struct {
	noun    string
	heading string
	marks   int
	example string
}

var kindTable = map[Kind]kindInfo{
	KindMCQ: {
		noun:    "multiple-choice questions",
		heading: "MCQs",
		marks:   1,
		example: "Which scheduling algorithm can cause starvation? (A) FCFS (B) Round Robin (C) SJF (D) FIFO",
	},
	KindShort: {
		noun:    "short answer questions",
		heading: "Short Answer Questions",
		marks:   2,
		example: "Explain the difference between a process and a thread.",
	},
	KindLong: {
		noun:    "long answer questions",
		heading: "Long Answer Questions",
		marks:   10,
		example: "Compare paging and segmentation with suitable diagrams and discuss their trade-offs.",
	},
	KindAssignment: {
		noun:    "assignments/tasks",
		heading: "Assignments",
		marks:   5,
		example: "Design and implement a producer-consumer solution using semaphores and report its behavior under load.",
	},
}

// ParseKind accepts the canonical names plus a few common spellings.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mcq", "mcqs", "multiple-choice", "multiple_choice":
		return KindMCQ, nil
	case "short", "short-answer", "short_answer":
		return KindShort, nil
	case "long", "long-answer", "long_answer":
		return KindLong, nil
	case "assignment", "assignments", "task", "tasks":
		return KindAssignment, nil
	}
	return "", fmt.Errorf("unknown question kind %q", s)
}

func (k Kind) Valid() bool {
	_, ok := kindTable[k]
	return ok
}

// Noun is the plural phrase used in prompts.
func (k Kind) Noun() string { return kindTable[k].noun }

// Heading is the section title used in exported documents.
func (k Kind) Heading() string { return kindTable[k].heading }

// DefaultMarks is the per-question weight when none is given.
func (k Kind) DefaultMarks() int { return kindTable[k].marks }

// DefaultExample is a sample of the expected format.
func (k Kind) DefaultExample() string { return kindTable[k].example }

// Classified reports whether questions of this kind carry a keyword level
// in unweighted mode. Assignments do not.
func (k Kind) Classified() bool { return k != KindAssignment }
