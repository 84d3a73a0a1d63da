package parser

import (
	"strings"
	"testing"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 untitled section, got %d", len(doc.Sections))
	}
	want := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	if doc.Sections[0].Text != want {
		t.Errorf("expected %q, got %q", want, doc.Sections[0].Text)
	}
}

func TestTextParser_UnitHeadings(t *testing.T) {
	input := `Operating Systems (CS301)

UNIT I Introduction
Processes, threads, system calls.

Unit 2: Memory Management
Paging. Segmentation.

Virtual memory.
Module 3 - File Systems
Inodes and journaling.`

	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "os.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d: %+v", len(doc.Sections), doc.Sections)
	}
	if doc.Sections[0].Heading != "" || doc.Sections[0].Text != "Operating Systems (CS301)" {
		t.Errorf("unexpected preamble section %+v", doc.Sections[0])
	}
	wantHeadings := []string{"UNIT I Introduction", "Unit 2: Memory Management", "Module 3 - File Systems"}
	for i, h := range wantHeadings {
		s := doc.Sections[i+1]
		if s.Heading != h || s.Level != 1 {
			t.Errorf("section %d: expected heading %q level 1, got %q level %d", i+1, h, s.Heading, s.Level)
		}
	}
	if doc.Sections[2].Text != "Paging. Segmentation.\n\nVirtual memory." {
		t.Errorf("unexpected unit 2 body %q", doc.Sections[2].Text)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", doc.Title)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected 0 sections for empty input, got %d", len(doc.Sections))
	}
	if doc.PlainText() != "" {
		t.Errorf("expected empty plain text, got %q", doc.PlainText())
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	input := "Para one.\n   \n\n\nPara two."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.PlainText(); got != "Para one.\n\nPara two." {
		t.Errorf("unexpected plain text %q", got)
	}
}

func TestIsUnitHeading(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"UNIT IV", true},
		{"Unit 1: Basics", true},
		{"  module 12 Networking", true},
		{"Chapter 3", true},
		{"Units of measure", false},
		{"Unity engine", false},
		{"The unit test", false},
	}
	for _, tt := range tests {
		if got := IsUnitHeading(tt.line); got != tt.want {
			t.Errorf("IsUnitHeading(%q): expected %v, got %v", tt.line, tt.want, got)
		}
	}
}
