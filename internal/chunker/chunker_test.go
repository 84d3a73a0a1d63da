package chunker

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_DefaultGeometryScenario(t *testing.T) {
	text := strings.Repeat("abcdefghij", 500) // 5000 characters

	chunks, err := Split(text, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	wantLens := []int{2400, 2400, 600}
	wantStarts := []int{0, 2200, 4400}
	for i, c := range chunks {
		if got := utf8.RuneCountInString(c.Text); got != wantLens[i] {
			t.Errorf("chunk %d: expected length %d, got %d", i, wantLens[i], got)
		}
		if c.Start != wantStarts[i] {
			t.Errorf("chunk %d: expected start %d, got %d", i, wantStarts[i], c.Start)
		}
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
	}

	// Each chunk after the first overlaps its predecessor by exactly 200.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Text
		if !strings.HasPrefix(chunks[i].Text, prev[len(prev)-200:]) {
			t.Errorf("chunk %d does not start with the last 200 characters of chunk %d", i, i-1)
		}
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	chunks, err := Split("", DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
}

func TestSplit_ShortInputSingleChunk(t *testing.T) {
	chunks, err := Split("Unit 1: Processes and threads.", DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "Unit 1: Processes and threads." {
		t.Errorf("unexpected chunk text %q", chunks[0].Text)
	}
}

func TestSplit_ExactlyMaxChunk(t *testing.T) {
	text := strings.Repeat("x", 2400)
	chunks, err := Split(text, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Errorf("expected 1 chunk for text of exactly MaxChunk, got %d", len(chunks))
	}
}

func TestSplit_InvalidConfiguration(t *testing.T) {
	configs := []Config{
		{MaxChunk: 200, Overlap: 200},
		{MaxChunk: 100, Overlap: 200},
		{MaxChunk: 0, Overlap: 0},
		{MaxChunk: 10, Overlap: -1},
	}
	for _, cfg := range configs {
		_, err := Split("some text", cfg)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("config %+v: expected ErrInvalidConfiguration, got %v", cfg, err)
		}
	}
}

func TestSplit_MultibyteCharacters(t *testing.T) {
	text := strings.Repeat("é→", 30) // 60 runes, more bytes
	chunks, err := Split(text, Config{MaxChunk: 25, Overlap: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range chunks {
		if !utf8.ValidString(c.Text) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
		if n := utf8.RuneCountInString(c.Text); n > 25 {
			t.Errorf("chunk %d: %d characters exceeds max 25", i, n)
		}
	}
	if got := Join(chunks, 5); got != text {
		t.Errorf("round trip mismatch")
	}
}

func TestSplit_RoundTripProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	alphabet := []rune("abc def\nghi.ωλ")

	for iter := 0; iter < 200; iter++ {
		n := rng.IntN(3000)
		runes := make([]rune, n)
		for i := range runes {
			runes[i] = alphabet[rng.IntN(len(alphabet))]
		}
		text := string(runes)

		overlap := rng.IntN(50)
		maxChunk := overlap + 1 + rng.IntN(400)
		cfg := Config{MaxChunk: maxChunk, Overlap: overlap}

		chunks, err := Split(text, cfg)
		if err != nil {
			t.Fatalf("iter %d: unexpected error: %v", iter, err)
		}
		for i, c := range chunks {
			if utf8.RuneCountInString(c.Text) > maxChunk {
				t.Fatalf("iter %d chunk %d: exceeds max %d", iter, i, maxChunk)
			}
		}
		if got := Join(chunks, overlap); got != text {
			t.Fatalf("iter %d: round trip failed (len %d, max %d, overlap %d)", iter, n, maxChunk, overlap)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 400), 100},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(%d chars): expected %d, got %d", len(tt.in), tt.want, got)
		}
	}
}
