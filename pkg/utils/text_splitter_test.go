package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short text", 100, 10)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Fatalf("expected single chunk, got %v", chunks)
	}
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 100)
	chunks := SplitText(text, 200, 40)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len([]rune(c)) > 200 {
			t.Errorf("chunk %d exceeds size: %d runes", i, len([]rune(c)))
		}
	}
	// The tail of the input must appear in the last chunk.
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Error("last chunk is not a suffix of the input")
	}
}

func TestSplitTextAvoidsMidWordCuts(t *testing.T) {
	text := strings.Repeat("lorem ", 200)
	chunks := SplitText(text, 100, 20)
	for i, c := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(c, " ") {
			t.Errorf("chunk %d does not end at a word boundary: %q", i, c[len(c)-10:])
		}
	}
}
