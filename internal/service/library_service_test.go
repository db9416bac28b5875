package service

import (
	"strings"
	"testing"
)

func TestExtractChunks(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "single paragraph",
			text:     "The mitochondria is the powerhouse of the cell.",
			expected: []string{"The mitochondria is the powerhouse of the cell."},
		},
		{
			name:     "two paragraphs",
			text:     "First paragraph here.\n\nSecond paragraph here.",
			expected: []string{"First paragraph here.", "Second paragraph here."},
		},
		{
			name:     "windows line endings",
			text:     "First paragraph here.\r\n\r\nSecond paragraph here.",
			expected: []string{"First paragraph here.", "Second paragraph here."},
		},
		{
			name:     "blank paragraphs dropped",
			text:     "Content.\n\n   \n\nMore content.",
			expected: []string{"Content.", "More content."},
		},
		{
			name:     "surrounding whitespace trimmed",
			text:     "  Padded paragraph.  \n\n\tTabbed paragraph.",
			expected: []string{"Padded paragraph.", "Tabbed paragraph."},
		},
		{
			name:     "empty input",
			text:     "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			text:     "   \n\n  \n\n ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ExtractChunks(tt.text)
			if len(chunks) != len(tt.expected) {
				t.Fatalf("got %d chunks, want %d: %q", len(chunks), len(tt.expected), chunks)
			}
			for i := range chunks {
				if chunks[i] != tt.expected[i] {
					t.Errorf("chunk %d = %q, want %q", i, chunks[i], tt.expected[i])
				}
			}
		})
	}
}

func TestExtractChunksSplitsLongParagraphs(t *testing.T) {
	sentence := strings.Repeat("word ", 60) + "ends here."
	long := strings.TrimSpace(strings.Repeat(sentence+" ", 12))

	chunks := ExtractChunks(long)
	if len(chunks) < 2 {
		t.Fatalf("expected the long paragraph to split, got %d chunk(s)", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > maxChunkSize {
			t.Errorf("chunk %d is %d bytes, exceeds %d", i, len(chunk), maxChunkSize)
		}
		if strings.TrimSpace(chunk) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}

	// No text may be lost in the split
	joined := strings.Join(chunks, " ")
	if joined != long {
		t.Error("rejoined chunks do not reproduce the original paragraph")
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "periods",
			text:     "One. Two. Three.",
			expected: []string{"One.", "Two.", "Three."},
		},
		{
			name:     "mixed punctuation",
			text:     "Really? Yes! Fine.",
			expected: []string{"Really?", "Yes!", "Fine."},
		},
		{
			name:     "no trailing space keeps text together",
			text:     "Version 1.5 shipped",
			expected: []string{"Version 1.5 shipped"},
		},
		{
			name:     "single sentence",
			text:     "Just one sentence",
			expected: []string{"Just one sentence"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentences := splitSentences(tt.text)
			if len(sentences) != len(tt.expected) {
				t.Fatalf("got %d sentences, want %d: %q", len(sentences), len(tt.expected), sentences)
			}
			for i := range sentences {
				if sentences[i] != tt.expected[i] {
					t.Errorf("sentence %d = %q, want %q", i, sentences[i], tt.expected[i])
				}
			}
		})
	}
}
