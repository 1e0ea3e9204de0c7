package chunker

import (
	"strings"
	"testing"
)

func TestSplit_ShortTextIsOnePiece(t *testing.T) {
	parts := Split("  One sentence. And another.  ", Config{MaxWords: 10})
	if len(parts) != 1 {
		t.Fatalf("expected 1 piece, got %d: %q", len(parts), parts)
	}
	if parts[0] != "One sentence. And another." {
		t.Errorf("got %q", parts[0])
	}
}

func TestSplit_DisabledKeepsText(t *testing.T) {
	text := strings.Repeat("word ", 500)
	parts := Split(text, Config{})
	if len(parts) != 1 {
		t.Fatalf("expected splitting disabled, got %d pieces", len(parts))
	}
}

func TestSplit_Empty(t *testing.T) {
	if parts := Split("   ", Config{MaxWords: 5}); parts != nil {
		t.Errorf("expected nil, got %q", parts)
	}
}

func TestSplit_PacksSentences(t *testing.T) {
	text := "One two three. Four five. Six seven eight. Nine."
	parts := Split(text, Config{MaxWords: 5})

	want := []string{"One two three. Four five.", "Six seven eight. Nine."}
	if len(parts) != len(want) {
		t.Fatalf("expected %d pieces, got %d: %q", len(want), len(parts), parts)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("piece %d: got %q, want %q", i, parts[i], want[i])
		}
	}
}

func TestSplit_LongSentenceIsCut(t *testing.T) {
	text := "a b c d e f g h i j k."
	parts := Split(text, Config{MaxWords: 4})

	want := []string{"a b c d", "e f g h", "i j k."}
	if len(parts) != len(want) {
		t.Fatalf("expected %d pieces, got %d: %q", len(want), len(parts), parts)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("piece %d: got %q, want %q", i, parts[i], want[i])
		}
	}
}

func TestSplit_PreservesEveryWord(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
	parts := Split(text, Config{MaxWords: 25})

	if len(parts) < 2 {
		t.Fatalf("expected several pieces, got %d", len(parts))
	}
	for i, p := range parts {
		if n := CountWords(p); n > 25 {
			t.Errorf("piece %d has %d words", i, n)
		}
	}
	if got, want := strings.Join(parts, " "), strings.Join(strings.Fields(text), " "); got != want {
		t.Errorf("words lost or reordered")
	}
}

func TestSplit_MergesShortTail(t *testing.T) {
	text := "One two three four. Five six seven eight. Nine."
	parts := Split(text, Config{MaxWords: 4, MinWords: 2})

	if len(parts) != 2 {
		t.Fatalf("expected tail merged into 2 pieces, got %d: %q", len(parts), parts)
	}
	if parts[1] != "Five six seven eight. Nine." {
		t.Errorf("got %q", parts[1])
	}
}

func TestSplitAll(t *testing.T) {
	parts := SplitAll([]string{"Title", "a b c. d e f.", ""}, Config{MaxWords: 3})
	want := []string{"Title", "a b c.", "d e f."}
	if len(parts) != len(want) {
		t.Fatalf("got %q", parts)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("piece %d: got %q, want %q", i, parts[i], want[i])
		}
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two\nthree\tfour", 4},
	}
	for _, tt := range tests {
		if got := CountWords(tt.text); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
