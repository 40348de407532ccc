package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_SmallInputs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"Empty_Page", "", 0},
		{"Whitespace_Only", "   \n\n  ", 0},
		{"Fits_In_One_Chunk", "Invoice #42 Total: $42.00", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, 1000, 200)
			if len(got) != tt.want {
				t.Errorf("chunk count got %d, want %d", len(got), tt.want)
			}
			if tt.want == 1 && got[0] != tt.text {
				t.Errorf("single chunk should be the full text, got %q", got[0])
			}
		})
	}
}

func TestSplit_SizeBoundAndExactOverlap(t *testing.T) {
	const maxSize = 100
	const overlap = 20

	paragraphs := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		paragraphs = append(paragraphs, "Item line with a price of $9.99 on it")
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := Split(text, maxSize, overlap)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks for %d chars, got %d", len(text), len(chunks))
	}

	for i, c := range chunks {
		if len(c) > maxSize {
			t.Errorf("chunk %d length %d exceeds max %d", i, len(c), maxSize)
		}
	}

	for i := 0; i < len(chunks)-1; i++ {
		tail := chunks[i][len(chunks[i])-overlap:]
		head := chunks[i+1][:overlap]
		if tail != head {
			t.Errorf("chunk %d/%d overlap mismatch: tail %q head %q", i, i+1, tail, head)
		}
	}
}

func TestSplit_Reconstruction(t *testing.T) {
	const maxSize = 80
	const overlap = 15

	text := strings.Repeat("one receipt line\nanother line with totals\n\n", 30)

	chunks := Split(text, maxSize, overlap)

	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		rebuilt.WriteString(c[overlap:])
	}

	if rebuilt.String() != text {
		t.Error("stitching chunks minus the overlap regions should rebuild the source text")
	}
}

func TestSplit_HardCutWithoutSeparators(t *testing.T) {
	text := strings.Repeat("x", 350)

	chunks := Split(text, 100, 10)
	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("chunk %d length %d exceeds max on separator-free text", i, len(c))
		}
	}
	if len(chunks) < 4 {
		t.Errorf("expected at least 4 hard cut chunks, got %d", len(chunks))
	}
}

func TestSplit_HardCutKeepsRunesIntact(t *testing.T) {
	//three bytes per rune and no separators, so every cut is a hard cut
	//at a byte index that never coincides with a rune boundary
	text := strings.Repeat("請求書", 120)

	chunks := Split(text, 100, 20)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks for %d bytes, got %d", len(text), len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, c)
		}
		if len(c) > 100 {
			t.Errorf("chunk %d length %d exceeds max", i, len(c))
		}
	}
}

func TestSplit_MultibyteTextWithSeparators(t *testing.T) {
	line := strings.Repeat("商品", 20)
	text := strings.Repeat(line+"\n", 25)

	chunks := Split(text, 90, 15)
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, c)
		}
	}
	if len(chunks) < 2 {
		t.Errorf("expected a split, got %d chunks", len(chunks))
	}
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	text := "first paragraph about the vendor\n\nsecond paragraph about the total amount due"

	chunks := Split(text, 50, 10)
	if len(chunks) < 2 {
		t.Fatalf("expected a split, got %d chunks", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "vendor") {
		t.Errorf("first chunk should end at the paragraph boundary, got %q", chunks[0])
	}
}
