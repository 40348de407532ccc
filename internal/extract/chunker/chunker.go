package chunker

import (
	"strings"
	"unicode/utf8"
)

// Separators ordered from "best" to "worst" for semantic meaning.
// A cut is only moved back to one of these when the hard cut would
// land mid-paragraph, mid-line or mid-word.
var separators = []string{"\n\n", "\n", " "}

// Split cuts page text into windows of at most maxSize characters where each
// window shares exactly overlap characters with its successor. The final
// window simply runs to the end of the text, so its overlap with nothing is
// allowed to be shorter. Text that already fits returns as a single chunk,
// blank text returns none.
func Split(text string, maxSize int, overlap int) []string {
	if maxSize <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= maxSize {
		overlap = maxSize / 5
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= maxSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		if len(text)-start <= maxSize {
			chunks = append(chunks, text[start:])
			break
		}

		cut := findCut(text[start:start+maxSize], overlap) + start
		//a hard cut lands on a byte index, back it off so a multibyte
		//rune is never split across two chunks
		for cut > start+1 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		chunks = append(chunks, text[start:cut])

		//next window starts overlap characters before this cut,
		//that region is the shared redundancy between neighbours
		next := cut - overlap
		for next > 0 && !utf8.RuneStart(text[next]) {
			next++
		}
		if next <= start {
			//the window must always move forward
			next = cut
		}
		start = next
	}
	return chunks
}

// findCut picks the split position inside one full window. It walks the
// separator preference order and keeps the last occurrence, provided cutting
// there still moves the window forward past the overlap region. When no
// separator qualifies the window is hard cut at its end.
func findCut(window string, overlap int) int {
	for _, sep := range separators {
		if i := strings.LastIndex(window, sep); i > overlap {
			return i
		}
	}
	return len(window)
}
