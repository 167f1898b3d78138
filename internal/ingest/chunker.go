package ingest

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/rkondaveeti/IngestAPI/internal/config"
)

// Section is one contiguous text span cut out of the document, tagged with
// the page its start offset falls on.
type Section struct {
	Text string
	Page int
}

type ChunkConfig struct {
	Size                int
	Overlap             int
	SentenceSearchLimit int
}

func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:                config.ChunkSize,
		Overlap:             config.ChunkOverlap,
		SentenceSearchLimit: config.SentenceSearchLimit,
	}
}

const (
	tableOpenMarker  = "<table"
	tableCloseMarker = "</table"
)

func isWordBreak(c byte) bool {
	switch c {
	case ',', ';', ':', ' ', '(', ')', '[', ']', '{', '}', '\t', '\n':
		return true
	}
	return false
}

// sentenceEndingAt treats '.', '!', '?' and a blank line as sentence ends.
func sentenceEndingAt(text string, i int) bool {
	switch text[i] {
	case '.', '!', '?':
		return true
	case '\n':
		return i+1 < len(text) && text[i+1] == '\n'
	}
	return false
}

// SplitSections cuts the page map's concatenated text into overlapping,
// boundary-aware sections. The returned sequence is lazy, finite and
// single-use; boundaries depend only on the text and cfg.
//
// Each cut prefers a sentence ending within SentenceSearchLimit characters
// past the nominal size, then falls back to the last word break seen, then
// to a raw cut. The start of every section is walked backwards the same
// way so a section begins just after a boundary where one exists. A
// section that ends inside an unclosed <table keeps the table at the start
// of the next section instead of applying the plain overlap.
func SplitSections(pages PageMap, cfg ChunkConfig) iter.Seq[Section] {
	return func(yield func(Section) bool) {
		text := pages.FullText()
		length := len(text)
		//ignore table openings this close to the section start, otherwise a
		//table longer than Size would pin start in place forever
		tableGuard := config.TableContinuationMultiplier * cfg.SentenceSearchLimit

		start := 0
		end := length

		for start+cfg.Overlap < length {
			lastWord := -1
			end = start + cfg.Size

			if end > length {
				end = length
			} else {
				for end < length && (end-start-cfg.Size) < cfg.SentenceSearchLimit && !sentenceEndingAt(text, end) {
					if isWordBreak(text[end]) {
						lastWord = end
					}
					end++
				}
				if end < length && !sentenceEndingAt(text, end) && lastWord > 0 {
					end = lastWord //at least keep a whole word
				}
			}
			if end < length {
				end++ //include the boundary character
				for end < length && !utf8.RuneStart(text[end]) {
					end++ //a raw cut must not split a multi-byte character
				}
			}

			lastWord = -1
			for start > 0 && start > end-cfg.Size-2*cfg.SentenceSearchLimit && !sentenceEndingAt(text, start) {
				if isWordBreak(text[start]) {
					lastWord = start
				}
				start--
			}
			if !sentenceEndingAt(text, start) && lastWord > 0 {
				start = lastWord
			}
			if start > 0 {
				start++ //exclude the boundary character itself
			}
			for start < end && !utf8.RuneStart(text[start]) {
				start++
			}

			section := text[start:end]
			if !yield(Section{Text: section, Page: pages.FindPage(start)}) {
				return
			}

			lastTableStart := strings.LastIndex(section, tableOpenMarker)
			if lastTableStart > tableGuard && lastTableStart > strings.LastIndex(section, tableCloseMarker) {
				//section ends with an unclosed table: start the next section at
				//the table, but never behind the plain overlap position
				start = min(end-cfg.Overlap, start+lastTableStart)
			} else {
				start = end - cfg.Overlap
			}
		}

		for start < end && !utf8.RuneStart(text[start]) {
			start++
		}
		if start+cfg.Overlap < end {
			yield(Section{Text: text[start:end], Page: pages.FindPage(start)})
		}
	}
}

// CollectSections drains the sequence into a slice for callers that need
// random access, like the vector-store adapter.
func CollectSections(seq iter.Seq[Section]) []Section {
	var sections []Section
	for s := range seq {
		sections = append(sections, s)
	}
	return sections
}
