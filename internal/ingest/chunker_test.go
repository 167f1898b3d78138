package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func testConfig() ChunkConfig {
	return ChunkConfig{Size: 50, Overlap: 10, SentenceSearchLimit: 20}
}

func singlePage(text string) PageMap {
	return PageMap{{Number: 1, Offset: 0, Text: text}}
}

func TestSplitSections_ShortTextIsOneSection(t *testing.T) {
	text := "A short paragraph that fits in one section."
	sections := CollectSections(SplitSections(singlePage(text), testConfig()))

	if len(sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(sections))
	}
	if sections[0].Text != text {
		t.Errorf("Section text mismatch: got %q", sections[0].Text)
	}
	if sections[0].Page != 1 {
		t.Errorf("Expected page 1, got %d", sections[0].Page)
	}
}

func TestSplitSections_TextShorterThanOverlapYieldsNothing(t *testing.T) {
	sections := CollectSections(SplitSections(singlePage("tiny"), testConfig()))
	if len(sections) != 0 {
		t.Errorf("Expected no sections for text shorter than the overlap, got %d", len(sections))
	}
}

func TestSplitSections_SnapsToSentenceEndings(t *testing.T) {
	// periodic sentences, a '.' is always within the search window
	text := strings.Repeat("Hello world. ", 100)
	sections := CollectSections(SplitSections(singlePage(text), testConfig()))

	if len(sections) < 2 {
		t.Fatalf("Expected multiple sections, got %d", len(sections))
	}

	for i, s := range sections[:len(sections)-1] {
		if !strings.HasSuffix(s.Text, ".") {
			t.Errorf("Section %d should end on a sentence boundary, got %q", i, s.Text[len(s.Text)-10:])
		}
	}

	// each iteration advances roughly Size-Overlap characters
	approx := len(text) / (testConfig().Size - testConfig().Overlap)
	if len(sections) < approx/2 || len(sections) > approx*2 {
		t.Errorf("Section count %d far from expected ~%d", len(sections), approx)
	}
}

func TestSplitSections_FallsBackToWordBreaks(t *testing.T) {
	// no sentence endings anywhere, cuts must land on word breaks
	text := strings.Repeat("lorem ipsum dolor sit amet ", 40)
	sections := CollectSections(SplitSections(singlePage(text), testConfig()))

	if len(sections) < 2 {
		t.Fatalf("Expected multiple sections, got %d", len(sections))
	}
	for i, s := range sections[:len(sections)-1] {
		if !strings.HasSuffix(s.Text, " ") {
			t.Errorf("Section %d should end on a word break, got %q", i, s.Text[len(s.Text)-10:])
		}
	}
}

func TestSplitSections_MultiByteTextStaysValidUTF8(t *testing.T) {
	// CJK prose has no ASCII sentence endings or word breaks, so every cut
	// is a raw cut and must still land on a character boundary
	text := strings.Repeat("文書の取り込み処理を検証する", 50)
	sections := CollectSections(SplitSections(singlePage(text), testConfig()))

	if len(sections) < 2 {
		t.Fatalf("Expected multiple sections, got %d", len(sections))
	}
	for i, s := range sections {
		if !utf8.ValidString(s.Text) {
			t.Errorf("Section %d is not valid UTF-8: %q", i, s.Text)
		}
	}
	if !strings.HasPrefix(text, sections[0].Text) {
		t.Error("First section does not start at the beginning of the text")
	}
	if !strings.HasSuffix(text, sections[len(sections)-1].Text) {
		t.Error("Last section does not reach the end of the text")
	}
}

func TestSplitSections_MixedScriptsStayValidUTF8(t *testing.T) {
	text := strings.Repeat("Résumé für die Prüfung: 全文検索と要約. ", 40)
	for i, s := range CollectSections(SplitSections(singlePage(text), testConfig())) {
		if !utf8.ValidString(s.Text) {
			t.Errorf("Section %d is not valid UTF-8: %q", i, s.Text)
		}
	}
}

func TestSplitSections_CoversWholeText(t *testing.T) {
	text := strings.Repeat("Hello world. ", 100)
	sections := CollectSections(SplitSections(singlePage(text), testConfig()))

	if !strings.HasPrefix(text, sections[0].Text[:10]) {
		t.Error("First section does not start at the beginning of the text")
	}
	last := sections[len(sections)-1].Text
	if !strings.HasSuffix(text, last) {
		t.Error("Last section does not reach the end of the text")
	}
}

func TestSplitSections_ConsecutiveSectionsOverlap(t *testing.T) {
	text := strings.Repeat("Hello world. ", 100)
	sections := CollectSections(SplitSections(singlePage(text), testConfig()))

	// the trailing Overlap characters of each section reappear in the next
	for i := 1; i < len(sections); i++ {
		tail := sections[i-1].Text
		if len(tail) > testConfig().Overlap {
			tail = tail[len(tail)-testConfig().Overlap:]
		}
		if !strings.Contains(sections[i].Text, tail) {
			t.Errorf("Sections %d and %d do not share overlapping text", i-1, i)
		}
	}
}

func TestSplitSections_Deterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 60)
	first := CollectSections(SplitSections(singlePage(text), testConfig()))
	second := CollectSections(SplitSections(singlePage(text), testConfig()))

	if len(first) != len(second) {
		t.Fatalf("Section counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Section %d differs between runs", i)
		}
	}
}

func TestSplitSections_TableContinuation(t *testing.T) {
	cfg := ChunkConfig{Size: 60, Overlap: 10, SentenceSearchLimit: 5}
	text := strings.Repeat("a", 40) + "<table>" + strings.Repeat("b", 200)

	sections := CollectSections(SplitSections(singlePage(text), cfg))
	if len(sections) < 2 {
		t.Fatalf("Expected multiple sections, got %d", len(sections))
	}
	if !strings.HasPrefix(sections[1].Text, "<table") {
		t.Errorf("Second section should start at the unclosed table, got %q", sections[1].Text[:12])
	}
}

func TestSplitSections_ClosedTableUsesPlainOverlap(t *testing.T) {
	cfg := ChunkConfig{Size: 60, Overlap: 10, SentenceSearchLimit: 5}
	text := strings.Repeat("a", 20) + "<table>x</table>" + strings.Repeat("b", 200)

	sections := CollectSections(SplitSections(singlePage(text), cfg))
	if len(sections) < 2 {
		t.Fatalf("Expected multiple sections, got %d", len(sections))
	}
	if strings.HasPrefix(sections[1].Text, "<table") {
		t.Error("Closed table should not trigger the continuation heuristic")
	}
}

func TestSplitSections_StopsWhenConsumerBreaks(t *testing.T) {
	text := strings.Repeat("Hello world. ", 100)
	count := 0
	for range SplitSections(singlePage(text), testConfig()) {
		count++
		if count == 1 {
			break
		}
	}
	if count != 1 {
		t.Errorf("Expected to stop after one section, consumed %d", count)
	}
}

func TestSplitSections_PageAttribution(t *testing.T) {
	pageOne := strings.Repeat("First page text. ", 10)
	pages := PageMap{
		{Number: 1, Offset: 0, Text: pageOne},
		{Number: 2, Offset: len(pageOne), Text: strings.Repeat("Second page text. ", 10)},
	}

	sections := CollectSections(SplitSections(pages, testConfig()))
	if len(sections) < 2 {
		t.Fatalf("Expected multiple sections, got %d", len(sections))
	}
	if sections[0].Page != 1 {
		t.Errorf("First section should sit on page 1, got %d", sections[0].Page)
	}
	if sections[len(sections)-1].Page != 2 {
		t.Errorf("Last section should sit on page 2, got %d", sections[len(sections)-1].Page)
	}
}

func TestFindPage(t *testing.T) {
	pages := PageMap{
		{Number: 1, Offset: 0, Text: "aaaa"},
		{Number: 2, Offset: 4, Text: "bbbb"},
		{Number: 3, Offset: 8, Text: "cccc"},
	}

	tests := []struct {
		offset   int
		expected int
	}{
		{0, 1},
		{3, 1},
		{4, 2},
		{7, 2},
		{8, 3},
		{100, 3}, // past the end resolves to the last page
	}
	for _, tt := range tests {
		if got := pages.FindPage(tt.offset); got != tt.expected {
			t.Errorf("FindPage(%d) = %d; want %d", tt.offset, got, tt.expected)
		}
	}

	if got := (PageMap{}).FindPage(5); got != 0 {
		t.Errorf("FindPage on empty map = %d; want 0", got)
	}
}
