package ingest

import "strings"

// Page holds one source page's text together with its cumulative character
// offset inside the concatenated document text.
type Page struct {
	Number int
	Offset int
	Text   string
}

// PageMap is the ordered page sequence a Loader produces for one pipeline
// run. It only exists to resolve a chunk's start offset back to its page.
type PageMap []Page

// FullText concatenates the page texts in page order.
func (pm PageMap) FullText() string {
	var b strings.Builder
	for _, p := range pm {
		b.WriteString(p.Text)
	}
	return b.String()
}

// FindPage returns the number of the page whose cumulative offset range
// contains the given offset. Offsets past the last page resolve to the
// last page.
func (pm PageMap) FindPage(offset int) int {
	if len(pm) == 0 {
		return 0
	}
	for i := 0; i < len(pm)-1; i++ {
		if pm[i].Offset <= offset && offset < pm[i+1].Offset {
			return pm[i].Number
		}
	}
	return pm[len(pm)-1].Number
}
