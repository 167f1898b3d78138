package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"

	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

// LoadError wraps any failure to read or parse a document's content.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s failed: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader turns a stored file into an ordered page map. Parsing internals
// are a collaborator concern; the pipeline only needs page text and
// offsets back.
type Loader interface {
	Load(ctx context.Context, path string, format Format) (PageMap, error)
}

type fileLoader struct {
	pageTimeout time.Duration
	logger      *logger_i.Logger
}

func NewFileLoader() Loader {
	return &fileLoader{
		pageTimeout: 10 * time.Second,
		logger:      logger_i.NewLogger("ContentLoader"),
	}
}

func (l *fileLoader) Load(ctx context.Context, path string, format Format) (PageMap, error) {
	var pages PageMap
	var err error

	switch format {
	case FormatPDF:
		pages, err = l.loadPDF(path)
	case FormatText:
		pages, err = l.loadPlainText(path)
	case FormatMarkdown, FormatHTML:
		//markup is kept as-is so the chunker can see table boundaries
		pages, err = l.loadRaw(path)
	default:
		err = fmt.Errorf("no loader for format %q", format)
	}

	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(pages) == 0 {
		return nil, &LoadError{Path: path, Err: errors.New("no readable content")}
	}
	return pages, nil
}

func (l *fileLoader) loadPDF(path string) (PageMap, error) {
	reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages PageMap
	offset := 0
	numPages := reader.NumPage()
	l.logger.Debug("extracting pdf", "path", path, "pages", numPages)

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := l.protectExtract(page)
		if err != nil {
			// keep going with the remaining pages
			l.logger.Error("error parsing page content", "page", i, "error", err)
			continue
		}

		pages = append(pages, Page{Number: i, Offset: offset, Text: content})
		offset += len(content)
	}
	return pages, nil
}

func (l *fileLoader) loadPlainText(path string) (PageMap, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}
	return PageMap{{Number: 1, Offset: 0, Text: text}}, nil
}

func (l *fileLoader) loadRaw(path string) (PageMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return PageMap{{Number: 1, Offset: 0, Text: string(raw)}}, nil
}

// protectExtract guards against pdf pages whose text extraction hangs.
func (l *fileLoader) protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(l.pageTimeout):
		return "", errors.New("page extraction timeout")
	}
}
