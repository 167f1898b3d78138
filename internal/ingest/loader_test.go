package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileLoader_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	content := "plain text content for loading"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	pages, err := NewFileLoader().Load(context.Background(), path, FormatText)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(pages) != 1 || pages[0].Text != content {
		t.Errorf("Unexpected page map: %+v", pages)
	}
}

func TestFileLoader_MarkupKeptRaw(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.html")
	content := "<html><body><table><tr><td>cell</td></tr></table></body></html>"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	pages, err := NewFileLoader().Load(context.Background(), path, FormatHTML)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	// tags must survive so the chunker can track table boundaries
	if pages[0].Text != content {
		t.Errorf("Markup was altered: %q", pages[0].Text)
	}
}

func TestFileLoader_MissingFile(t *testing.T) {
	_, err := NewFileLoader().Load(context.Background(), "/nonexistent/doc.txt", FormatText)
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Errorf("Expected *LoadError, got %T", err)
	}
}
