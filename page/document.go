// Package page models the gallery web page: a parsed HTML document, the
// resolution of its interactive elements, and rendering of search results
// into it.
package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

//go:embed default.html
var defaultHTML []byte

// DefaultHTML returns the markup of the built-in gallery page.
func DefaultHTML() []byte {
	return bytes.Clone(defaultHTML)
}

// Document is a parsed page. Access to the tree goes through Mutate so that
// concurrent handlers see a consistent tree.
type Document struct {
	mu  sync.Mutex
	doc *goquery.Document
}

// Load parses an HTML page.
func Load(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Document{doc: doc}, nil
}

// LoadFile parses the page at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page %q: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default parses the built-in gallery page.
func Default() *Document {
	d, err := Load(bytes.NewReader(defaultHTML))
	if err != nil {
		panic(fmt.Sprintf("embedded page: %v", err))
	}
	return d
}

// Mutate runs fn with exclusive access to the tree.
func (d *Document) Mutate(fn func(doc *goquery.Document)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.doc)
}

// Render writes the whole document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range d.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("render page: %w", err)
		}
	}
	return nil
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}
