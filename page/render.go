package page

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	gallery "github.com/jason-riddle/gallery-go"
	"github.com/jason-riddle/gallery-go/internal/metrics"
)

// Placeholder texts shown in the results container.
const (
	Searching   = "Searching…"
	SearchError = "Error during search (see console)"
	NoMatches   = "No matches found."
)

// CardClass is the class of every result card.
const CardClass = "result-card"

const (
	cardStyle    = "margin: 8px; width: 220px;"
	videoStyle   = "width: 100%; border-radius: 8px;"
	imageStyle   = "width: 100%; height: 160px; object-fit: cover; border-radius: 8px;"
	captionStyle = "font-size: 0.9rem; margin: 8px 0 0 0; text-align: center; word-break: break-word;"
	fallbackAttr = "data-fallback-src"
)

// RenderResults replaces the container's content with one card per record,
// in order. An empty set renders the "No matches found." placeholder.
func RenderResults(container *goquery.Selection, set gallery.ResultSet) {
	if len(set) == 0 {
		RenderPlaceholder(container, NoMatches)
		return
	}

	container.Empty()
	cards := make([]*html.Node, 0, len(set))
	for _, rec := range set {
		cards = append(cards, Card(rec))
	}
	container.AppendNodes(cards...)
	metrics.ResultsRenderedTotal.Add(int64(len(cards)))
}

// RenderPlaceholder replaces the container's content with a single paragraph.
func RenderPlaceholder(container *goquery.Selection, text string) {
	container.Empty()
	p := newElement("p")
	p.AppendChild(newText(text))
	container.AppendNodes(p)
}

// Card builds the visual unit for one record: media element plus caption.
func Card(rec gallery.ResultRecord) *html.Node {
	card := newElement("div", "class", CardClass, "style", cardStyle)

	var media *html.Node
	if rec.Kind == gallery.KindVideo {
		media = newElement("video", "src", rec.URL, "controls", "", "style", videoStyle)
	} else {
		media = newElement("img", "src", rec.URL, "alt", rec.Filename, "style", imageStyle)
	}
	if rec.FallbackURL != "" {
		media.Attr = append(media.Attr, html.Attribute{Key: fallbackAttr, Val: rec.FallbackURL})
	}
	card.AppendChild(media)

	caption := newElement("p", "style", captionStyle)
	caption.AppendChild(newText(rec.Caption()))
	card.AppendChild(caption)

	return card
}

// newElement creates an element node with attributes given as key/value pairs.
func newElement(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func newText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
