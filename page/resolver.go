package page

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/jason-riddle/gallery-go/internal/metrics"
)

var missingHints = map[Role]string{
	FileInput:    `no file input found, add <input type="file" id="fileInput" multiple>`,
	UploadButton: `no upload button found, add a button with id="uploadBtn"`,
	SearchInput:  `no search input found, add <input id="searchInput">`,
	SearchButton: `no search button found, add a button with id="searchBtn"`,
}

// Elements holds the resolved element of every role. A nil selection means
// the capability is absent.
type Elements struct {
	byRole map[Role]*goquery.Selection
}

// Get returns the element for r, or nil.
func (e *Elements) Get(r Role) *goquery.Selection {
	return e.byRole[r]
}

// Has reports whether r resolved.
func (e *Elements) Has(r Role) bool {
	return e.byRole[r] != nil
}

// Presence returns the boolean presence map keyed by role name.
func (e *Elements) Presence() map[string]bool {
	presence := make(map[string]bool, len(Roles))
	for _, r := range Roles {
		presence[r.String()] = e.Has(r)
	}
	return presence
}

// Lookup finds the element for a descriptor without modifying the document:
// candidate ids in order, then the selector fallback. It returns nil when
// nothing matches.
func Lookup(doc *goquery.Document, d Descriptor) *goquery.Selection {
	for _, id := range d.IDs {
		if sel := doc.Find(`[id="` + id + `"]`).First(); sel.Length() > 0 {
			return sel
		}
	}
	if d.Selector != "" {
		if sel := doc.Find(d.Selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// Resolve locates every role in d once. The status label and results
// container are synthesized when missing, so they are never nil. The file
// input, if any, is made to accept multiple files.
func Resolve(d *Document) *Elements {
	els := &Elements{byRole: make(map[Role]*goquery.Selection, len(Roles))}

	d.Mutate(func(doc *goquery.Document) {
		for _, role := range Roles {
			desc := descriptors[role]
			sel := Lookup(doc, desc)
			if sel == nil && desc.Synthesize != nil {
				sel = synthesize(doc, desc.Synthesize, els.byRole[UploadButton])
				slog.Debug("synthesized missing element", "role", role.String(), "id", desc.Synthesize.ID)
			}
			if sel != nil {
				els.byRole[role] = sel
			}
		}

		if input := els.byRole[FileInput]; input != nil {
			if _, ok := input.Attr("multiple"); !ok {
				input.SetAttr("multiple", "")
			}
		}
	})

	presence := els.Presence()
	slog.Info("page elements resolved",
		"fileInput", presence["fileInput"],
		"uploadButton", presence["uploadButton"],
		"statusLabel", presence["statusLabel"],
		"searchInput", presence["searchInput"],
		"searchButton", presence["searchButton"],
		"resultsContainer", presence["resultsContainer"],
	)
	for _, role := range Roles {
		if hint, ok := missingHints[role]; ok && !els.Has(role) {
			slog.Warn(hint, "role", role.String())
		}
	}
	metrics.RecordPresence(presence)

	return els
}

func synthesize(doc *goquery.Document, s *Synthesis, uploadButton *goquery.Selection) *goquery.Selection {
	n := newElement(s.Tag, "id", s.ID)

	parent := doc.Find("body").First()
	if s.Placement == AfterUploadButton && uploadButton != nil {
		if p := uploadButton.Parent(); p.Length() > 0 {
			parent = p
		}
	}
	parent.AppendNodes(n)

	return doc.FindNodes(n)
}
