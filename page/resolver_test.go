package page

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustLoad(t *testing.T, markup string) *Document {
	t.Helper()
	d, err := Load(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return d
}

func TestResolve_DefaultPage(t *testing.T) {
	d := Default()
	els := Resolve(d)

	for _, role := range Roles {
		if !els.Has(role) {
			t.Errorf("role %s did not resolve on the default page", role)
		}
	}
	if id, _ := els.Get(ResultsContainer).Attr("id"); id != "results" {
		t.Errorf("results id = %q, want results", id)
	}
}

func TestResolve_CandidatePriority(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		role   Role
		wantID string
	}{
		{
			name:   "first candidate wins over later",
			markup: `<input id="fileUpload" type="file"><input id="fileInput" type="file">`,
			role:   FileInput,
			wantID: "fileInput",
		},
		{
			name:   "later candidate",
			markup: `<button id="upload-btn">Up</button>`,
			role:   UploadButton,
			wantID: "upload-btn",
		},
		{
			name:   "id beats selector",
			markup: `<input type="file" id="other"><input id="fileUploadInput">`,
			role:   FileInput,
			wantID: "fileUploadInput",
		},
		{
			name:   "selector fallback",
			markup: `<input type="file" id="custom-picker">`,
			role:   FileInput,
			wantID: "custom-picker",
		},
		{
			name:   "data attribute fallback",
			markup: `<button id="go" data-search>Go</button>`,
			role:   SearchButton,
			wantID: "go",
		},
		{
			name:   "search type fallback",
			markup: `<input type="search" id="q">`,
			role:   SearchInput,
			wantID: "q",
		},
		{
			name:   "placeholder fallback",
			markup: `<input type="text" id="q2" placeholder="Search photos">`,
			role:   SearchInput,
			wantID: "q2",
		},
		{
			name:   "status alternative id",
			markup: `<span id="selectedCount"></span>`,
			role:   StatusLabel,
			wantID: "selectedCount",
		},
		{
			name:   "results alternative id",
			markup: `<div id="results-grid"></div>`,
			role:   ResultsContainer,
			wantID: "results-grid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			els := Resolve(mustLoad(t, tt.markup))
			sel := els.Get(tt.role)
			if sel == nil {
				t.Fatalf("role %s did not resolve", tt.role)
			}
			if id, _ := sel.Attr("id"); id != tt.wantID {
				t.Errorf("resolved id = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestResolve_MissingRolesAreNil(t *testing.T) {
	els := Resolve(mustLoad(t, `<p>nothing here</p>`))

	for _, role := range []Role{FileInput, UploadButton, SearchInput, SearchButton} {
		if els.Get(role) != nil {
			t.Errorf("role %s resolved on an empty page", role)
		}
	}

	presence := els.Presence()
	if presence["fileInput"] || presence["searchButton"] {
		t.Errorf("presence = %v, want absent inputs", presence)
	}
	if !presence["statusLabel"] || !presence["resultsContainer"] {
		t.Errorf("presence = %v, want synthesized status and results", presence)
	}
}

func TestResolve_SynthesizesStatusNextToUploadButton(t *testing.T) {
	d := mustLoad(t, `<div id="bar"><button id="uploadBtn">Up</button></div>`)
	els := Resolve(d)

	status := els.Get(StatusLabel)
	if status == nil {
		t.Fatal("status label not synthesized")
	}
	if id, _ := status.Attr("id"); id != "uploadStatus" {
		t.Errorf("status id = %q, want uploadStatus", id)
	}
	if goquery.NodeName(status) != "span" {
		t.Errorf("status tag = %q, want span", goquery.NodeName(status))
	}
	if parentID, _ := status.Parent().Attr("id"); parentID != "bar" {
		t.Errorf("status parent = %q, want bar", parentID)
	}
	if prev, _ := status.Prev().Attr("id"); prev != "uploadBtn" {
		t.Errorf("status follows %q, want uploadBtn", prev)
	}
}

func TestResolve_SynthesizesResultsInBody(t *testing.T) {
	d := mustLoad(t, `<html><body><main></main></body></html>`)
	els := Resolve(d)

	results := els.Get(ResultsContainer)
	if results == nil {
		t.Fatal("results container not synthesized")
	}
	if goquery.NodeName(results.Parent()) != "body" {
		t.Errorf("results parent = %q, want body", goquery.NodeName(results.Parent()))
	}
	if !strings.Contains(d.String(), `<div id="results"></div>`) {
		t.Errorf("rendered page lacks synthesized container: %s", d.String())
	}
}

func TestResolve_FileInputMultiple(t *testing.T) {
	t.Run("adds attribute", func(t *testing.T) {
		els := Resolve(mustLoad(t, `<input type="file" id="fileInput">`))
		if _, ok := els.Get(FileInput).Attr("multiple"); !ok {
			t.Error("multiple attribute not set")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		d := mustLoad(t, `<input type="file" id="fileInput" multiple="multiple">`)
		els := Resolve(d)
		if v, _ := els.Get(FileInput).Attr("multiple"); v != "multiple" {
			t.Errorf("multiple = %q, want existing value kept", v)
		}
	})
}

func TestLookup_DoesNotModify(t *testing.T) {
	d := mustLoad(t, `<p>empty</p>`)
	before := d.String()

	d.Mutate(func(doc *goquery.Document) {
		if sel := Lookup(doc, DescriptorFor(ResultsContainer)); sel != nil {
			t.Error("Lookup found a results container on an empty page")
		}
	})

	if d.String() != before {
		t.Error("Lookup modified the document")
	}
}
