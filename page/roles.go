package page

// Role is a UI capability, independent of the markup that provides it.
type Role int

const (
	FileInput Role = iota
	UploadButton
	StatusLabel
	SearchInput
	SearchButton
	ResultsContainer
)

// Roles lists every role in resolution order. The upload button resolves
// before the status label, which may be synthesized next to it.
var Roles = []Role{FileInput, UploadButton, StatusLabel, SearchInput, SearchButton, ResultsContainer}

func (r Role) String() string {
	switch r {
	case FileInput:
		return "fileInput"
	case UploadButton:
		return "uploadButton"
	case StatusLabel:
		return "statusLabel"
	case SearchInput:
		return "searchInput"
	case SearchButton:
		return "searchButton"
	case ResultsContainer:
		return "resultsContainer"
	default:
		return "unknown"
	}
}

// Placement says where a synthesized element is attached.
type Placement int

const (
	// InBody appends the element to the document body.
	InBody Placement = iota
	// AfterUploadButton appends the element to the upload button's parent,
	// falling back to the body when there is no upload button.
	AfterUploadButton
)

// Synthesis describes the element created when a role cannot be resolved.
type Synthesis struct {
	Tag       string
	ID        string
	Placement Placement
}

// Descriptor declares how a role is found in markup.
type Descriptor struct {
	Role       Role
	IDs        []string   // Candidate ids, highest priority first
	Selector   string     // CSS fallback, tried after every id
	Synthesize *Synthesis // nil when the role may be absent
}

var descriptors = map[Role]Descriptor{
	FileInput: {
		Role:     FileInput,
		IDs:      []string{"fileInput", "fileUpload", "file", "fileUploadInput"},
		Selector: `input[type="file"]`,
	},
	UploadButton: {
		Role:     UploadButton,
		IDs:      []string{"uploadBtn", "uploadButton", "upload-btn", "uploadBtnMain"},
		Selector: `button[data-upload]`,
	},
	StatusLabel: {
		Role:       StatusLabel,
		IDs:        []string{"uploadStatus", "selectedCount"},
		Synthesize: &Synthesis{Tag: "span", ID: "uploadStatus", Placement: AfterUploadButton},
	},
	SearchInput: {
		Role:     SearchInput,
		IDs:      []string{"searchInput", "search-box", "searchInputBox"},
		Selector: `input[type="search"], input[placeholder*="Search"]`,
	},
	SearchButton: {
		Role:     SearchButton,
		IDs:      []string{"searchBtn", "searchButton", "search-btn", "search-btn-main"},
		Selector: `button[data-search]`,
	},
	ResultsContainer: {
		Role:       ResultsContainer,
		IDs:        []string{"results", "results-grid", "results-container"},
		Synthesize: &Synthesis{Tag: "div", ID: "results", Placement: InBody},
	},
}

// DescriptorFor returns the lookup descriptor of a role.
func DescriptorFor(r Role) Descriptor {
	return descriptors[r]
}
