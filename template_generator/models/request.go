package models

// Target scopes for modules and templates.
const (
	TypeAdmin   = "Admin"
	TypeCatalog = "Catalog"
	TypeBoth    = "Both"
)

// Request holds the answers collected for one generator run.
type Request struct {
	Name        string
	Type        string
	Description string

	// manifest only
	Code     string
	Version  string
	Author   string
	Link     string
	FilePath string

	// document generators only
	Target string

	// snippet generator only
	Category string
	Snippet  string
	Line     int
}

// IncludesAdmin reports whether admin-side files are generated.
func (r *Request) IncludesAdmin() bool {
	return r.Type == TypeAdmin || r.Type == TypeBoth
}

// IncludesCatalog reports whether storefront files are generated.
func (r *Request) IncludesCatalog() bool {
	return r.Type == TypeCatalog || r.Type == TypeBoth
}
