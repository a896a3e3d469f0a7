// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Sort is the normalized sort vocabulary. Each engine translates these
// into its own sort parameter; relevance is the default everywhere.
type Sort string

const (
	SortRelevance Sort = "relevance"
	SortDateDesc  Sort = "date_desc"
)

// Portable field names accepted in Query.Fields and Query.SemanticField.
// Engines map these to their own field codes and reject names they have
// no mapping for.
const (
	FieldTitle             = "title"
	FieldAuthor            = "author"
	FieldSubject           = "subject"
	FieldISSN              = "issn"
	FieldISBN              = "isbn"
	FieldOCLCNum           = "oclcnum"
	FieldVolume            = "volume"
	FieldIssue             = "issue"
	FieldStartPage         = "start_page"
	FieldAuthorAffiliation = "author_affiliation"
)

// Query is one normalized search request. Exactly one of Keywords or
// Fields should be supplied; engines treat a non-empty Fields map as a
// structured multi-field query and ignore Keywords in that case.
type Query struct {
	// Keywords is free-text input. Double-quoted phrases survive each
	// engine's tokenization intact.
	Keywords string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Fields is a structured multi-field query: portable field name (or a
	// raw backend field code the engine recognizes) to value. Each entry
	// becomes its own ANDed clause.
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`

	// SearchField scopes Keywords to a raw backend field code
	// (e.g. "SU" for EBSCO, "srw.ti" for WorldCat). Used as-is.
	SearchField string `json:"search_field,omitempty" yaml:"search_field,omitempty"`

	// SemanticField scopes Keywords to a portable field name, translated
	// per engine. Ignored when SearchField is set.
	SemanticField string `json:"semantic_field,omitempty" yaml:"semantic_field,omitempty"`

	// Start is the 0-based record offset; engines convert to their own
	// 1-based parameter.
	Start int `json:"start" yaml:"start"`

	// PerPage is the page size (default 10 when <= 0).
	PerPage int `json:"per_page" yaml:"per_page"`

	Sort Sort `json:"sort,omitempty" yaml:"sort,omitempty"`

	// PeerReviewedOnly limits to peer-reviewed publications on engines
	// that support it (EBSCO).
	PeerReviewedOnly bool `json:"peer_reviewed_only,omitempty" yaml:"peer_reviewed_only,omitempty"`

	// PubYearStart / PubYearEnd bound the publication year. Either end may
	// be empty.
	PubYearStart string `json:"pubyear_start,omitempty" yaml:"pubyear_start,omitempty"`
	PubYearEnd   string `json:"pubyear_end,omitempty" yaml:"pubyear_end,omitempty"`

	// Auth overrides the engine's authenticated-access default for this
	// call (WorldCat servicelevel). Nil means "use the engine default".
	Auth *bool `json:"auth,omitempty" yaml:"auth,omitempty"`

	// Databases overrides the engine's configured database list for this
	// call (EBSCO).
	Databases []string `json:"databases,omitempty" yaml:"databases,omitempty"`
}

// DefaultPerPage is the page size used when Query.PerPage is unset.
const DefaultPerPage = 10

// EffectivePerPage returns PerPage, defaulted.
func (q Query) EffectivePerPage() int {
	if q.PerPage <= 0 {
		return DefaultPerPage
	}
	return q.PerPage
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return q.Keywords == "" && len(q.Fields) == 0
}
