// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the normalized data model shared by every search
// engine adapter: queries going in, result items and result sets coming
// out, and the per-engine configuration structs.
package types

import "time"

// Format classifies a citation. Backends rarely state this directly;
// engine adapters derive it from metadata heuristics.
type Format string

const (
	FormatArticle      Format = "article"
	FormatBook         Format = "book"
	FormatBookItem     Format = "book_item"
	FormatDissertation Format = "dissertation"
	FormatOther        Format = "other"
)

// Author is one name in a citation's author list. Any subset of the
// fields may be present; an empty Author means "unknown author name".
type Author struct {
	// First is the given name, when the backend splits names.
	First string `json:"first,omitempty" yaml:"first,omitempty"`

	// Last is the family name, when the backend splits names.
	Last string `json:"last,omitempty" yaml:"last,omitempty"`

	// Display is a preformatted name for backends that do not split.
	Display string `json:"display,omitempty" yaml:"display,omitempty"`
}

// Link is a URL attached to a result item beyond its main link.
type Link struct {
	URL          string   `json:"url" yaml:"url"`
	Label        string   `json:"label,omitempty" yaml:"label,omitempty"`
	Rel          string   `json:"rel,omitempty" yaml:"rel,omitempty"`
	StyleClasses []string `json:"style_classes,omitempty" yaml:"style_classes,omitempty"`
}

// ResultItem is one normalized citation. Absent fields mean "unknown" and
// downstream renderers omit them; engines never set empty-string
// placeholders.
type ResultItem struct {
	// UniqueID is the backend-specific identifier, round-trippable into
	// Engine.Get. For EBSCO it is "<database>:<accession_number>" and is
	// guaranteed to contain at least the one separator colon.
	UniqueID string `json:"unique_id" yaml:"unique_id"`

	// EngineID names the engine that produced this item.
	EngineID string `json:"engine_id,omitempty" yaml:"engine_id,omitempty"`

	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle string   `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Authors  []Author `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year as the backend reports it (e.g. "1996").
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	Format Format `json:"format,omitempty" yaml:"format,omitempty"`

	// SourceTitle is the containing publication: journal title for an
	// article, book title for a book chapter. Empty for standalone works.
	SourceTitle string `json:"source_title,omitempty" yaml:"source_title,omitempty"`

	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Volume    string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue     string `json:"issue,omitempty" yaml:"issue,omitempty"`
	StartPage string `json:"start_page,omitempty" yaml:"start_page,omitempty"`
	EndPage   string `json:"end_page,omitempty" yaml:"end_page,omitempty"`

	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ISSN    string `json:"issn,omitempty" yaml:"issn,omitempty"`
	ISBN    string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	OCLCNum string `json:"oclcnum,omitempty" yaml:"oclcnum,omitempty"`

	// LanguageCode is a two-letter language code when derivable.
	LanguageCode string `json:"language_code,omitempty" yaml:"language_code,omitempty"`

	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Link is the main URL for the item (catalog page, fulltext, TOC entry).
	Link       string `json:"link,omitempty" yaml:"link,omitempty"`
	OtherLinks []Link `json:"other_links,omitempty" yaml:"other_links,omitempty"`

	// LinkIsFulltext reports whether Link resolves to fulltext rather than
	// a citation page.
	LinkIsFulltext bool `json:"link_is_fulltext,omitempty" yaml:"link_is_fulltext,omitempty"`

	// PublicationDate is set when the backend provides a full date
	// (JournalTOCs feeds); items from date-sorted feeds keep this ordering.
	PublicationDate time.Time `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`

	// CustomData carries backend-specific extras that have no normalized
	// field, e.g. EBSCO fulltext format codes.
	CustomData map[string]any `json:"custom_data,omitempty" yaml:"custom_data,omitempty"`
}
