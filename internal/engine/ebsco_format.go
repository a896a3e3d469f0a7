// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"strings"

	"github.com/pdiddy/metasearch/pkg/types"
)

// EBSCO records do not reliably state whether a citation is a book, a
// book chapter, a dissertation, or an article; databases like RILM ship
// records with book metadata on chapters and journal metadata on
// dissertations. Classification is therefore an ordered list of named
// rules over a pre-parsed facts struct: the first rule that matches wins,
// and each rule is unit-testable on its own. The list has grown one
// regression at a time and is expected to keep growing; treat the format
// tests as the authority on what each rule must preserve.

// ebscoFacts is the normalized pre-parse of one record, carrying only
// what the classifier reads.
type ebscoFacts struct {
	DocTypes            []string
	PubTypes            []string
	HasDissertationNote bool
	HasBookInfo         bool
	HasJournalTitle     bool
	HasSourceTitle      bool
	HasPublisher        bool
}

// typeMarkers joins the record's explicit document and publication type
// markers, lowercased, for substring matching.
func (f ebscoFacts) typeMarkers() string {
	all := make([]string, 0, len(f.DocTypes)+len(f.PubTypes))
	all = append(all, f.DocTypes...)
	all = append(all, f.PubTypes...)
	return strings.ToLower(strings.Join(all, "|"))
}

type ebscoFormatRule struct {
	name     string
	classify func(f ebscoFacts) (types.Format, bool)
}

// ebscoFormatRules is evaluated in order; explicit markers outrank
// structural inference.
var ebscoFormatRules = []ebscoFormatRule{
	{
		// Dissertation markers beat everything; RILM dissertations often
		// also carry a containing source title that would otherwise read
		// as a chapter.
		name: "explicit-dissertation",
		classify: func(f ebscoFacts) (types.Format, bool) {
			m := f.typeMarkers()
			if strings.Contains(m, "dissertation") || strings.Contains(m, "thesis") {
				return types.FormatDissertation, true
			}
			return "", false
		},
	},
	{
		name: "dissertation-note",
		classify: func(f ebscoFacts) (types.Format, bool) {
			if f.HasDissertationNote {
				return types.FormatDissertation, true
			}
			return "", false
		},
	},
	{
		// A review of a book is an article; must run before any rule that
		// matches the substring "book".
		name: "book-review",
		classify: func(f ebscoFacts) (types.Format, bool) {
			if strings.Contains(f.typeMarkers(), "book review") {
				return types.FormatArticle, true
			}
			return "", false
		},
	},
	{
		name: "explicit-chapter",
		classify: func(f ebscoFacts) (types.Format, bool) {
			m := f.typeMarkers()
			if strings.Contains(m, "chapter") || strings.Contains(m, "essay") {
				return types.FormatBookItem, true
			}
			return "", false
		},
	},
	{
		// Book metadata plus a containing publication means a part of a
		// book, not the book itself.
		name: "contained-in-book",
		classify: func(f ebscoFacts) (types.Format, bool) {
			if f.HasBookInfo && f.HasSourceTitle {
				return types.FormatBookItem, true
			}
			return "", false
		},
	},
	{
		name: "standalone-book",
		classify: func(f ebscoFacts) (types.Format, bool) {
			if f.HasBookInfo && !f.HasSourceTitle && !f.HasJournalTitle {
				return types.FormatBook, true
			}
			return "", false
		},
	},
	{
		name: "explicit-book",
		classify: func(f ebscoFacts) (types.Format, bool) {
			m := f.typeMarkers()
			if (strings.Contains(m, "book") || strings.Contains(m, "monograph")) && !f.HasSourceTitle {
				return types.FormatBook, true
			}
			return "", false
		},
	},
	{
		// No containing publication and no journal, but a publisher: a
		// standalone monograph with thin metadata.
		name: "publisher-only",
		classify: func(f ebscoFacts) (types.Format, bool) {
			if !f.HasSourceTitle && !f.HasJournalTitle && f.HasPublisher {
				return types.FormatBook, true
			}
			return "", false
		},
	},
}

// classifyEBSCOFormat runs the rule list and falls back to article, the
// most common case across EBSCO databases.
func classifyEBSCOFormat(f ebscoFacts) types.Format {
	for _, rule := range ebscoFormatRules {
		if format, ok := rule.classify(f); ok {
			return format
		}
	}
	return types.FormatArticle
}
