// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package display renders the normalized result model for humans and for
// export formats. Everything here is a pure reader of ResultItem fields:
// absent fields are omitted, never rendered as empty strings.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/metasearch/pkg/types"
)

// AuthorDisplay renders one author as a display name: "Last, F" when the
// name is split, the preformatted display string otherwise, then the bare
// last name. Returns "" for an unknown author.
func AuthorDisplay(a types.Author) string {
	switch {
	case a.First != "" && a.Last != "":
		// The initial is the first rune, not the first byte.
		r, _ := utf8.DecodeRuneInString(a.First)
		return a.Last + ", " + string(r)
	case a.Display != "":
		return a.Display
	case a.Last != "":
		return a.Last
	default:
		return ""
	}
}

// AuthorsList renders up to the first three authors separated by
// semicolons, with "et al." when more exist.
func AuthorsList(authors []types.Author) string {
	var parts []string
	for _, a := range authors {
		if name := AuthorDisplay(a); name != "" {
			parts = append(parts, name)
		}
		if len(parts) == 3 {
			break
		}
	}
	out := strings.Join(parts, "; ")
	if len(authors) > 3 {
		out += " et al."
	}
	return out
}

// CompleteTitle joins title and subtitle.
func CompleteTitle(item types.ResultItem) string {
	if item.Subtitle == "" {
		return item.Title
	}
	if item.Title == "" {
		return item.Subtitle
	}
	return item.Title + ": " + item.Subtitle
}

// CitationDetails renders volume, issue, and page numbers, e.g.
// "Vol. 112, No. 4, pp. 824-841".
func CitationDetails(item types.ResultItem) string {
	var parts []string
	if item.Volume != "" {
		parts = append(parts, "Vol. "+item.Volume)
	}
	if item.Issue != "" {
		parts = append(parts, "No. "+item.Issue)
	}
	switch {
	case item.StartPage != "" && item.EndPage != "":
		parts = append(parts, "pp. "+item.StartPage+"-"+item.EndPage)
	case item.StartPage != "":
		parts = append(parts, "p. "+item.StartPage)
	}
	return strings.Join(parts, ", ")
}

// SourceInfo renders the containing publication (or, failing that, the
// publisher) followed by the citation details.
func SourceInfo(item types.ResultItem) string {
	var parts []string
	if item.SourceTitle != "" {
		parts = append(parts, item.SourceTitle)
	} else if item.Publisher != "" {
		parts = append(parts, item.Publisher)
	}
	if details := CitationDetails(item); details != "" {
		parts = append(parts, details)
	}
	return strings.Join(parts, ". ")
}

// FormatTable writes one engine's result set as a human-readable listing.
func FormatTable(rs types.ResultSet, w io.Writer) {
	fmt.Fprintf(w, "== %s ==\n", rs.EngineID)

	if rs.Failed {
		info := ""
		if rs.Error != nil {
			info = rs.Error.Info
		}
		fmt.Fprintf(w, "search failed: %s\n", info)
		return
	}
	if len(rs.Items) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	for i, item := range rs.Items {
		title := CompleteTitle(item)
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "%2d. %s\n", rs.Pagination.StartRecord+i, title)
		if authors := AuthorsList(item.Authors); authors != "" {
			fmt.Fprintf(w, "    %s\n", authors)
		}
		line := SourceInfo(item)
		if item.Year != "" {
			if line != "" {
				line += " (" + item.Year + ")"
			} else {
				line = item.Year
			}
		}
		if line != "" {
			fmt.Fprintf(w, "    %s\n", line)
		}
		if item.Format != "" || item.UniqueID != "" {
			fmt.Fprintf(w, "    [%s] %s\n", item.Format, item.UniqueID)
		}
	}

	if rs.TotalItems >= 0 {
		fmt.Fprintf(w, "%d of %d results (page %d)\n",
			len(rs.Items), rs.TotalItems, rs.Pagination.CurrentPage)
	} else {
		fmt.Fprintf(w, "%d results\n", len(rs.Items))
	}
}

// FormatJSON writes result sets as indented JSON to w.
func FormatJSON(results []types.ResultSet, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
