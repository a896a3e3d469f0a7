// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdiddy/metasearch/pkg/types"
)

// --- Author rendering ---

func TestAuthorDisplay(t *testing.T) {
	tests := []struct {
		name   string
		author types.Author
		want   string
	}{
		{"split name", types.Author{First: "John", Last: "Smith"}, "Smith, J"},
		{"display name", types.Author{Display: "Smith, John"}, "Smith, John"},
		{"last only", types.Author{Last: "Smith"}, "Smith"},
		{"split beats display", types.Author{First: "John", Last: "Smith", Display: "J. Smith"}, "Smith, J"},
		{"multibyte initial", types.Author{First: "Émile", Last: "Zola"}, "Zola, É"},
		{"multibyte initial nordic", types.Author{First: "Øyvind", Last: "Berg"}, "Berg, Ø"},
		{"empty", types.Author{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuthorDisplay(tt.author); got != tt.want {
				t.Errorf("AuthorDisplay(%+v) = %q, want %q", tt.author, got, tt.want)
			}
		})
	}
}

func TestAuthorsList(t *testing.T) {
	four := []types.Author{
		{Display: "One, A"}, {Display: "Two, B"}, {Display: "Three, C"}, {Display: "Four, D"},
	}
	if got, want := AuthorsList(four), "One, A; Two, B; Three, C et al."; got != want {
		t.Errorf("AuthorsList = %q, want %q", got, want)
	}
	if got, want := AuthorsList(four[:2]), "One, A; Two, B"; got != want {
		t.Errorf("AuthorsList = %q, want %q", got, want)
	}
	if got := AuthorsList(nil); got != "" {
		t.Errorf("AuthorsList(nil) = %q", got)
	}
}

// --- Citation rendering ---

func TestCitationDetails(t *testing.T) {
	tests := []struct {
		name string
		item types.ResultItem
		want string
	}{
		{"full", types.ResultItem{Volume: "112", Issue: "4", StartPage: "824", EndPage: "841"},
			"Vol. 112, No. 4, pp. 824-841"},
		{"start page only", types.ResultItem{Volume: "7", StartPage: "12"},
			"Vol. 7, p. 12"},
		{"nothing", types.ResultItem{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CitationDetails(tt.item); got != tt.want {
				t.Errorf("CitationDetails() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompleteTitle(t *testing.T) {
	item := types.ResultItem{Title: "Understanding cancer", Subtitle: "a patient guide"}
	if got, want := CompleteTitle(item), "Understanding cancer: a patient guide"; got != want {
		t.Errorf("CompleteTitle = %q, want %q", got, want)
	}
	if got := CompleteTitle(types.ResultItem{Title: "Plain"}); got != "Plain" {
		t.Errorf("CompleteTitle = %q", got)
	}
}

func TestSourceInfo(t *testing.T) {
	item := types.ResultItem{SourceTitle: "Journal of Testing", Volume: "3", Publisher: "Ignored Press"}
	if got, want := SourceInfo(item), "Journal of Testing. Vol. 3"; got != want {
		t.Errorf("SourceInfo = %q, want %q", got, want)
	}
	// Publisher stands in when there is no containing title.
	book := types.ResultItem{Publisher: "Test Press"}
	if got := SourceInfo(book); got != "Test Press" {
		t.Errorf("SourceInfo = %q", got)
	}
}

// --- Table output ---

func TestFormatTable(t *testing.T) {
	rs := types.ResultSet{
		EngineID:   "ebsco",
		TotalItems: 247,
		Pagination: types.Pagination{StartRecord: 11, CurrentPage: 2, PerPage: 10},
		Items: []types.ResultItem{
			{
				UniqueID:    "a9h:12345678",
				Title:       "A Sample Article",
				Authors:     []types.Author{{Display: "Smith, John"}},
				SourceTitle: "Journal of Testing",
				Year:        "2010",
				Format:      types.FormatArticle,
			},
		},
	}

	var buf bytes.Buffer
	FormatTable(rs, &buf)
	out := buf.String()

	for _, want := range []string{
		"== ebsco ==",
		"11. A Sample Article",
		"Smith, John",
		"Journal of Testing (2010)",
		"[article] a9h:12345678",
		"1 of 247 results (page 2)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTableFailed(t *testing.T) {
	rs := types.FailedResultSet("worldcat", "wskey rejected", 0)

	var buf bytes.Buffer
	FormatTable(rs, &buf)
	if !strings.Contains(buf.String(), "search failed: wskey rejected") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestFormatTableEmpty(t *testing.T) {
	rs := types.ResultSet{EngineID: "worldcat", Pagination: types.Pagination{StartRecord: 1, CurrentPage: 1, PerPage: 10}}

	var buf bytes.Buffer
	FormatTable(rs, &buf)
	if !strings.Contains(buf.String(), "No results found.") {
		t.Errorf("output = %q", buf.String())
	}
}

// --- OpenURL ---

func TestOpenURLArticle(t *testing.T) {
	item := types.ResultItem{
		Title:       "A Sample Article",
		SourceTitle: "Journal of Testing",
		Authors:     []types.Author{{First: "John", Last: "Smith"}},
		Year:        "2010",
		Volume:      "12",
		Issue:       "3",
		StartPage:   "100",
		EndPage:     "104",
		ISSN:        "10959203",
		DOI:         "10.1000/jtest.2010.001",
		Format:      types.FormatArticle,
	}

	got := OpenURL(item)
	for _, want := range []string{
		"url_ver=Z39.88-2004",
		"rft_val_fmt=info%3Aofi%2Ffmt%3Akev%3Amtx%3Ajournal",
		"rft.genre=article",
		"rft.atitle=A+Sample+Article",
		"rft.jtitle=Journal+of+Testing",
		"rft.aulast=Smith",
		"rft.aufirst=John",
		"rft.date=2010",
		"rft.spage=100",
		"rft.epage=104",
		"rft.issn=10959203",
		"rft_id=info%3Adoi%2F10.1000%2Fjtest.2010.001",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("OpenURL missing %q in %q", want, got)
		}
	}
}

func TestOpenURLBook(t *testing.T) {
	item := types.ResultItem{
		Title:   "Understanding cancer",
		Authors: []types.Author{{Display: "Johnson, Mary."}},
		OCLCNum: "890123456",
		ISBN:    "9780123456789",
		Format:  types.FormatBook,
	}

	got := OpenURL(item)
	for _, want := range []string{
		"rft_val_fmt=info%3Aofi%2Ffmt%3Akev%3Amtx%3Abook",
		"rft.genre=book",
		"rft.btitle=Understanding+cancer",
		"rft.au=Johnson%2C+Mary.",
		"rft.isbn=9780123456789",
		"rft_id=info%3Aoclcnum%2F890123456",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("OpenURL missing %q in %q", want, got)
		}
	}
}
