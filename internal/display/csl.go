// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package display

import (
	"io"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/metasearch/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style
// Language) format. Field names follow the CSL-JSON/CSL-YAML schema so
// output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	ISSN           string    `yaml:"ISSN,omitempty"`
	ISBN           string    `yaml:"ISBN,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// cslTypes maps the normalized format vocabulary to CSL item types.
var cslTypes = map[types.Format]string{
	types.FormatArticle:      "article-journal",
	types.FormatBook:         "book",
	types.FormatBookItem:     "chapter",
	types.FormatDissertation: "thesis",
}

// FormatCSL writes result items as a CSL-YAML list to w.
func FormatCSL(items []types.ResultItem, w io.Writer) error {
	out := make([]CSLItem, len(items))
	for i, item := range items {
		out[i] = toCSLItem(item)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(out)
}

// toCSLItem converts one ResultItem to a CSLItem.
func toCSLItem(item types.ResultItem) CSLItem {
	csl := CSLItem{
		ID:             item.UniqueID,
		Type:           cslTypes[item.Format],
		Title:          CompleteTitle(item),
		ContainerTitle: item.SourceTitle,
		Publisher:      item.Publisher,
		Volume:         item.Volume,
		Issue:          item.Issue,
		Abstract:       item.Abstract,
		DOI:            item.DOI,
		ISSN:           item.ISSN,
		ISBN:           item.ISBN,
		URL:            item.Link,
	}
	if csl.Type == "" {
		csl.Type = "article-journal"
	}

	switch {
	case item.StartPage != "" && item.EndPage != "":
		csl.Page = item.StartPage + "-" + item.EndPage
	case item.StartPage != "":
		csl.Page = item.StartPage
	}

	for _, a := range item.Authors {
		csl.Author = append(csl.Author, cslName(a))
	}

	if year, err := strconv.Atoi(item.Year); err == nil {
		csl.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}
	return csl
}

// cslName maps an Author onto CSL name parts; names the backend did not
// split go in the literal field.
func cslName(a types.Author) CSLName {
	if a.First != "" || a.Last != "" {
		return CSLName{Family: a.Last, Given: a.First}
	}
	return CSLName{Literal: a.Display}
}
