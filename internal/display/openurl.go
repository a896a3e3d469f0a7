// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package display

import (
	"net/url"

	"github.com/pdiddy/metasearch/pkg/types"
)

// OpenURL builds a KEV (key-encoded-value) OpenURL context object query
// string for an item, suitable for appending to a link resolver base
// URL. Only fields present on the item appear in the string.
func OpenURL(item types.ResultItem) string {
	v := url.Values{}
	v.Set("url_ver", "Z39.88-2004")
	v.Set("ctx_ver", "Z39.88-2004")

	switch item.Format {
	case types.FormatBook:
		v.Set("rft_val_fmt", "info:ofi/fmt:kev:mtx:book")
		v.Set("rft.genre", "book")
		setIfPresent(v, "rft.btitle", CompleteTitle(item))
	case types.FormatBookItem:
		v.Set("rft_val_fmt", "info:ofi/fmt:kev:mtx:book")
		v.Set("rft.genre", "bookitem")
		setIfPresent(v, "rft.atitle", CompleteTitle(item))
		setIfPresent(v, "rft.btitle", item.SourceTitle)
	case types.FormatDissertation:
		v.Set("rft_val_fmt", "info:ofi/fmt:kev:mtx:dissertation")
		v.Set("rft.genre", "dissertation")
		setIfPresent(v, "rft.title", CompleteTitle(item))
	default:
		v.Set("rft_val_fmt", "info:ofi/fmt:kev:mtx:journal")
		v.Set("rft.genre", "article")
		setIfPresent(v, "rft.atitle", CompleteTitle(item))
		setIfPresent(v, "rft.jtitle", item.SourceTitle)
	}

	if len(item.Authors) > 0 {
		a := item.Authors[0]
		setIfPresent(v, "rft.aulast", a.Last)
		setIfPresent(v, "rft.aufirst", a.First)
		if a.Last == "" {
			setIfPresent(v, "rft.au", a.Display)
		}
	}

	setIfPresent(v, "rft.date", item.Year)
	setIfPresent(v, "rft.volume", item.Volume)
	setIfPresent(v, "rft.issue", item.Issue)
	setIfPresent(v, "rft.spage", item.StartPage)
	setIfPresent(v, "rft.epage", item.EndPage)
	setIfPresent(v, "rft.issn", item.ISSN)
	setIfPresent(v, "rft.isbn", item.ISBN)
	setIfPresent(v, "rft.pub", item.Publisher)

	if item.DOI != "" {
		v.Set("rft_id", "info:doi/"+item.DOI)
	} else if item.OCLCNum != "" {
		v.Set("rft_id", "info:oclcnum/"+item.OCLCNum)
	}

	return v.Encode()
}

func setIfPresent(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
