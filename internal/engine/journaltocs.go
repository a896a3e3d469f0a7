// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/metasearch/internal/httputil"
	"github.com/pdiddy/metasearch/pkg/types"
)

// journalTOCsDefaultBase is the production JournalTOCs API endpoint.
const journalTOCsDefaultBase = "https://www.journaltocs.ac.uk/api/journals/"

// journalTOCsInvalidAccount is the phrase the backend embeds in the
// response body when the registered email is not a known account. The
// request still comes back 200, so this is the only signal.
const journalTOCsInvalidAccount = "account is invalid"

// JournalTOCsEngine fetches a journal's latest table of contents as an
// RSS feed keyed by ISSN. It is a feed reader rather than a query
// translator: Search treats the query keywords as an ISSN, and there is
// no single-record lookup.
type JournalTOCsEngine struct {
	id      string
	cfg     types.JournalTOCsConfig
	http    types.HTTPConfig
	client  *http.Client
	baseURL string
}

// NewJournalTOCs validates the configuration and returns a ready engine.
func NewJournalTOCs(id string, cfg types.JournalTOCsConfig, httpCfg types.HTTPConfig, client *http.Client) (*JournalTOCsEngine, error) {
	if cfg.RegisteredEmail == "" {
		return nil, &ConfigurationError{Msg: "journal_tocs: registered_email is required"}
	}
	base := cfg.BaseURL
	if base == "" {
		base = journalTOCsDefaultBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &JournalTOCsEngine{id: id, cfg: cfg, http: httpCfg, client: client, baseURL: base}, nil
}

// ID returns the engine identifier.
func (e *JournalTOCsEngine) ID() string { return e.id }

// Search treats the query keywords as an ISSN and returns the journal's
// current articles. Fetch failures surface as a failed ResultSet per the
// Search contract.
func (e *JournalTOCsEngine) Search(ctx context.Context, q types.Query) types.ResultSet {
	rs, err := e.FetchByISSN(ctx, strings.TrimSpace(q.Keywords))
	if err != nil {
		return failedResultSet(e.id, err)
	}
	return rs
}

// Get is not supported: the feed has no identifier lookup.
func (e *JournalTOCsEngine) Get(_ context.Context, _ string) (types.ResultItem, error) {
	return types.ResultItem{}, &FetchError{EngineID: e.id, Err: ErrLookupNotSupported}
}

// FetchByISSN fetches and normalizes the journal's RSS feed. Items come
// back sorted by publication date, newest first. An ISSN with no entries
// is an empty, successful ResultSet; transport failures, a bad base URL,
// and an invalid registered email all return a FetchError.
func (e *JournalTOCsEngine) FetchByISSN(ctx context.Context, issn string) (types.ResultSet, error) {
	feed, err := e.FetchFeed(ctx, issn)
	if err != nil {
		return types.ResultSet{}, err
	}

	rs := types.ResultSet{
		TotalItems: len(feed.Items),
		Pagination: types.Pagination{StartRecord: 1, CurrentPage: 1, PerPage: len(feed.Items)},
		EngineID:   e.id,
	}
	for _, it := range feed.Items {
		rs.Items = append(rs.Items, e.normalizeItem(it))
	}

	sort.SliceStable(rs.Items, func(i, j int) bool {
		return rs.Items[i].PublicationDate.After(rs.Items[j].PublicationDate)
	})
	return rs, nil
}

// FetchFeed fetches and parses the raw RSS feed for an ISSN.
func (e *JournalTOCsEngine) FetchFeed(ctx context.Context, issn string) (*journalTOCsFeed, error) {
	if issn == "" {
		return nil, &FetchError{EngineID: e.id, Message: "an ISSN is required"}
	}

	reqURL := e.baseURL + url.PathEscape(issn) + "?output=articles&user=" + url.QueryEscape(e.cfg.RegisteredEmail)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{EngineID: e.id, Message: "creating request", Err: err}
	}
	if e.http.UserAgent != "" {
		req.Header.Set("User-Agent", e.http.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, e.client, req, 0)
	if err != nil {
		return nil, &FetchError{EngineID: e.id, Message: "JournalTOCs request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{EngineID: e.id, Message: "reading JournalTOCs response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			EngineID:   e.id,
			Message:    fmt.Sprintf("JournalTOCs returned HTTP %d", resp.StatusCode),
			HTTPStatus: resp.StatusCode,
		}
	}

	// The backend answers 200 with an explanatory body when the
	// registered email is unknown.
	if idx := strings.Index(strings.ToLower(string(body)), journalTOCsInvalidAccount); idx >= 0 {
		return nil, &FetchError{
			EngineID: e.id,
			Message:  fmt.Sprintf("JournalTOCs registered email %q: account is invalid", e.cfg.RegisteredEmail),
		}
	}

	var feed journalTOCsFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, &FetchError{EngineID: e.id, Message: "parsing JournalTOCs feed", Err: err}
	}
	return &feed, nil
}

// normalizeItem maps one RSS item into the shared result model.
func (e *JournalTOCsEngine) normalizeItem(it journalTOCsItem) types.ResultItem {
	item := types.ResultItem{
		EngineID:    e.id,
		Title:       strings.TrimSpace(it.Title),
		Abstract:    strings.TrimSpace(it.Description),
		Link:        strings.TrimSpace(it.Link),
		SourceTitle: strings.TrimSpace(it.PublicationName),
		Publisher:   strings.TrimSpace(it.Publisher),
		Volume:      strings.TrimSpace(it.Volume),
		Issue:       strings.TrimSpace(it.Number),
		StartPage:   strings.TrimSpace(it.StartingPage),
		EndPage:     strings.TrimSpace(it.EndingPage),
		ISSN:        strings.TrimSpace(it.ISSN),
		Format:      types.FormatArticle,
	}

	if item.SourceTitle == "" {
		item.SourceTitle = strings.TrimSpace(it.Source)
	}

	for _, creator := range it.Creators {
		// Feeds pack several names into one creator element separated by
		// semicolons.
		for _, name := range strings.Split(creator, ";") {
			if name = strings.TrimSpace(name); name != "" {
				item.Authors = append(item.Authors, types.Author{Display: name})
			}
		}
	}

	item.DOI = strings.TrimSpace(it.DOI)
	if item.DOI == "" {
		for _, id := range it.Identifiers {
			id = strings.TrimSpace(id)
			if rest, ok := strings.CutPrefix(strings.ToLower(id), "doi:"); ok {
				item.DOI = strings.TrimSpace(rest)
				break
			}
		}
	}

	if t, ok := parseFeedDate(it.CoverDate); ok {
		item.PublicationDate = t
	} else if t, ok := parseFeedDate(it.Date); ok {
		item.PublicationDate = t
	}
	if !item.PublicationDate.IsZero() {
		item.Year = fmt.Sprintf("%d", item.PublicationDate.Year())
	}

	if item.UniqueID = item.DOI; item.UniqueID == "" {
		item.UniqueID = item.Link
	}
	return item
}

// feedDateLayouts lists the date formats observed across JournalTOCs
// feeds.
var feedDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2 Jan 2006",
}

func parseFeedDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range feedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// JournalTOCs RSS (RDF) XML structures.
type journalTOCsFeed struct {
	Items []journalTOCsItem `xml:"item"`
}

type journalTOCsItem struct {
	Title           string   `xml:"title"`
	Link            string   `xml:"link"`
	Description     string   `xml:"description"`
	Creators        []string `xml:"creator"`
	Publisher       string   `xml:"publisher"`
	Source          string   `xml:"source"`
	PublicationName string   `xml:"publicationName"`
	ISSN            string   `xml:"issn"`
	Volume          string   `xml:"volume"`
	Number          string   `xml:"number"`
	StartingPage    string   `xml:"startingPage"`
	EndingPage      string   `xml:"endingPage"`
	CoverDate       string   `xml:"coverDate"`
	Date            string   `xml:"date"`
	DOI             string   `xml:"doi"`
	Identifiers     []string `xml:"identifier"`
}
