// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/metasearch/internal/httputil"
	"github.com/pdiddy/metasearch/pkg/types"
)

// worldcatAPIBase is the WorldCat SRU search endpoint. Declared as a var
// so tests can substitute an httptest server.
var worldcatAPIBase = "https://www.worldcat.org/webservices/catalog/search/worldcat/sru"

// worldcatRecordSchema requests Dublin Core records. The MARCXML response
// would be richer but is far more work; the DC response is stunted and we
// do what we can with it.
const worldcatRecordSchema = "info:srw/schema/1/dc"

// worldcatMaxStartRecord is the highest startRecord the backend accepts;
// anything beyond is clamped rather than rejected.
const worldcatMaxStartRecord = 9999

// worldcatIndexes maps portable field names to CQL indexes. Raw "srw.*"
// names pass through untouched.
var worldcatIndexes = map[string]string{
	types.FieldTitle:   "srw.ti",
	types.FieldAuthor:  "srw.au",
	types.FieldSubject: "srw.su",
	types.FieldISSN:    "srw.in",
	types.FieldISBN:    "srw.bn",
	types.FieldOCLCNum: "srw.no",
}

// WorldCatEngine queries the WorldCat SRU interface with Dublin Core
// records.
type WorldCatEngine struct {
	id     string
	cfg    types.WorldCatConfig
	http   types.HTTPConfig
	client *http.Client
}

// NewWorldCat validates the configuration and returns a ready engine.
func NewWorldCat(id string, cfg types.WorldCatConfig, httpCfg types.HTTPConfig, client *http.Client) (*WorldCatEngine, error) {
	if cfg.APIKey == "" {
		return nil, &ConfigurationError{Msg: "worldcat: api_key is required"}
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &WorldCatEngine{id: id, cfg: cfg, http: httpCfg, client: client}, nil
}

// ID returns the engine identifier.
func (e *WorldCatEngine) ID() string { return e.id }

// Search executes a normalized query against the SRU endpoint.
func (e *WorldCatEngine) Search(ctx context.Context, q types.Query) types.ResultSet {
	rs, err := e.doSearch(ctx, q)
	if err != nil {
		return failedResultSet(e.id, err)
	}
	return rs
}

// Get looks up a single record by OCLC number.
func (e *WorldCatEngine) Get(ctx context.Context, identifier string) (types.ResultItem, error) {
	identifier = strings.TrimSpace(identifier)
	if !isOCLCNumber(identifier) {
		return types.ResultItem{}, &InvalidIdentifierError{
			EngineID:   e.id,
			Identifier: identifier,
			Reason:     "expected an OCLC number",
		}
	}

	rs, err := e.doSearch(ctx, types.Query{
		Keywords:    identifier,
		SearchField: "srw.no",
		PerPage:     1,
	})
	if err != nil {
		return types.ResultItem{}, err
	}
	if len(rs.Items) == 0 {
		return types.ResultItem{}, &NotFoundError{EngineID: e.id, Identifier: identifier}
	}
	return rs.Items[0], nil
}

// isOCLCNumber reports whether s is a plain digit string. Malformed
// identifiers are rejected before any request goes out.
func isOCLCNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (e *WorldCatEngine) doSearch(ctx context.Context, q types.Query) (types.ResultSet, error) {
	reqURL, pag, err := e.queryURL(q)
	if err != nil {
		return types.ResultSet{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.ResultSet{}, &FetchError{EngineID: e.id, Message: "creating request", Err: err}
	}
	if e.http.UserAgent != "" {
		req.Header.Set("User-Agent", e.http.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, e.client, req, 0)
	if err != nil {
		return types.ResultSet{}, &FetchError{EngineID: e.id, Message: "WorldCat request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.ResultSet{}, &FetchError{
			EngineID:   e.id,
			Message:    fmt.Sprintf("WorldCat returned HTTP %d", resp.StatusCode),
			HTTPStatus: resp.StatusCode,
		}
	}

	var doc worldcatResponse
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return types.ResultSet{}, &FetchError{EngineID: e.id, Message: "parsing WorldCat response", Err: err}
	}

	if len(doc.Diagnostics) > 0 {
		return types.ResultSet{}, &FetchError{EngineID: e.id, Message: doc.Diagnostics[0].String()}
	}

	rs := types.ResultSet{
		TotalItems: doc.NumberOfRecords,
		Pagination: pag,
		EngineID:   e.id,
	}
	for _, rec := range doc.Records {
		rs.Items = append(rs.Items, e.normalizeRecord(rec.Data))
	}
	return rs, nil
}

// queryURL builds the SRU request URL and the pagination actually sent
// (after clamping).
func (e *WorldCatEngine) queryURL(q types.Query) (string, types.Pagination, error) {
	cql, err := e.buildCQL(q)
	if err != nil {
		return "", types.Pagination{}, err
	}

	pag := types.NewPagination(q.Start, q.EffectivePerPage()).ClampStartRecord(worldcatMaxStartRecord)

	v := url.Values{}
	v.Set("query", cql)
	v.Set("wskey", e.cfg.APIKey)
	v.Set("recordSchema", worldcatRecordSchema)
	v.Set("maximumRecords", strconv.Itoa(pag.PerPage))
	v.Set("startRecord", strconv.Itoa(pag.StartRecord))

	if q.Sort == types.SortDateDesc {
		v.Set("sortKeys", "Date,,0")
	}

	auth := e.cfg.Auth
	if q.Auth != nil {
		auth = *q.Auth
	}
	if auth {
		v.Set("servicelevel", "full")
	}

	return worldcatAPIBase + "?" + v.Encode(), pag, nil
}

// buildCQL compiles the normalized query into CQL. Free text becomes one
// srw.kw clause per term (quoted phrases count as one term); a fielded
// query becomes a single clause on that index; a multi-field map becomes
// one clause per field.
func (e *WorldCatEngine) buildCQL(q types.Query) (string, error) {
	if len(q.Fields) > 0 {
		clauses := make([]string, 0, len(q.Fields))
		for _, name := range sortedKeys(q.Fields) {
			index, err := e.cqlIndex(name)
			if err != nil {
				return "", err
			}
			clauses = append(clauses, cqlClause(index, q.Fields[name]))
		}
		return strings.Join(clauses, " AND "), nil
	}

	index := q.SearchField
	if index == "" && q.SemanticField != "" {
		resolved, err := e.cqlIndex(q.SemanticField)
		if err != nil {
			return "", err
		}
		index = resolved
	}
	if index != "" {
		return cqlClause(index, q.Keywords), nil
	}

	terms := cqlTerms(q.Keywords)
	clauses := make([]string, 0, len(terms))
	for _, term := range terms {
		clauses = append(clauses, cqlClause("srw.kw", term))
	}
	return strings.Join(clauses, " AND "), nil
}

func (e *WorldCatEngine) cqlIndex(name string) (string, error) {
	if strings.HasPrefix(name, "srw.") {
		return name, nil
	}
	if index, ok := worldcatIndexes[name]; ok {
		return index, nil
	}
	return "", &FetchError{EngineID: e.id, Message: fmt.Sprintf("unsupported search field %q", name)}
}

// cqlClause quotes value as a CQL string, escaping interior double
// quotes.
func cqlClause(index, value string) string {
	return index + ` = "` + strings.ReplaceAll(value, `"`, `\"`) + `"`
}

// cqlTerms splits free text into search terms: whitespace-delimited, but
// a token opening with a double quote absorbs following tokens until one
// closes the phrase. Surrounding quotes are stripped; stray interior
// quotes stay in the term and get escaped later.
func cqlTerms(text string) []string {
	raw := strings.Fields(text)
	var terms []string

	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		if strings.HasPrefix(tok, `"`) && !(len(tok) > 1 && strings.HasSuffix(tok, `"`)) {
			for i+1 < len(raw) {
				i++
				tok += " " + raw[i]
				if strings.HasSuffix(raw[i], `"`) {
					break
				}
			}
		}
		if len(tok) >= 2 && strings.HasPrefix(tok, `"`) && strings.HasSuffix(tok, `"`) {
			tok = tok[1 : len(tok)-1]
		}
		terms = append(terms, tok)
	}
	return terms
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// normalizeRecord maps one Dublin Core record into the shared result
// model. The DC response omits most structure, so several fields are
// best-effort extractions.
func (e *WorldCatEngine) normalizeRecord(dc worldcatDC) types.ResultItem {
	item := types.ResultItem{EngineID: e.id}

	if len(dc.Titles) > 0 {
		title := strings.TrimSpace(dc.Titles[0])
		// DC encodes subtitles as "Title : subtitle".
		if main, sub, ok := strings.Cut(title, " : "); ok {
			item.Title = strings.TrimSpace(main)
			item.Subtitle = strings.TrimSpace(sub)
		} else {
			item.Title = title
		}
	}

	for _, name := range append(append([]string{}, dc.Creators...), dc.Contributors...) {
		if name = strings.TrimSpace(name); name != "" {
			item.Authors = append(item.Authors, types.Author{Display: name})
		}
	}

	if len(dc.Dates) > 0 {
		item.Year = yearPattern.FindString(dc.Dates[0])
	}
	if len(dc.Descriptions) > 0 {
		item.Abstract = strings.TrimSpace(dc.Descriptions[0])
	}
	if len(dc.Publishers) > 0 {
		item.Publisher = strings.TrimSpace(dc.Publishers[0])
	}
	if len(dc.Languages) > 0 {
		item.LanguageCode = strings.TrimSpace(dc.Languages[0])
	}

	for _, id := range dc.Identifiers {
		lower := strings.ToLower(strings.TrimSpace(id))
		switch {
		case strings.HasPrefix(lower, "urn:isbn:") && item.ISBN == "":
			item.ISBN = strings.TrimPrefix(strings.TrimSpace(id), "URN:ISBN:")
		case strings.HasPrefix(lower, "urn:issn:") && item.ISSN == "":
			item.ISSN = strings.TrimPrefix(strings.TrimSpace(id), "URN:ISSN:")
		}
	}

	item.OCLCNum = oclcNumber(dc.RecordIdentifiers)
	if item.OCLCNum != "" {
		item.UniqueID = item.OCLCNum
		item.Link = "https://www.worldcat.org/oclc/" + item.OCLCNum
	}

	item.Format = worldcatFormat(dc)
	return item
}

// oclcNumber picks the all-digits record identifier; oclcdcs records also
// list LCCN-style identifiers in the same element.
func oclcNumber(ids []string) string {
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, err := strconv.Atoi(id); err == nil {
			return id
		}
	}
	return ""
}

// worldcatFormat guesses a format from the little the DC record says.
// Nearly everything WorldCat returns through this schema is a book.
func worldcatFormat(dc worldcatDC) types.Format {
	for _, desc := range dc.Descriptions {
		if strings.HasPrefix(strings.TrimSpace(desc), "Thesis") {
			return types.FormatDissertation
		}
	}
	for _, t := range dc.Types {
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "text", "":
			continue
		default:
			return types.FormatOther
		}
	}
	return types.FormatBook
}

// WorldCat SRU response XML structures.
type worldcatResponse struct {
	NumberOfRecords int                  `xml:"numberOfRecords"`
	Records         []worldcatRecord     `xml:"records>record"`
	Diagnostics     []worldcatDiagnostic `xml:"diagnostics>diagnostic"`
}

type worldcatRecord struct {
	Data worldcatDC `xml:"recordData>oclcdcs"`
}

type worldcatDC struct {
	Titles            []string `xml:"title"`
	Creators          []string `xml:"creator"`
	Contributors      []string `xml:"contributor"`
	Dates             []string `xml:"date"`
	Descriptions      []string `xml:"description"`
	Identifiers       []string `xml:"identifier"`
	Languages         []string `xml:"language"`
	Publishers        []string `xml:"publisher"`
	Subjects          []string `xml:"subject"`
	Types             []string `xml:"type"`
	Formats           []string `xml:"format"`
	RecordIdentifiers []string `xml:"recordIdentifier"`
}

type worldcatDiagnostic struct {
	Message string `xml:"message"`
	Details string `xml:"details"`
}

func (d worldcatDiagnostic) String() string {
	if d.Details != "" {
		return d.Message + ": " + d.Details
	}
	return d.Message
}
