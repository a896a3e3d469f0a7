// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/metasearch/internal/httputil"
	"github.com/pdiddy/metasearch/pkg/types"
)

// ebscoAPIBase is the EBSCO EIT search endpoint. Declared as a var so
// tests can substitute an httptest server.
var ebscoAPIBase = "https://eit.ebscohost.com/Services/SearchService.asmx/Search"

// ebscoFieldCodes maps portable field names to EIT field codes.
var ebscoFieldCodes = map[string]string{
	types.FieldTitle:             "TI",
	types.FieldAuthor:            "AU",
	types.FieldSubject:           "SU",
	types.FieldISSN:              "IS",
	types.FieldISBN:              "IB",
	types.FieldVolume:            "VI",
	types.FieldIssue:             "IP",
	types.FieldStartPage:         "SP",
	types.FieldAuthorAffiliation: "AF",
}

// EBSCOEngine queries the EBSCO Host EIT SearchService.
type EBSCOEngine struct {
	id     string
	cfg    types.EBSCOConfig
	http   types.HTTPConfig
	client *http.Client
}

// NewEBSCO validates the configuration and returns a ready engine.
func NewEBSCO(id string, cfg types.EBSCOConfig, httpCfg types.HTTPConfig, client *http.Client) (*EBSCOEngine, error) {
	if cfg.ProfileID == "" || cfg.ProfilePassword == "" {
		return nil, &ConfigurationError{Msg: "ebsco: profile_id and profile_password are required"}
	}
	if len(cfg.Databases) == 0 {
		return nil, &ConfigurationError{Msg: "ebsco: at least one database is required"}
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &EBSCOEngine{id: id, cfg: cfg, http: httpCfg, client: client}, nil
}

// ID returns the engine identifier.
func (e *EBSCOEngine) ID() string { return e.id }

// Search executes a normalized query. Backend failures (bad credentials,
// unknown database, unparseable payload) come back as a failed ResultSet,
// never as an error.
func (e *EBSCOEngine) Search(ctx context.Context, q types.Query) types.ResultSet {
	rs, err := e.doSearch(ctx, q)
	if err != nil {
		return failedResultSet(e.id, err)
	}
	return rs
}

// Get looks up a single record by its "<database>:<accession_number>"
// identifier. The accession number may itself contain colons; only the
// first one separates the database.
func (e *EBSCOEngine) Get(ctx context.Context, identifier string) (types.ResultItem, error) {
	db, accession, ok := strings.Cut(identifier, ":")
	if !ok || db == "" || accession == "" {
		return types.ResultItem{}, &InvalidIdentifierError{
			EngineID:   e.id,
			Identifier: identifier,
			Reason:     "expected <database>:<accession_number>",
		}
	}

	rs, err := e.doSearch(ctx, types.Query{
		Keywords:    accession,
		SearchField: "AN",
		Databases:   []string{db},
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

func (e *EBSCOEngine) doSearch(ctx context.Context, q types.Query) (types.ResultSet, error) {
	reqURL, err := e.queryURL(q)
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
		return types.ResultSet{}, &FetchError{EngineID: e.id, Message: "EBSCO request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.ResultSet{}, &FetchError{
			EngineID:   e.id,
			Message:    fmt.Sprintf("EBSCO returned HTTP %d", resp.StatusCode),
			HTTPStatus: resp.StatusCode,
		}
	}

	var doc ebscoResponse
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return types.ResultSet{}, &FetchError{EngineID: e.id, Message: "parsing EBSCO response", Err: err}
	}

	// EIT reports errors (bad password, unknown database) as an error
	// document with a 200 status.
	if doc.ErrorDescription != "" {
		msg := doc.ErrorDescription
		if doc.ErrorNumber != "" {
			msg = fmt.Sprintf("%s (error %s)", msg, doc.ErrorNumber)
		}
		return types.ResultSet{}, &FetchError{EngineID: e.id, Message: msg}
	}

	rs := types.ResultSet{
		TotalItems: doc.Hits,
		Pagination: types.NewPagination(q.Start, q.EffectivePerPage()),
		EngineID:   e.id,
	}
	for _, rec := range doc.Records {
		rs.Items = append(rs.Items, e.normalizeRecord(rec))
	}
	return rs, nil
}

// queryURL builds the full EIT request URL for a query.
func (e *EBSCOEngine) queryURL(q types.Query) (string, error) {
	query, err := e.buildQuery(q)
	if err != nil {
		return "", err
	}

	v := url.Values{}
	v.Set("prof", e.cfg.ProfileID)
	v.Set("pwd", e.cfg.ProfilePassword)
	v.Set("authType", "profile")
	v.Set("format", "detailed")
	v.Set("query", query)
	v.Set("numrec", strconv.Itoa(q.EffectivePerPage()))
	// EIT is 1-based.
	v.Set("startrec", strconv.Itoa(q.Start+1))

	switch q.Sort {
	case types.SortDateDesc:
		v.Set("sort", "date")
	default:
		v.Set("sort", "relevance")
	}

	dbs := q.Databases
	if len(dbs) == 0 {
		dbs = e.cfg.Databases
	}
	for _, db := range dbs {
		v.Add("db", db)
	}

	return ebscoAPIBase + "?" + v.Encode(), nil
}

// buildQuery compiles the normalized query into EIT's boolean syntax.
func (e *EBSCOEngine) buildQuery(q types.Query) (string, error) {
	var query string

	switch {
	case len(q.Fields) > 0:
		clauses := make([]string, 0, len(q.Fields))
		for _, name := range sortedKeys(q.Fields) {
			code, err := e.fieldCode(name)
			if err != nil {
				return "", err
			}
			clauses = append(clauses, "("+code+" "+ebscoQueryPrepare(q.Fields[name])+")")
		}
		query = strings.Join(clauses, " AND ")
	default:
		query = ebscoQueryPrepare(q.Keywords)
		field := q.SearchField
		if field == "" && q.SemanticField != "" {
			code, err := e.fieldCode(q.SemanticField)
			if err != nil {
				return "", err
			}
			field = code
		}
		if field != "" {
			query = "(" + field + " " + query + ")"
		}
	}

	if q.PeerReviewedOnly {
		query = andClause(query, "(RV Y)")
	}
	if q.PubYearStart != "" || q.PubYearEnd != "" {
		query = andClause(query, fmt.Sprintf("(DT %s-%s)", q.PubYearStart, q.PubYearEnd))
	}
	return query, nil
}

// andClause appends a limiter clause, standing alone when the base
// query is empty.
func andClause(query, clause string) string {
	if query == "" {
		return clause
	}
	return query + " AND " + clause
}

// fieldCode resolves a portable field name, passing raw EIT codes
// (two uppercase letters) through unchanged. Unknown names are rejected
// rather than silently dropped.
func (e *EBSCOEngine) fieldCode(name string) (string, error) {
	if code, ok := ebscoFieldCodes[name]; ok {
		return code, nil
	}
	if len(name) == 2 && name == strings.ToUpper(name) {
		return name, nil
	}
	return "", &FetchError{EngineID: e.id, Message: fmt.Sprintf("unsupported search field %q", name)}
}

// ebscoQueryPrepare rewrites free-text input into EIT's boolean syntax:
// tokens are split on whitespace and ":.;" with double-quoted phrases
// kept whole, bare tokens that EIT would read as boolean operators are
// quoted, tokens are joined with AND, and finally the characters EIT
// chokes on even inside phrases are blanked out.
func ebscoQueryPrepare(text string) string {
	tokens := ebscoTokenize(text)

	for i, tok := range tokens {
		if strings.HasPrefix(tok, `"`) {
			continue
		}
		switch strings.ToLower(tok) {
		case "and", "or", "not":
			tokens[i] = `"` + tok + `"`
		}
	}

	joined := strings.Join(tokens, " AND ")

	// Parens, question marks, and brackets are special to EIT everywhere,
	// even inside quoted phrases.
	return strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', '?', '[', ']':
			return ' '
		default:
			return r
		}
	}, joined)
}

// ebscoTokenize splits text on whitespace, colons, periods, and
// semicolons, keeping double-quoted phrases (quotes included) as single
// tokens.
func ebscoTokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	inPhrase := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		switch {
		case r == '"' && inPhrase:
			cur.WriteRune(r)
			flush()
			inPhrase = false
		case r == '"':
			flush()
			cur.WriteRune(r)
			inPhrase = true
		case !inPhrase && (unicode.IsSpace(r) || r == ':' || r == '.' || r == ';'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalizeRecord maps one EIT record into the shared result model.
func (e *EBSCOEngine) normalizeRecord(rec ebscoRec) types.ResultItem {
	ctl := rec.Header.Control
	art := ctl.ArtInfo

	item := types.ResultItem{
		UniqueID: rec.Header.ShortDBName + ":" + rec.Header.UITerm,
		EngineID: e.id,
		Title:    strings.TrimSpace(art.Title),
		Year:     ctl.PubInfo.Date.Year,
		Volume:   ctl.PubInfo.Volume,
		Issue:    ctl.PubInfo.Issue,
		Abstract: strings.TrimSpace(art.Abstract),
	}

	for _, au := range art.Authors {
		if name := strings.TrimSpace(au); name != "" {
			item.Authors = append(item.Authors, types.Author{Display: name})
		}
	}

	if p := strings.TrimSpace(ctl.PubInfo.Publisher); p != "" {
		item.Publisher = p
	}

	// Containing publication: journal title first, then a book title that
	// differs from the record's own title (a chapter inside a book).
	bookTitle := ""
	if ctl.BookInfo != nil {
		bookTitle = strings.TrimSpace(ctl.BookInfo.Title)
	}
	if jt := strings.TrimSpace(ctl.JournalInfo.Title); jt != "" {
		item.SourceTitle = jt
	} else if bookTitle != "" && !strings.EqualFold(bookTitle, item.Title) {
		item.SourceTitle = bookTitle
	}

	item.ISSN = ctl.JournalInfo.issn()
	if ctl.BookInfo != nil && len(ctl.BookInfo.ISBNs) > 0 {
		item.ISBN = ctl.BookInfo.ISBNs[0]
	}
	for _, ui := range art.UIs {
		if strings.EqualFold(ui.Type, "doi") {
			item.DOI = strings.TrimSpace(ui.Value)
			break
		}
	}
	if item.DOI != "" {
		item.OtherLinks = append(item.OtherLinks, types.Link{
			URL:   "https://doi.org/" + item.DOI,
			Label: "DOI",
			Rel:   "alternate",
		})
	}

	item.StartPage = art.StartPage
	if art.StartPage != "" && art.PageCount != "" {
		if start, err1 := strconv.Atoi(art.StartPage); err1 == nil {
			if count, err2 := strconv.Atoi(art.PageCount); err2 == nil && count > 0 {
				item.EndPage = strconv.Itoa(start + count - 1)
			}
		}
	}

	item.LanguageCode = languageCode(ctl.Language)

	if link := strings.TrimSpace(rec.PLink); link != "" {
		item.Link = link
	}
	if codes := fulltextFormats(art.Formats); len(codes) > 0 {
		item.CustomData = map[string]any{"fulltext_formats": codes}
		item.LinkIsFulltext = true
	}

	item.Format = classifyEBSCOFormat(ebscoFacts{
		DocTypes:            art.DocTypes,
		PubTypes:            art.PubTypes,
		HasDissertationNote: ctl.DissInfo != nil && strings.TrimSpace(ctl.DissInfo.Note) != "",
		HasBookInfo:         ctl.BookInfo != nil,
		HasJournalTitle:     strings.TrimSpace(ctl.JournalInfo.Title) != "",
		HasSourceTitle:      item.SourceTitle != "",
		HasPublisher:        item.Publisher != "",
	})

	return item
}

// fulltextFormats filters EIT format markers to the fulltext vocabulary
// (P pdf, T text, C text+graphics).
func fulltextFormats(formats []ebscoFmt) []string {
	var codes []string
	for _, f := range formats {
		switch f.Type {
		case "P", "T", "C":
			codes = append(codes, f.Type)
		}
	}
	return codes
}

// ebscoLanguages maps EIT's spelled-out language names to codes.
var ebscoLanguages = map[string]string{
	"english":    "en",
	"french":     "fr",
	"german":     "de",
	"spanish":    "es",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
	"swedish":    "sv",
	"russian":    "ru",
	"chinese":    "zh",
	"japanese":   "ja",
}

func languageCode(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if code, ok := ebscoLanguages[name]; ok {
		return code
	}
	if len(name) == 2 {
		return name
	}
	return ""
}

// EIT response XML structures.
type ebscoResponse struct {
	Hits    int        `xml:"Hits"`
	Records []ebscoRec `xml:"SearchResults>records>rec"`

	// Error-document shape; EIT returns these with HTTP 200.
	ErrorNumber      string `xml:"ErrorNumber"`
	ErrorDescription string `xml:"ErrorDescription"`
}

type ebscoRec struct {
	Header ebscoHeader `xml:"header"`
	PLink  string      `xml:"plink"`
}

type ebscoHeader struct {
	ShortDBName string       `xml:"shortDbName,attr"`
	UITerm      string       `xml:"uiTerm,attr"`
	Control     ebscoControl `xml:"controlInfo"`
}

type ebscoControl struct {
	Language    string         `xml:"language"`
	BookInfo    *ebscoBkInfo   `xml:"bkinfo"`
	DissInfo    *ebscoDissInfo `xml:"dissinfo"`
	JournalInfo ebscoJInfo     `xml:"jinfo"`
	PubInfo     ebscoPubInfo   `xml:"pubinfo"`
	ArtInfo     ebscoArtInfo   `xml:"artinfo"`
}

type ebscoBkInfo struct {
	Title string   `xml:"btl"`
	ISBNs []string `xml:"isbn"`
}

type ebscoDissInfo struct {
	Note string `xml:"dissnote"`
}

type ebscoJInfo struct {
	Title string     `xml:"jtl"`
	ISSNs []string   `xml:"issn"`
	JIDs  []ebscoJID `xml:"jid"`
}

// issn returns the journal's ISSN from the issn elements, falling back to
// a jid element typed issn (RILM records put it there).
func (j ebscoJInfo) issn() string {
	for _, s := range j.ISSNs {
		if v := strings.TrimSpace(s); v != "" {
			return v
		}
	}
	for _, jid := range j.JIDs {
		if strings.EqualFold(jid.Type, "issn") {
			if v := strings.TrimSpace(jid.Value); v != "" {
				return v
			}
		}
	}
	return ""
}

type ebscoJID struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type ebscoPubInfo struct {
	Date      ebscoDate `xml:"dt"`
	Publisher string    `xml:"pub"`
	Volume    string    `xml:"vid"`
	Issue     string    `xml:"iid"`
}

type ebscoDate struct {
	Year string `xml:"year,attr"`
}

type ebscoArtInfo struct {
	Title     string     `xml:"tig>atl"`
	Authors   []string   `xml:"aug>au"`
	Abstract  string     `xml:"ab"`
	DocTypes  []string   `xml:"doctype"`
	PubTypes  []string   `xml:"pubtype"`
	UIs       []ebscoUI  `xml:"ui"`
	StartPage string     `xml:"ppf"`
	PageCount string     `xml:"ppct"`
	Formats   []ebscoFmt `xml:"formats>fmt"`
}

type ebscoUI struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type ebscoFmt struct {
	Type string `xml:"type,attr"`
}
