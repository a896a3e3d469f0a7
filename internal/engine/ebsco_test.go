// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pdiddy/metasearch/pkg/types"
)

// --- Query building ---

func TestEBSCOQueryPrepare(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single term", "cancer", "cancer"},
		{"two terms", "lung cancer", "lung AND cancer"},
		{"operators quoted and punctuation dropped",
			`one :. ; two "three four" and NOT OR five`,
			`one AND two AND "three four" AND "and" AND "NOT" AND "OR" AND five`},
		{"trailing paren blanked", "cancer)", "cancer "},
		{"question mark blanked inside phrase", `"cancer?"`, `"cancer "`},
		{"brackets blanked", "[cancer]", " cancer "},
		{"phrase kept whole", `treatment "lung cancer"`, `treatment AND "lung cancer"`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ebscoQueryPrepare(tt.in); got != tt.want {
				t.Errorf("ebscoQueryPrepare(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func testEBSCO(t *testing.T, client *http.Client) *EBSCOEngine {
	t.Helper()
	e, err := NewEBSCO(IDEBSCO, types.EBSCOConfig{
		ProfileID:       "myprofile",
		ProfilePassword: "mypassword",
		Databases:       []string{"a9h", "awn"},
	}, types.HTTPConfig{UserAgent: "test/0.1"}, client)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestEBSCOBuildQuery(t *testing.T) {
	e := testEBSCO(t, nil)

	tests := []struct {
		name  string
		query types.Query
		want  string
	}{
		{"keywords", types.Query{Keywords: "lung cancer"}, "lung AND cancer"},
		{"semantic field", types.Query{Keywords: "cancer", SemanticField: types.FieldSubject}, "(SU cancer)"},
		{"raw search field wins", types.Query{Keywords: "cancer", SearchField: "TX", SemanticField: types.FieldSubject}, "(TX cancer)"},
		{"peer reviewed", types.Query{Keywords: "cancer", PeerReviewedOnly: true}, "cancer AND (RV Y)"},
		{"year range", types.Query{Keywords: "cancer", PubYearStart: "1980", PubYearEnd: "1989"}, "cancer AND (DT 1980-1989)"},
		{"open ended year range", types.Query{Keywords: "cancer", PubYearStart: "1980"}, "cancer AND (DT 1980-)"},
		{"peer reviewed without keywords", types.Query{PeerReviewedOnly: true}, "(RV Y)"},
		{"limiters without keywords", types.Query{PeerReviewedOnly: true, PubYearStart: "1980", PubYearEnd: "1989"}, "(RV Y) AND (DT 1980-1989)"},
		{"multi field sorted", types.Query{Fields: map[string]string{
			types.FieldTitle:  "cancer",
			types.FieldAuthor: "smith",
		}}, "(AU smith) AND (TI cancer)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.buildQuery(tt.query)
			if err != nil {
				t.Fatalf("buildQuery: %v", err)
			}
			if got != tt.want {
				t.Errorf("buildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEBSCOBuildQueryUnknownField(t *testing.T) {
	e := testEBSCO(t, nil)
	if _, err := e.buildQuery(types.Query{Keywords: "x", SemanticField: "shoe_size"}); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

// --- Request URL ---

func TestEBSCOQueryURL(t *testing.T) {
	e := testEBSCO(t, nil)

	raw, err := e.queryURL(types.Query{
		Keywords: "cancer",
		Start:    20,
		PerPage:  10,
		Sort:     types.SortDateDesc,
	})
	if err != nil {
		t.Fatalf("queryURL: %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	v := u.Query()

	if got := v.Get("prof"); got != "myprofile" {
		t.Errorf("prof = %q", got)
	}
	if got := v.Get("pwd"); got != "mypassword" {
		t.Errorf("pwd = %q", got)
	}
	if got := v.Get("authType"); got != "profile" {
		t.Errorf("authType = %q", got)
	}
	if got := v.Get("format"); got != "detailed" {
		t.Errorf("format = %q", got)
	}
	if got := v.Get("query"); got != "cancer" {
		t.Errorf("query = %q", got)
	}
	if got := v.Get("numrec"); got != "10" {
		t.Errorf("numrec = %q", got)
	}
	// startrec is 1-based.
	if got := v.Get("startrec"); got != "21" {
		t.Errorf("startrec = %q, want 21", got)
	}
	if got := v.Get("sort"); got != "date" {
		t.Errorf("sort = %q", got)
	}
	if got := v["db"]; len(got) != 2 || got[0] != "a9h" || got[1] != "awn" {
		t.Errorf("db = %v, want [a9h awn]", got)
	}
}

func TestEBSCOQueryURLDatabaseOverride(t *testing.T) {
	e := testEBSCO(t, nil)

	raw, err := e.queryURL(types.Query{Keywords: "cancer", Databases: []string{"rih"}})
	if err != nil {
		t.Fatalf("queryURL: %v", err)
	}
	u, _ := url.Parse(raw)
	if got := u.Query()["db"]; len(got) != 1 || got[0] != "rih" {
		t.Errorf("db = %v, want [rih]", got)
	}
	if got := u.Query().Get("sort"); got != "relevance" {
		t.Errorf("sort = %q, want relevance default", got)
	}
}

// --- Response normalization ---

const sampleEITXML = `<?xml version="1.0" encoding="utf-8"?>
<searchResponse>
  <Hits>247</Hits>
  <SearchResults>
    <records>
      <rec>
        <header shortDbName="a9h" uiTerm="12345678">
          <controlInfo>
            <language>English</language>
            <jinfo>
              <jtl>Journal of Testing</jtl>
              <issn>10959203</issn>
            </jinfo>
            <pubinfo>
              <dt year="2010" />
              <vid>12</vid>
              <iid>3</iid>
            </pubinfo>
            <artinfo>
              <ui type="doi">10.1000/jtest.2010.001</ui>
              <tig>
                <atl>A Sample Article</atl>
              </tig>
              <aug>
                <au>Smith, John</au>
                <au>Doe, Jane</au>
              </aug>
              <ab>An abstract of the article.</ab>
              <doctype>Article</doctype>
              <pubtype>Academic Journal</pubtype>
              <ppf>100</ppf>
              <ppct>5</ppct>
              <formats>
                <fmt type="T" />
                <fmt type="P" />
              </formats>
            </artinfo>
          </controlInfo>
        </header>
        <plink>https://search.ebscohost.com/login.aspx?direct=true&amp;db=a9h&amp;AN=12345678</plink>
      </rec>
      <rec>
        <header shortDbName="rih" uiTerm="2009-04567">
          <controlInfo>
            <language>German</language>
            <bkinfo>
              <btl>Studien zur Musikwissenschaft</btl>
              <isbn>9783000000000</isbn>
            </bkinfo>
            <jinfo>
              <jid type="issn">00ranumber</jid>
            </jinfo>
            <pubinfo>
              <dt year="2009" />
              <pub>Test Verlag</pub>
            </pubinfo>
            <artinfo>
              <tig>
                <atl>Ein Kapitel</atl>
              </tig>
              <aug>
                <au>Mueller, Anna</au>
              </aug>
              <doctype>Chapter</doctype>
            </artinfo>
          </controlInfo>
        </header>
      </rec>
    </records>
  </SearchResults>
</searchResponse>`

func eitTestServer(t *testing.T, body string, capture *url.Values) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = r.URL.Query()
		}
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	old := ebscoAPIBase
	ebscoAPIBase = ts.URL
	t.Cleanup(func() { ebscoAPIBase = old })
	return ts
}

func TestEBSCOSearch(t *testing.T) {
	var captured url.Values
	ts := eitTestServer(t, sampleEITXML, &captured)
	e := testEBSCO(t, ts.Client())

	rs := e.Search(context.Background(), types.Query{Keywords: "cancer", Start: 10, PerPage: 10})
	if rs.Failed {
		t.Fatalf("ResultSet failed: %+v", rs.Error)
	}
	if rs.EngineID != IDEBSCO {
		t.Errorf("EngineID = %q", rs.EngineID)
	}
	if rs.TotalItems != 247 {
		t.Errorf("TotalItems = %d, want 247", rs.TotalItems)
	}
	if rs.Pagination.StartRecord != 11 || rs.Pagination.CurrentPage != 2 {
		t.Errorf("Pagination = %+v, want start 11 page 2", rs.Pagination)
	}
	if len(rs.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(rs.Items))
	}
	if got := captured.Get("query"); got != "cancer" {
		t.Errorf("sent query = %q", got)
	}

	a := rs.Items[0]
	if a.UniqueID != "a9h:12345678" {
		t.Errorf("UniqueID = %q", a.UniqueID)
	}
	if a.Title != "A Sample Article" {
		t.Errorf("Title = %q", a.Title)
	}
	if len(a.Authors) != 2 || a.Authors[0].Display != "Smith, John" {
		t.Errorf("Authors = %v", a.Authors)
	}
	if a.SourceTitle != "Journal of Testing" {
		t.Errorf("SourceTitle = %q", a.SourceTitle)
	}
	if a.ISSN != "10959203" {
		t.Errorf("ISSN = %q", a.ISSN)
	}
	if a.DOI != "10.1000/jtest.2010.001" {
		t.Errorf("DOI = %q", a.DOI)
	}
	if len(a.OtherLinks) != 1 || a.OtherLinks[0].URL != "https://doi.org/10.1000/jtest.2010.001" {
		t.Errorf("OtherLinks = %v, want DOI resolver link", a.OtherLinks)
	}
	if a.Year != "2010" || a.Volume != "12" || a.Issue != "3" {
		t.Errorf("Year/Volume/Issue = %q/%q/%q", a.Year, a.Volume, a.Issue)
	}
	// EndPage derives from ppf + ppct - 1.
	if a.StartPage != "100" || a.EndPage != "104" {
		t.Errorf("pages = %q-%q, want 100-104", a.StartPage, a.EndPage)
	}
	if a.LanguageCode != "en" {
		t.Errorf("LanguageCode = %q", a.LanguageCode)
	}
	if a.Format != types.FormatArticle {
		t.Errorf("Format = %q", a.Format)
	}
	if !a.LinkIsFulltext || a.Link == "" {
		t.Errorf("Link = %q fulltext=%v, want fulltext plink", a.Link, a.LinkIsFulltext)
	}

	b := rs.Items[1]
	if b.UniqueID != "rih:2009-04567" {
		t.Errorf("UniqueID = %q", b.UniqueID)
	}
	// Chapter inside a book: containing title comes from bkinfo.
	if b.SourceTitle != "Studien zur Musikwissenschaft" {
		t.Errorf("SourceTitle = %q", b.SourceTitle)
	}
	if b.Format != types.FormatBookItem {
		t.Errorf("Format = %q, want book_item", b.Format)
	}
	// No issn element; falls back to the jid typed issn.
	if b.ISSN != "00ranumber" {
		t.Errorf("ISSN = %q, want jid fallback", b.ISSN)
	}
	if b.ISBN != "9783000000000" {
		t.Errorf("ISBN = %q", b.ISBN)
	}
	if b.Publisher != "Test Verlag" {
		t.Errorf("Publisher = %q", b.Publisher)
	}
	if b.LanguageCode != "de" {
		t.Errorf("LanguageCode = %q", b.LanguageCode)
	}
}

func TestEBSCOSearchErrorDocument(t *testing.T) {
	const errXML = `<?xml version="1.0"?>
<Fault>
  <ErrorNumber>101</ErrorNumber>
  <ErrorDescription>The profile password is incorrect</ErrorDescription>
</Fault>`
	ts := eitTestServer(t, errXML, nil)
	e := testEBSCO(t, ts.Client())

	rs := e.Search(context.Background(), types.Query{Keywords: "cancer"})
	if !rs.Failed {
		t.Fatal("expected failed ResultSet")
	}
	if rs.Error == nil || rs.Error.Info == "" {
		t.Fatalf("Error = %+v, want populated", rs.Error)
	}
}

func TestEBSCOSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)
	old := ebscoAPIBase
	ebscoAPIBase = ts.URL
	t.Cleanup(func() { ebscoAPIBase = old })

	e := testEBSCO(t, ts.Client())
	rs := e.Search(context.Background(), types.Query{Keywords: "cancer"})
	if !rs.Failed {
		t.Fatal("expected failed ResultSet")
	}
	if rs.Error.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("HTTPStatus = %d, want 500", rs.Error.HTTPStatus)
	}
}

// --- Get ---

func TestEBSCOGetInvalidIdentifier(t *testing.T) {
	e := testEBSCO(t, nil)

	for _, id := range []string{"", "noseparator", ":acc", "db:"} {
		_, err := e.Get(context.Background(), id)
		var invalid *InvalidIdentifierError
		if !errors.As(err, &invalid) {
			t.Errorf("Get(%q) err = %v, want InvalidIdentifierError", id, err)
		}
	}
}

func TestEBSCOGet(t *testing.T) {
	var captured url.Values
	ts := eitTestServer(t, sampleEITXML, &captured)
	e := testEBSCO(t, ts.Client())

	item, err := e.Get(context.Background(), "a9h:12345678")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if item.UniqueID != "a9h:12345678" {
		t.Errorf("UniqueID = %q", item.UniqueID)
	}
	if got := captured.Get("query"); got != "(AN 12345678)" {
		t.Errorf("sent query = %q, want (AN 12345678)", got)
	}
	if got := captured["db"]; len(got) != 1 || got[0] != "a9h" {
		t.Errorf("db = %v, want [a9h]", got)
	}
	if got := captured.Get("numrec"); got != "1" {
		t.Errorf("numrec = %q, want 1", got)
	}
}

func TestEBSCOGetNotFound(t *testing.T) {
	const emptyXML = `<?xml version="1.0"?><searchResponse><Hits>0</Hits></searchResponse>`
	ts := eitTestServer(t, emptyXML, nil)
	e := testEBSCO(t, ts.Client())

	_, err := e.Get(context.Background(), "a9h:99999999")
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

// --- Configuration ---

func TestNewEBSCOValidation(t *testing.T) {
	httpCfg := types.HTTPConfig{}
	tests := []struct {
		name string
		cfg  types.EBSCOConfig
	}{
		{"missing profile", types.EBSCOConfig{ProfilePassword: "p", Databases: []string{"a9h"}}},
		{"missing password", types.EBSCOConfig{ProfileID: "p", Databases: []string{"a9h"}}},
		{"missing databases", types.EBSCOConfig{ProfileID: "p", ProfilePassword: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEBSCO(IDEBSCO, tt.cfg, httpCfg, nil)
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("err = %v, want ConfigurationError", err)
			}
		})
	}
}
