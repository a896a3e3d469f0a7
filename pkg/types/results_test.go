// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		perPage  int
		wantRec  int
		wantPage int
	}{
		{"first page", 0, 10, 1, 1},
		{"second page", 10, 10, 11, 2},
		{"mid-page offset", 15, 10, 16, 2},
		{"third page of twenty", 40, 20, 41, 3},
		{"zero per page defaults to one", 5, 0, 6, 6},
		{"negative start treated as zero", -3, 10, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.start, tt.perPage)
			if p.StartRecord != tt.wantRec || p.CurrentPage != tt.wantPage {
				t.Errorf("NewPagination(%d, %d) = %+v, want start %d page %d",
					tt.start, tt.perPage, p, tt.wantRec, tt.wantPage)
			}
		})
	}
}

func TestClampStartRecord(t *testing.T) {
	p := NewPagination(100000, 10)
	if p.StartRecord != 100001 {
		t.Fatalf("StartRecord = %d", p.StartRecord)
	}

	clamped := p.ClampStartRecord(9999)
	if clamped.StartRecord != 9999 {
		t.Errorf("StartRecord = %d, want 9999", clamped.StartRecord)
	}
	if clamped.CurrentPage != 1000 {
		t.Errorf("CurrentPage = %d, want 1000", clamped.CurrentPage)
	}

	// Under the ceiling nothing changes.
	p = NewPagination(20, 10)
	if got := p.ClampStartRecord(9999); got != p {
		t.Errorf("ClampStartRecord changed an in-range pagination: %+v", got)
	}
}

func TestFailedResultSet(t *testing.T) {
	rs := FailedResultSet("ebsco", "bad password", 0)
	if !rs.Failed {
		t.Error("Failed = false")
	}
	if rs.TotalItems != -1 {
		t.Errorf("TotalItems = %d, want -1", rs.TotalItems)
	}
	if rs.Error == nil || rs.Error.Info != "bad password" {
		t.Errorf("Error = %+v", rs.Error)
	}
	if len(rs.Items) != 0 {
		t.Errorf("Items = %v, want empty", rs.Items)
	}
	if rs.EngineID != "ebsco" {
		t.Errorf("EngineID = %q", rs.EngineID)
	}
}
