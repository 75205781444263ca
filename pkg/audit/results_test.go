// Copyright 2026 Pangea Cyber Corporation

package audit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLast(t *testing.T) {
	count, total, err := parseLast("20|37|tok")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if count != 20 || total != 37 {
		t.Errorf("got %d of %d, want 20 of 37", count, total)
	}
}

func TestParseLast_Errors(t *testing.T) {
	for _, input := range []string{"", "20", "x|37|tok", "20|y|tok"} {
		if _, _, err := parseLast(input); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestNext_ReturnsFollowUpParams(t *testing.T) {
	params := SearchOptions{Query: "reboot", PageSize: 20, Start: "7d"}
	results := newSearchResults(nil, &SearchResult{Last: "20|37|tok"}, params)

	next := results.Next()
	if next == nil {
		t.Fatal("expected follow-up parameters")
	}

	want := params
	want.Last = "20|37|tok"
	if diff := cmp.Diff(&want, next); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestNext_ExhaustedAndMalformed(t *testing.T) {
	cases := []struct {
		name string
		last string
	}{
		{"exhausted", "37|37|tok2"},
		{"over total", "40|37|tok"},
		{"empty cursor", ""},
		{"malformed cursor", "garbage"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			results := newSearchResults(nil, &SearchResult{Last: tc.last}, SearchOptions{Query: "q"})
			if next := results.Next(); next != nil {
				t.Errorf("expected nil, got %+v", next)
			}
		})
	}
}

func TestCountTotal_MalformedCursor(t *testing.T) {
	results := newSearchResults(nil, &SearchResult{Last: "nope"}, SearchOptions{})
	if results.Count() != 0 || results.Total() != 0 {
		t.Errorf("malformed cursor must read as zero, got %d of %d", results.Count(), results.Total())
	}
}
