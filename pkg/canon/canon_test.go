// Copyright 2026 Pangea Cyber Corporation

package canon

import (
	"math"
	"strings"
	"testing"

	"github.com/pangeacyber/go-pangea/pkg/errors"
)

func TestCanonicalize_SortedNoWhitespace(t *testing.T) {
	got, err := Canonicalize(map[string]interface{}{"b": 1, "a": 2})
	if err != nil {
		t.Fatalf("canonicalize failed: %v", err)
	}
	if string(got) != `{"a":2,"b":1}` {
		t.Errorf("canonical form mismatch: got %s", got)
	}
}

func TestCanonicalize_NestedSorted(t *testing.T) {
	got, err := Canonicalize(map[string]interface{}{
		"outer": map[string]interface{}{"z": true, "a": nil},
		"list":  []interface{}{3, "x"},
	})
	if err != nil {
		t.Fatalf("canonicalize failed: %v", err)
	}
	if string(got) != `{"list":[3,"x"],"outer":{"a":null,"z":true}}` {
		t.Errorf("canonical form mismatch: got %s", got)
	}
}

func TestCanonicalize_OrderInvariance(t *testing.T) {
	first := map[string]interface{}{}
	for _, k := range []string{"actor", "action", "target", "status", "message"} {
		first[k] = k + "-value"
	}
	second := map[string]interface{}{}
	for _, k := range []string{"message", "status", "target", "action", "actor"} {
		second[k] = k + "-value"
	}

	a, err := Canonicalize(first)
	if err != nil {
		t.Fatalf("canonicalize failed: %v", err)
	}
	b, err := Canonicalize(second)
	if err != nil {
		t.Fatalf("canonicalize failed: %v", err)
	}
	if string(a) != string(b) {
		t.Errorf("insertion order changed the output:\n%s\n%s", a, b)
	}
}

func TestCanonicalize_RejectsNonFinite(t *testing.T) {
	for name, v := range map[string]float64{
		"nan":      math.NaN(),
		"inf":      math.Inf(1),
		"neg -inf": math.Inf(-1),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Canonicalize(map[string]interface{}{"a": v})
			if !errors.HasCode(err, errors.ErrorCodeCanonicalization) {
				t.Errorf("expected canonicalization error, got %v", err)
			}
		})
	}
}

func TestCanonicalize_NegativeZero(t *testing.T) {
	got, err := Canonicalize(map[string]interface{}{"a": math.Copysign(0, -1)})
	if err != nil {
		t.Fatalf("canonicalize failed: %v", err)
	}
	if string(got) != `{"a":0}` {
		t.Errorf("-0 must normalize to 0, got %s", got)
	}
}

func TestCanonicalize_CoercesNonJSONValues(t *testing.T) {
	type pair struct{ X, Y int }

	got, err := Canonicalize(map[string]interface{}{"p": pair{1, 2}})
	if err != nil {
		t.Fatalf("canonicalize failed: %v", err)
	}
	if string(got) != `{"p":"{1 2}"}` {
		t.Errorf("non-JSON value must be stringified, got %s", got)
	}
}

func TestCanonicalize_StringifiedMapKeys(t *testing.T) {
	got, err := Canonicalize(map[int]interface{}{2: "b", 1: "a"})
	if err != nil {
		t.Fatalf("canonicalize failed: %v", err)
	}
	if string(got) != `{"1":"a","2":"b"}` {
		t.Errorf("non-string keys must be stringified and sorted, got %s", got)
	}
}

func TestCanonicalize_ScalarValues(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"string", "hello", `"hello"`},
		{"integer", 7, `7`},
		{"bool", true, `true`},
		{"null", nil, `null`},
		{"list", []interface{}{1, 2}, `[1,2]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Canonicalize(tc.input)
			if err != nil {
				t.Fatalf("canonicalize failed: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCanonicalize_KeepsUTF8(t *testing.T) {
	got, err := Canonicalize(map[string]interface{}{"name": "café"})
	if err != nil {
		t.Fatalf("canonicalize failed: %v", err)
	}
	if !strings.Contains(string(got), "café") {
		t.Errorf("non-ASCII output must stay UTF-8, got %s", got)
	}
}
