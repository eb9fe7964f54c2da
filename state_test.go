package dappi_test

import (
	"errors"
	"strings"
	"testing"

	. "github.com/flokart-world/dappi"
)

func TestDecodeStateMalformed(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		desc string
		json string
	}{
		{desc: "not JSON at all", json: `not json`},
		{desc: "dap with no content", json: `{"daps":{"a@1.0.0":null}}`},
		{desc: "dap missing version", json: `{"daps":{"a@1.0.0":{}}}`},
		{desc: "dependency edge with no name", json: `{"daps":{"a@1.0.0":{"version":"1.0.0","dependencies":[{"requiredVersion":"*"}]}}}`},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeState(strings.NewReader(tc.json))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("DecodeState() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestDecodeStateDefaultsAndShape(t *testing.T) {
	t.Parallel()
	st, err := DecodeState(strings.NewReader(`{
		"daps": {
			"a@1.0.0": {"version": "1.0.0"}
		},
		"names": {
			"a": {"known": ["a@1.0.0"]}
		},
		"entry": "a@1.0.0"
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := st.Entry, PackageId("a@1.0.0"); got != want {
		t.Errorf("Entry = %v, want %v", got, want)
	}
	if _, ok := st.Packages["a@1.0.0"]; !ok {
		t.Errorf("Packages missing a@1.0.0")
	}
	if _, ok := st.Names["a"]; !ok {
		t.Errorf("Names missing \"a\"")
	}
	if err := st.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestStateValidateUnresolvedReferences(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		desc string
		json string
	}{
		{desc: "unresolved known candidate", json: `{"names":{"a":{"known":["missing@1.0.0"]}}}`},
		{desc: "unresolved locked candidate", json: `{"names":{"a":{"locked":"missing@1.0.0"}}}`},
		{desc: "unresolved selected candidate", json: `{"names":{"a":{"selected":"missing@1.0.0"}}}`},
		{desc: "unresolved entry", json: `{"entry":"missing@1.0.0"}`},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			st, err := DecodeState(strings.NewReader(tc.json))
			if err != nil {
				t.Fatal(err)
			}
			if err := st.Validate(); !errors.Is(err, ErrUnresolvedReference) {
				t.Errorf("Validate() error = %v, want ErrUnresolvedReference", err)
			}
		})
	}
}
