package http

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFlexStringAcceptsNumbers(t *testing.T) {
	cases := map[string]string{
		`"42"`:  "42",
		`42`:    "42",
		`-3.5`:  "-3.5",
		`null`:  "",
		`" 7 "`: " 7 ",
	}
	for raw, want := range cases {
		var got flexString
		if err := json.Unmarshal([]byte(raw), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if string(got) != want {
			t.Fatalf("unmarshal %s: expected %q, got %q", raw, want, got)
		}
	}

	var bad flexString
	if err := json.Unmarshal([]byte(`true`), &bad); err == nil {
		t.Fatalf("expected error for boolean answer")
	}
}

func TestOperatorListForms(t *testing.T) {
	cases := map[string]operatorList{
		`["+", "-"]`: {"+", "-"},
		`"+,-"`:      {"+,-"},
		`"  "`:       nil,
		`null`:       nil,
		`3`:          {"3"},
	}
	for raw, want := range cases {
		var got operatorList
		if err := json.Unmarshal([]byte(raw), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("unmarshal %s: expected %v, got %v", raw, want, got)
		}
	}
}
