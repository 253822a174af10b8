package gateway

import (
	"errors"
	"testing"

	"visareq/domain/core"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain json", `{"name":"a","count":2}`},
		{"leading whitespace", "\n\n  {\"name\":\"a\",\"count\":2}  "},
		{"json fence", "```json\n{\"name\":\"a\",\"count\":2}\n```"},
		{"bare fence", "```\n{\"name\":\"a\",\"count\":2}\n```"},
		{"chatter prefix", "Here is the JSON you asked for:\n{\"name\":\"a\",\"count\":2}"},
		{"embedded block", "The analysis follows {\"name\":\"a\",\"count\":2} hope that helps!"},
		{"nested braces in strings", `{"name":"braces } inside","count":2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := DecodeJSON[payload](tt.raw)
			if err != nil {
				t.Fatalf("DecodeJSON failed: %v", err)
			}
			if out.Count != 2 {
				t.Errorf("decoded %+v, want count 2", out)
			}
		})
	}
}

func TestDecodeJSONNestedStringEdge(t *testing.T) {
	raw := `Result: {"name":"quote \" and { brace","count":7}`
	out, err := DecodeJSON[payload](raw)
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	if out.Count != 7 {
		t.Errorf("count = %d, want 7", out.Count)
	}
}

func TestDecodeJSONMalformed(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "{broken", "```json\nnope\n```"} {
		_, err := DecodeJSON[payload](raw)
		if err == nil {
			t.Fatalf("DecodeJSON(%q) succeeded, want error", raw)
		}
		if !errors.Is(err, core.ErrMalformedResponse) {
			t.Errorf("DecodeJSON(%q) error = %v, want ErrMalformedResponse", raw, err)
		}
	}
}

func TestCleanJSONContent(t *testing.T) {
	got := CleanJSONContent("```json\n{\"a\":1}\n```")
	if got != `{"a":1}` {
		t.Errorf("CleanJSONContent fence strip = %q", got)
	}
	got = CleanJSONContent("Here is the result:\n{\"a\":1}")
	if got != `{"a":1}` {
		t.Errorf("CleanJSONContent chatter strip = %q", got)
	}
}
