package llm

import (
	"encoding/json"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"raw object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no lang", "```\n[1,2]\n```", `[1,2]`},
		{"prose around fence", "Sure!\n```json\n{\"a\":1}\n```\nDone.", `{"a":1}`},
		{"prose no fence", "Here you go: {\"a\":1} hope that helps", `{"a":1}`},
		{"whitespace", "  \n {\"a\":1} \n ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(ExtractJSON(tt.input))
			if got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractJSONStillParses(t *testing.T) {
	out := ExtractJSON("The plan:\n```json\n{\"milestones\": [{\"title\": \"Demo\"}]}\n```")
	var v map[string]interface{}
	if err := json.Unmarshal(out, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
}
