package llm

import (
	"regexp"
	"strings"
)

// ExtractJSON pulls a JSON payload out of a model reply, stripping markdown
// code fences and any prose around the outermost object/array. Models are
// told to output raw JSON but regularly fence it anyway.
func ExtractJSON(output string) []byte {
	s := strings.TrimSpace(output)

	if strings.HasPrefix(s, "```") {
		re := regexp.MustCompile("(?s)```(?:json)?\\s*\n?(.*?)\\s*```")
		if m := re.FindStringSubmatch(s); len(m) > 1 {
			s = strings.TrimSpace(m[1])
		}
	}

	// Trim leading/trailing prose around the outermost JSON value.
	start := strings.IndexAny(s, "{[")
	if start > 0 {
		s = s[start:]
	}
	if end := strings.LastIndexAny(s, "}]"); end >= 0 && end < len(s)-1 {
		s = s[:end+1]
	}

	return []byte(s)
}
