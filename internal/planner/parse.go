package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// StripFences removes a surrounding markdown code fence (``` or ```json).
// Prose before the first '{' is dropped only when it holds no '[', so a
// top-level array is never cut down to one of its elements.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"```json", "```JSON", "```"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))

	if strings.HasPrefix(s, "{") {
		return s
	}
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start >= 0 && end > start && !strings.Contains(s[:start], "[") {
		return s[start : end+1]
	}
	return s
}

// ParsePlan turns the model's raw text into a validated, normalized partial
// document. Any failure is returned as an error; the caller decides how to
// report it.
func ParsePlan(text string) (domain.Partial, error) {
	body := StripFences(text)
	if body == "" {
		return domain.Partial{}, errors.New("empty response")
	}
	if !strings.HasPrefix(body, "{") {
		return domain.Partial{}, errors.New("response is not a JSON object")
	}

	dec := json.NewDecoder(strings.NewReader(body))
	var p domain.Partial
	if err := dec.Decode(&p); err != nil {
		return domain.Partial{}, fmt.Errorf("decode plan: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return domain.Partial{}, errors.New("response has data after the JSON object")
	}
	if p.IsEmpty() {
		return domain.Partial{}, errors.New("plan has no recognised fields")
	}

	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return domain.Partial{}, err
	}
	return p, nil
}
