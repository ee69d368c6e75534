package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Exploration is a saved crawl of a website, as returned by the exploration service.
type Exploration struct {
	ID        string           `json:"_id"`
	Name      string           `json:"name,omitempty"`
	Domain    string           `json:"domain,omitempty"`
	URL       string           `json:"url"`
	CreatedAt Timestamp        `json:"created_at"`
	Data      *ExplorationData `json:"data,omitempty"`
	Summary   *Summary         `json:"summary,omitempty"`
}

// ExplorationData holds the crawled page structure keyed by page URL.
type ExplorationData struct {
	Pages map[string]json.RawMessage `json:"pages,omitempty"`
}

// Summary flags what has been derived from an exploration so far.
type Summary struct {
	HasTestCases     bool `json:"has_test_cases"`
	HasGeneratedCode bool `json:"has_generated_code"`
	TestCaseCount    int  `json:"test_case_count"`
}

// DisplayName returns the name, then the domain, then fallback.
func (e *Exploration) DisplayName(fallback string) string {
	if e.Name != "" {
		return e.Name
	}
	if e.Domain != "" {
		return e.Domain
	}
	return fallback
}

// PageCount returns the number of crawled pages, zero when the structure is absent.
func (e *Exploration) PageCount() int {
	if e.Data == nil {
		return 0
	}
	return len(e.Data.Pages)
}

// HasTestCases reports the summary flag, false when the summary is absent.
func (e *Exploration) HasTestCases() bool {
	return e.Summary != nil && e.Summary.HasTestCases
}

// HasGeneratedCode reports the summary flag, false when the summary is absent.
func (e *Exploration) HasGeneratedCode() bool {
	return e.Summary != nil && e.Summary.HasGeneratedCode
}

// TestCaseCount returns the summary count, zero when the summary is absent.
func (e *Exploration) TestCaseCount() int {
	if e.Summary == nil {
		return 0
	}
	return e.Summary.TestCaseCount
}

// Timestamp accepts the ISO-8601 variants the service emits, with or without a zone.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", raw)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// Display formats the timestamp for the panel, empty when unset.
func (t Timestamp) Display() string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02/01/2006, 15:04:05")
}
