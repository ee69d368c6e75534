package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExecutionResult is the body returned by both execution endpoints.
// The simple endpoint sends output/error as lists; the legacy endpoint
// may send them as plain strings.
type ExecutionResult struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Logs    Lines  `json:"logs,omitempty"`
	Output  Lines  `json:"output,omitempty"`
	Errors  Lines  `json:"errors,omitempty"`
	Error   Lines  `json:"error,omitempty"`
}

// LogLines returns logs if present, otherwise output, skipping blank lines.
func (r *ExecutionResult) LogLines() []string {
	if len(r.Logs) > 0 {
		return r.Logs.NonBlank()
	}
	return r.Output.NonBlank()
}

// ErrorLines returns errors if present, otherwise error, skipping blank lines.
func (r *ExecutionResult) ErrorLines() []string {
	if len(r.Errors) > 0 {
		return r.Errors.NonBlank()
	}
	return r.Error.NonBlank()
}

// Lines is a list of text lines that also decodes from a single JSON string.
type Lines []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *Lines) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*l = nil
			return nil
		}
		*l = strings.Split(s, "\n")
		return nil
	}
	var list []interface{}
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("lines: expected string or list: %w", err)
	}
	out := make(Lines, 0, len(list))
	for _, v := range list {
		switch val := v.(type) {
		case string:
			out = append(out, val)
		case nil:
			out = append(out, "")
		case map[string]interface{}:
			if msg, ok := val["message"].(string); ok {
				out = append(out, msg)
				continue
			}
			raw, _ := json.Marshal(val)
			out = append(out, string(raw))
		default:
			out = append(out, fmt.Sprint(val))
		}
	}
	*l = out
	return nil
}

// NonBlank returns the lines that are not empty after trimming.
func (l Lines) NonBlank() []string {
	var out []string
	for _, line := range l {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
