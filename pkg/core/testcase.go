package core

// TestCase is a generated, human-readable test scenario for an exploration.
type TestCase struct {
	ID               int            `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Steps            []string       `json:"steps"`
	ExpectedResults  []string       `json:"expected_results"`
	HasGeneratedCode bool           `json:"has_generated_code,omitempty"`
	GeneratedCode    *GeneratedCode `json:"generated_code,omitempty"`
}

// GeneratedCode is executable automation code synthesized for a test case.
type GeneratedCode struct {
	Code string `json:"code"`
}

// HasCode returns true if the flag is set or a code object is attached.
func (tc *TestCase) HasCode() bool {
	return tc.HasGeneratedCode || tc.GeneratedCode != nil
}

// Code returns the generated code, empty if none.
func (tc *TestCase) Code() string {
	if tc.GeneratedCode == nil {
		return ""
	}
	return tc.GeneratedCode.Code
}

// SetCode attaches code, creating the code object when absent.
func (tc *TestCase) SetCode(code string) {
	tc.HasGeneratedCode = true
	if tc.GeneratedCode == nil {
		tc.GeneratedCode = &GeneratedCode{Code: code}
		return
	}
	tc.GeneratedCode.Code = code
}

// FindTestCase returns a pointer into cases for the given id, nil if absent.
func FindTestCase(cases []TestCase, id int) *TestCase {
	for i := range cases {
		if cases[i].ID == id {
			return &cases[i]
		}
	}
	return nil
}
