package api

import "github.com/devicelab-dev/exploration-panel/pkg/core"

// Endpoint paths of the exploration service.
const (
	PathExplorations        = "/api/explorations"
	PathGenerateTests       = "/api/generate-tests"
	PathGenerateSimpleCode  = "/api/generate-simple-code/"
	PathGenerateCode        = "/api/generate-code/"
	PathExecuteSimpleTest   = "/api/execute-simple-test"
	PathExecuteTest         = "/api/execute-test"
	suffixTestCasesWithCode = "/test-cases-with-code"
)

// ExplorationList is the body of GET /api/explorations.
type ExplorationList struct {
	Explorations []core.Exploration `json:"explorations"`
}

// StatusResponse is the body of DELETE /api/explorations/{id}.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// URLRequest is the body shared by test and code generation.
type URLRequest struct {
	URL string `json:"url"`
}

// TestCasesResponse is the body of GET /api/explorations/{id}/test-cases-with-code.
type TestCasesResponse struct {
	Status    string          `json:"status"`
	TestCases []core.TestCase `json:"test_cases"`
}

// CodeResponse is the body of both code generation endpoints.
type CodeResponse struct {
	TestCaseID int    `json:"test_case_id,omitempty"`
	Code       string `json:"code"`
}

// SimpleTestRequest is the body of POST /api/execute-simple-test.
// ChromeDriverPath is omitted when empty: the service treats an absent
// field differently from an empty one.
type SimpleTestRequest struct {
	TestCode         string `json:"test_code"`
	ChromeDriverPath string `json:"chrome_driver_path,omitempty"`
}

// TestRequest is the body of the legacy POST /api/execute-test.
type TestRequest struct {
	Code             string `json:"code"`
	TestCaseID       int    `json:"test_case_id"`
	ChromeDriverPath string `json:"chrome_driver_path,omitempty"`
}
