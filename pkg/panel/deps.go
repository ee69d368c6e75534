package panel

import (
	"context"

	"github.com/devicelab-dev/exploration-panel/pkg/api"
	"github.com/devicelab-dev/exploration-panel/pkg/core"
	"github.com/devicelab-dev/exploration-panel/pkg/history"
)

// Service is the exploration service as seen by the controller.
// *api.Client implements it.
type Service interface {
	ListExplorations(ctx context.Context) ([]core.Exploration, error)
	GetExploration(ctx context.Context, id string) (*core.Exploration, error)
	DeleteExploration(ctx context.Context, id string) (*api.StatusResponse, error)
	GenerateTests(ctx context.Context, siteURL string) ([]core.TestCase, error)
	TestCasesWithCode(ctx context.Context, explorationID string) (*api.TestCasesResponse, error)
	GenerateSimpleCode(ctx context.Context, testID int, siteURL string) (*api.CodeResponse, error)
	GenerateCode(ctx context.Context, testID int, siteURL string) (*api.CodeResponse, error)
	ExecuteSimpleTest(ctx context.Context, req api.SimpleTestRequest) (*core.ExecutionResult, error)
	ExecuteTest(ctx context.Context, req api.TestRequest) (*core.ExecutionResult, error)
}

// Confirmer asks the user a blocking yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, question string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, question string) bool {
	return f(ctx, question)
}

// AlwaysConfirm answers yes to every question.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) bool { return true })

// Clipboard receives copied code.
type Clipboard interface {
	WriteText(text string) error
}

// Recorder journals terminal execution outcomes.
// *history.Repository implements it.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (*history.Entry, error)
}
