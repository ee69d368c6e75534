package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/devicelab-dev/exploration-panel/pkg/panel"
	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

type listLoadedMsg struct {
	count int
	err   error
}

type explorationOpenedMsg struct {
	id  string
	err error
}

type explorationDeletedMsg struct {
	id  string
	err error
}

type testCasesMsg struct {
	count int
	err   error
}

type codeGeneratedMsg struct {
	testID int
	err    error
}

type executedMsg struct {
	exec *panel.Execution
	err  error
}

type driverVerifiedMsg struct {
	block *view.LogBlock
	err   error
}

func loadListCmd(ctx context.Context, ctrl *panel.Controller, match panel.MatchFunc) tea.Cmd {
	return func() tea.Msg {
		list, err := ctrl.LoadListWhere(ctx, match)
		return listLoadedMsg{count: len(list), err: err}
	}
}

func openExplorationCmd(ctx context.Context, ctrl *panel.Controller, id string) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.OpenExploration(ctx, id)
		return explorationOpenedMsg{id: id, err: err}
	}
}

func deleteExplorationCmd(ctx context.Context, ctrl *panel.Controller, id string) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.DeleteExploration(ctx, id)
		return explorationDeletedMsg{id: id, err: err}
	}
}

func generateTestCasesCmd(ctx context.Context, ctrl *panel.Controller) tea.Cmd {
	return func() tea.Msg {
		cases, err := ctrl.GenerateTestCases(ctx)
		return testCasesMsg{count: len(cases), err: err}
	}
}

func showTestCasesCmd(ctx context.Context, ctrl *panel.Controller) tea.Cmd {
	return func() tea.Msg {
		cases, err := ctrl.ShowTestCases(ctx)
		return testCasesMsg{count: len(cases), err: err}
	}
}

func generateCodeCmd(ctx context.Context, ctrl *panel.Controller, testID int) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.GenerateCode(ctx, testID)
		return codeGeneratedMsg{testID: testID, err: err}
	}
}

func executeCmd(ctx context.Context, ctrl *panel.Controller, testID int) tea.Cmd {
	return func() tea.Msg {
		exec, err := ctrl.Execute(ctx, testID)
		return executedMsg{exec: exec, err: err}
	}
}

func verifyDriverCmd(ctx context.Context, ctrl *panel.Controller) tea.Cmd {
	return func() tea.Msg {
		block, err := ctrl.VerifyDriver(ctx)
		return driverVerifiedMsg{block: block, err: err}
	}
}
