package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"regen/internal/driver"
	"regen/internal/source"
	"regen/internal/ui"
)

type lowerOutcome struct {
	fileSet *source.FileSet
	results []driver.FileResult
	err     error
}

func runLowerWithUI(ctx context.Context, title string, files []string, req *driver.Request) (*source.FileSet, []driver.FileResult, error) {
	if req == nil {
		return nil, nil, fmt.Errorf("missing lower request")
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lowerOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = driver.ChannelSink{Ch: events}
		fs, res, err := driver.LowerFiles(ctx, &reqCopy)
		outcomeCh <- lowerOutcome{fileSet: fs, results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
