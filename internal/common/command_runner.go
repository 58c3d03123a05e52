package common

import (
	"context"
	"fmt"
	"io"

	"resumeforge/internal/errors"
)

// CreateInputFunc defines how to create the operation input from file contents.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc is the work a file-based command performs.
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// Runner holds what every file-based command needs
type Runner struct {
	Logger      *errors.Logger
	Stdout      io.Writer
	MaxFileSize int64
}

// RunFileCommand reads the input files, runs op and formats its result.
func RunFileCommand[Input, Output any](
	ctx context.Context,
	r Runner,
	cmdConfig CommandConfig,
	files []string,
	createInput CreateInputFunc[Input],
	op OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	fileProcessor := NewFileProcessor(r.Logger, r.MaxFileSize)
	outputHandler := NewOutputHandler(r.Stdout, r.Logger)

	contents, err := fileProcessor.ValidateAndReadFiles(files...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	result, err := op(ctx, input)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
