package commands

import (
	"io"

	"kzone/internal/config"
	"kzone/internal/exitcode"
	"kzone/internal/output"
	"kzone/internal/service"
)

// emit prints v as the command's JSON document.
func emit(out io.Writer, v any) int {
	if err := output.JSON(out, v); err != nil {
		return fail(out, service.Validationf("encode output: %v", err))
	}
	return exitcode.Success
}

// fail prints the error envelope and returns the failure exit code.
func fail(out io.Writer, err error) int {
	output.Error(out, err)
	return exitcode.Failure
}

// requireBoard returns the effective board or a config error.
func requireBoard(cfg *config.Config) (string, error) {
	board, err := cfg.RequireBoard()
	if err != nil {
		return "", service.ConfigError(err)
	}
	return board, nil
}

// noArgs rejects stray positional arguments; every value is a flag.
func noArgs(args []string) error {
	if len(args) > 0 {
		return service.Validationf("unexpected argument: %s", args[0])
	}
	return nil
}
