package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/dgraph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringSliceFlag collects every occurrence of a repeatable flag, in the
// order given on the command line.
type stringSliceFlag []string

func (s *stringSliceFlag) String() string { return strings.Join(*s, ",") }

func (s *stringSliceFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating if the program should exit cleanly, or
// an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("dgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
dgraph - a dependency-graph evaluator for serializable business logic.

Usage:
  dgraph --graph-definitions PATH [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	var graphDefsFlag, templatesFlag stringSliceFlag
	flagSet.Var(&graphDefsFlag, "graph-definitions", "Path to a node declaration file or directory (repeatable).")
	flagSet.Var(&templatesFlag, "templates", "Path to a template declaration file or directory (repeatable).")
	inputsFlag := flagSet.String("inputs", "", "Path to a JSON file of named input values.")
	echoInputsFlag := flagSet.Bool("echo-inputs", false, "Include the synthetic inputs node in the output state.")
	echoTemplatesFlag := flagSet.Bool("echo-templates", false, "Include template graph nodes in the output state.")
	logUndefinedFlag := flagSet.Bool("log-undefined-paths", false, "Log still-absent nodes on each step and reads of missing nodes.")
	logLiteralsFlag := flagSet.Bool("log-literals", false, "Log every literal value inferred during preprocessing.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if len(graphDefsFlag) == 0 {
		slog.Debug("No graph definitions provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		GraphDefinitions:  graphDefsFlag,
		Templates:         templatesFlag,
		InputsPath:        *inputsFlag,
		EchoInputs:        *echoInputsFlag,
		EchoTemplates:     *echoTemplatesFlag,
		LogUndefinedPaths: *logUndefinedFlag,
		LogLiterals:       *logLiteralsFlag,
		LogFormat:         logFormat,
		LogLevel:          logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
