// Package handler provides command execution abstraction to reduce boilerplate
package handler

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bbct/bbct/internal/cli"
)

// Handler defines the interface for command execution
type Handler interface {
	// Execute runs the command with parsed arguments
	Execute(ctx context.Context, args *Arguments) (any, error)
}

// Func adapts a function to Handler
type Func func(ctx context.Context, args *Arguments) (any, error)

// Execute calls f
func (f Func) Execute(ctx context.Context, args *Arguments) (any, error) {
	return f(ctx, args)
}

// Arguments captures parsed CLI arguments and flags
type Arguments struct {
	Flags map[string]any
	Args  []string
	cmd   *cobra.Command
}

// GetCmd returns the cobra command for access to flag parsing utilities
func (a *Arguments) GetCmd() *cobra.Command {
	return a.cmd
}

// Parser returns a flag parser over the command
func (a *Arguments) Parser() *FlagParser {
	return NewFlagParser(a.cmd)
}

// Suggester is implemented by handlers that can hint at a fix for an error
type Suggester interface {
	Suggest(err error) string
}

// Command wraps common command execution logic.
// Errors are printed through the formatter and returned as *cli.ExitError.
func Command(h Handler, parseFlags func(*cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		formatter := cli.FormatterFor(cmd)

		fail := func(err error) error {
			suggestion := ""
			if s, ok := h.(Suggester); ok {
				suggestion = s.Suggest(err)
			}
			if fmtErr := formatter.ErrorWithSuggestion(cli.ErrorCode(err), err.Error(), suggestion); fmtErr != nil {
				slog.Error("failed to format error", "error", fmtErr)
			}
			return &cli.ExitError{Code: cli.ExitCode(err), Err: err, Reported: true}
		}

		if err := parseFlags(cmd); err != nil {
			return fail(err)
		}

		arguments := &Arguments{
			Flags: parseFlagsToMap(cmd),
			Args:  args,
			cmd:   cmd,
		}

		result, err := h.Execute(ctx, arguments)
		if err != nil {
			return fail(err)
		}
		if result == nil {
			return nil
		}

		return formatter.Success(result)
	}
}

// SimpleCommand wraps command execution with minimal setup
// Use this for commands that don't need complex flag parsing
func SimpleCommand(h Handler) func(*cobra.Command, []string) error {
	return Command(h, func(cmd *cobra.Command) error {
		return nil
	})
}

// parseFlagsToMap converts explicitly set cobra flags to a map
func parseFlagsToMap(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)

	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Value.Type() {
		case "string":
			if v, err := cmd.Flags().GetString(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "int":
			if v, err := cmd.Flags().GetInt(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "int64":
			if v, err := cmd.Flags().GetInt64(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "bool":
			if v, err := cmd.Flags().GetBool(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "stringSlice":
			if v, err := cmd.Flags().GetStringSlice(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "int64Slice":
			if v, err := cmd.Flags().GetInt64Slice(f.Name); err == nil {
				flags[f.Name] = v
			}
		default:
			slog.Debug("unsupported flag type", "flag", f.Name, "type", f.Value.Type())
		}
	})

	return flags
}

// Has reports whether the flag was set on the command line
func (a *Arguments) Has(name string) bool {
	_, ok := a.Flags[name]
	return ok
}

// GetString retrieves a string flag with default
func (a *Arguments) GetString(name string, defaultVal string) string {
	if val, ok := a.Flags[name].(string); ok {
		return val
	}
	return defaultVal
}

// GetInt retrieves an int flag with default
func (a *Arguments) GetInt(name string, defaultVal int) int {
	if val, ok := a.Flags[name].(int); ok {
		return val
	}
	return defaultVal
}

// GetBool retrieves a bool flag
func (a *Arguments) GetBool(name string) bool {
	val, _ := a.Flags[name].(bool)
	return val
}

// GetStringSlice retrieves a string slice flag with default
func (a *Arguments) GetStringSlice(name string, defaultVal []string) []string {
	if val, ok := a.Flags[name].([]string); ok {
		return val
	}
	return defaultVal
}

// GetInt64Slice retrieves an int64 slice flag with default
func (a *Arguments) GetInt64Slice(name string, defaultVal []int64) []int64 {
	if val, ok := a.Flags[name].([]int64); ok {
		return val
	}
	return defaultVal
}
