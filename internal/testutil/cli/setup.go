// Package cli holds helpers for command tests. It is separate from testutil
// so that packages imported by app can still use testutil.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"

	"github.com/bbct/bbct/internal/app"
	bbctcli "github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/config"
	"github.com/bbct/bbct/internal/database"
	"github.com/bbct/bbct/internal/logging"
)

// SetupCLITest creates an app over a private in-memory store without a daemon
func SetupCLITest(t *testing.T) *app.App {
	t.Helper()

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Database = database.TestName

	a, err := app.New(context.Background(), cfg,
		app.WithoutDaemon(),
		app.WithDatabasePath(database.MemoryPath),
		app.WithLogger(logging.Discard()),
	)
	if err != nil {
		t.Fatalf("Failed to create test app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// ExecuteCommand runs cmd with args against a and returns what it wrote to stdout and stderr
func ExecuteCommand(t *testing.T, a *app.App, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(bbctcli.WithApp(context.Background(), a))
	return stdout.String(), stderr.String(), err
}

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}
