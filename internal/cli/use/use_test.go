package use

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbct/bbct/internal/cli"
	clitest "github.com/bbct/bbct/internal/testutil/cli"
)

func TestUseDatabase_Export(t *testing.T) {
	a := clitest.SetupCLITest(t)

	stdout, stderr, err := clitest.ExecuteCommand(t, a, UseCmd(), "database", "trades")
	require.NoError(t, err)
	assert.Equal(t, "export BBCT_DATABASE=trades\n", stdout)
	assert.Contains(t, stderr, "Now using database trades")
}

func TestUseDatabase_Clear(t *testing.T) {
	a := clitest.SetupCLITest(t)

	stdout, _, err := clitest.ExecuteCommand(t, a, UseCmd(), "database", "--clear")
	require.NoError(t, err)
	assert.Equal(t, "unset BBCT_DATABASE\n", stdout)
}

func TestUseDatabase_DryRun(t *testing.T) {
	a := clitest.SetupCLITest(t)

	stdout, stderr, err := clitest.ExecuteCommand(t, a, UseCmd(), "database", "trades", "--dry-run")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Would set BBCT_DATABASE=trades")
}

func TestUseDatabase_Show(t *testing.T) {
	a := clitest.SetupCLITest(t)

	stdout, _, err := clitest.ExecuteCommand(t, a, UseCmd(), "database", "--show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Current database: bbct_test")
	assert.Contains(t, stdout, "bbct_test.db")
}

func TestUseDatabase_InvalidName(t *testing.T) {
	a := clitest.SetupCLITest(t)

	for _, args := range [][]string{{"database"}, {"database", "../etc"}} {
		_, _, err := clitest.ExecuteCommand(t, a, UseCmd(), args...)
		require.Error(t, err)
		assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
	}
}
