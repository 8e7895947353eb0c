package guide

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := GuideCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestGuide_Raw(t *testing.T) {
	out := run(t, "--raw")
	assert.Equal(t, guideContent, out)
	assert.Contains(t, out, "# bbct")
}

func TestGuide_Rendered(t *testing.T) {
	out := run(t)
	assert.Contains(t, out, "Keep track of a baseball card collection")
}
