package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joeycumines/btport/internal/nodes"
	"github.com/stretchr/testify/require"
)

func TestEvalCommand(t *testing.T) {
	t.Parallel()

	newCmd := func() *EvalCommand { return NewEvalCommand(nil, nodes.DefaultManifests()) }

	stdout, _, err := execute(t, newCmd(), "-e", `require('btport:bt').status.RUNNING`)
	require.NoError(t, err)
	require.Equal(t, "1\n", stdout)

	stdout, _, err = execute(t, newCmd(), "-e", `print('msec is', require('btport:bt').ports('Sleep')[0].type)`)
	require.NoError(t, err)
	require.Equal(t, "msec is uint\n", stdout)

	path := filepath.Join(t.TempDir(), "probe.js")
	require.NoError(t, os.WriteFile(path, []byte(`
const bt = require('btport:bt');
bt.isCompleted('SUCCESS') && !bt.isActive('IDLE');
`), 0644))
	stdout, _, err = execute(t, newCmd(), path)
	require.NoError(t, err)
	require.Equal(t, "true\n", stdout)
}

func TestEvalCommand_Errors(t *testing.T) {
	t.Parallel()

	newCmd := func() *EvalCommand { return NewEvalCommand(nil, nodes.DefaultManifests()) }

	_, _, err := execute(t, newCmd(), "-e", `require('btport:bt').convert('int', 'x')`)
	require.ErrorContains(t, err, "eval:")

	_, _, err = execute(t, newCmd(), "-e", `(`)
	require.Error(t, err)

	_, _, err = execute(t, newCmd())
	require.ErrorIs(t, err, ErrUsage)

	_, _, err = execute(t, newCmd(), "-e", "1", "file.js")
	require.ErrorIs(t, err, ErrUsage)

	_, _, err = execute(t, newCmd(), filepath.Join(t.TempDir(), "missing.js"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
