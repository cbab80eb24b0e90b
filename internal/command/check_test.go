package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeycumines/btport/internal/config"
	"github.com/joeycumines/btport/internal/nodes"
	"github.com/stretchr/testify/require"
)

func writeCheckFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.nodes")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCheckCommand_Valid(t *testing.T) {
	t.Parallel()

	path := writeCheckFile(t, `# patrol
Sleep msec=250

ScriptCondition code="battery > 20"
SetBlackboard value=3 output_key={level}
Parallel	success_count=2 name=both
`)
	stdout, _, err := execute(t, NewCheckCommand(config.NewConfig(), nodes.DefaultManifests()), path)
	require.NoError(t, err)
	require.Equal(t, "4 node(s) checked, 0 error(s)\n", stdout)
}

const invalidNodes = `Sleep msec=abc
Nope x=1
Parallel success_count=x failure_count=y bogus=1
Sleep msec="unterminated
`

func TestCheckCommand_ReportsEveryError(t *testing.T) {
	t.Parallel()

	path := writeCheckFile(t, invalidNodes)
	stdout, _, err := execute(t, NewCheckCommand(config.NewConfig(), nodes.DefaultManifests()), path)
	require.ErrorIs(t, err, ErrCheckFailed)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 7)
	require.Equal(t, path+":4: attribute \"msec\": bad quoted value", lines[0])
	require.True(t, strings.HasPrefix(lines[1], path+":1: Sleep: port \"msec\""))
	require.Equal(t, path+":2: Nope: unknown node type \"Nope\"", lines[2])
	require.Contains(t, lines[3], "Parallel")
	require.Contains(t, lines[3], `"bogus"`)
	require.Contains(t, lines[4], `"failure_count"`)
	require.Contains(t, lines[5], `"success_count"`)
	require.Equal(t, "3 node(s) checked, 6 error(s)", lines[6])
}

func TestCheckCommand_MaxErrors(t *testing.T) {
	t.Parallel()

	path := writeCheckFile(t, invalidNodes)
	stdout, _, err := execute(t, NewCheckCommand(config.NewConfig(), nodes.DefaultManifests()), "-max-errors", "2", path)
	require.ErrorIs(t, err, ErrCheckFailed)
	require.Contains(t, stdout, "... 4 more error(s) not shown\n")

	cfg := config.NewConfig()
	cfg.SetCommandOption("check", "max-errors", "5")
	stdout, _, err = execute(t, NewCheckCommand(cfg, nodes.DefaultManifests()), path)
	require.ErrorIs(t, err, ErrCheckFailed)
	require.Contains(t, stdout, "... 1 more error(s) not shown\n")

	cfg.SetCommandOption("check", "max-errors", "lots")
	_, _, err = execute(t, NewCheckCommand(cfg, nodes.DefaultManifests()), path)
	require.ErrorContains(t, err, "max-errors")
}

func TestCheckCommand_Arguments(t *testing.T) {
	t.Parallel()

	cmd := NewCheckCommand(config.NewConfig(), nodes.DefaultManifests())
	_, _, err := execute(t, cmd)
	require.ErrorIs(t, err, ErrUsage)

	_, _, err = execute(t, cmd, filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseNodeLine(t *testing.T) {
	t.Parallel()

	n, err := parseNodeLine(`Script code="x := 1 + 2" note="tab\there" empty=`)
	require.NoError(t, err)
	require.Equal(t, "Script", n.id)
	require.Equal(t, map[string]string{"code": "x := 1 + 2", "note": "tab\there", "empty": ""}, n.attrs)

	n, err = parseNodeLine("AlwaysSuccess")
	require.NoError(t, err)
	require.Empty(t, n.attrs)

	for _, bad := range []string{
		"Sleep msec",
		"Sleep =1",
		"Sleep msec=1 msec=2",
		`Sleep msec="1"x`,
	} {
		_, err := parseNodeLine(bad)
		require.Error(t, err, bad)
	}
}
