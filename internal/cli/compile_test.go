package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const compileConfig = `
client: alice
role: participant
servers: [s1]
query:
  code-1: {operator: ">", value: "3", logical_operator: and}
  code-2: {operator: "<=", value: "9"}
results: {file: results.csv}
`

func TestCompileCommand_PrintsQueryString(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "alice.yaml", compileConfig)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"compile", "--config", path})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "q=code>3&code<=9\n", out.String())
}

func TestCompileCommand_BadConfigExitsWithCommandError(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.yaml", `
client: alice
role: participant
servers: [s1]
query:
  code-1: {operator: "!=", value: "3"}
results: {file: results.csv}
`)

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"compile", "--config", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCompileCommand_MissingConfigFlag(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"compile"})

	assert.Error(t, cmd.Execute())
}
