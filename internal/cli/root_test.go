package cli

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/dbc"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDBC = `BO_ 389 BMS_Status: 8 ECU1
 SG_ BatterySoC : 0|8@1+ (0.5,0) [0|100] "%" ECU2
 SG_ MysterySignal : 8|8@1+ (1,0) [0|255] "" ECU2
`

func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearCredentials(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ANTHROPIC_API_KEY", "GROQ_API_KEY", "GOOGLE_API_KEY"} {
		t.Setenv(key, "")
	}
}

func zipNames(t *testing.T, path string) []string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}
	return names
}

func TestVersionCommand(t *testing.T) {
	SetVersion("test-version")
	out, err := executeCommand("version")
	require.NoError(t, err)
	assert.Contains(t, out, "test-version")
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	require.NoError(t, err)

	for _, sub := range []string{"dbc", "engines", "prompt", "package", "generate", "config", "version"} {
		assert.Contains(t, out, sub, "help output missing subcommand %q", sub)
	}
}

func TestDBCCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vehicle.dbc", sampleDBC)

	t.Run("table", func(t *testing.T) {
		out, err := executeCommand("dbc", path, "--json=false")
		require.NoError(t, err)
		assert.Contains(t, out, "Vehicle.Powertrain.TractionBattery.StateOfCharge")
		assert.Contains(t, out, "0x185")
		assert.Contains(t, out, "2 signal(s)")
	})

	t.Run("json", func(t *testing.T) {
		out, err := executeCommand("dbc", path, "--json")
		require.NoError(t, err)

		var result dbc.Result
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Len(t, result.Signals, 2)
		assert.Equal(t, dbc.Unmapped, result.Signals[1].VSSPath)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := executeCommand("dbc", filepath.Join(t.TempDir(), "nope.dbc"))
		assert.Error(t, err)
	})
}

func TestEnginesCommand(t *testing.T) {
	clearCredentials(t)
	t.Setenv("GROQ_API_KEY", "gsk-test")

	out, err := executeCommand("engines")
	require.NoError(t, err)

	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "claude-3-haiku"):
			assert.Contains(t, line, "missing")
		case strings.HasPrefix(line, "llama-3.3-70b"):
			assert.Contains(t, line, "configured")
		}
	}
}

func TestPromptCommand(t *testing.T) {
	out, err := executeCommand("prompt", "srs", "-d", "Create a Door Lock Service", "--json")
	require.NoError(t, err)

	var p prompts.Prompt
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, prompts.StageSRS, p.Stage)
	assert.Contains(t, p.User, "Door Lock Service")
	assert.Positive(t, p.MaxTokens)

	_, err = executeCommand("prompt", "cobol", "-d", "Create a Door Lock Service")
	assert.Error(t, err)

	_, err = executeCommand("prompt", "srs", "-d", "")
	assert.Error(t, err)
}

func TestPackageCommand(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "srs.md", "REQ-1 The service shall lock doors.")
	writeFile(t, src, "cpp.cpp", "int main() { return 0; }")
	writeFile(t, src, "notes.txt", "ignored")
	out := t.TempDir()

	stdout, err := executeCommand("package", src, "-d", "Create a Door Lock Service that locks doors", "-o", out, "--name", "")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 stage file(s)")

	names := zipNames(t, filepath.Join(out, "door_lock_service_project.zip"))
	assert.Contains(t, names, "door_lock_service/docs/SRS.md")
	assert.Contains(t, names, "door_lock_service/src/main.cpp")
	assert.NotContains(t, names, "door_lock_service/notes.txt")

	_, err = executeCommand("package", t.TempDir(), "-d", "Create a Door Lock Service")
	assert.Error(t, err)
}

func TestGenerateCommand_SimulationMode(t *testing.T) {
	clearCredentials(t)
	out := t.TempDir()

	stdout, err := executeCommand("generate",
		"-d", "Create a Tire Pressure Service that monitors tire pressure",
		"-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "simulation")

	names := zipNames(t, filepath.Join(out, "tire_pressure_service_project.zip"))
	assert.Contains(t, names, "tire_pressure_service/docs/SRS.md")
	assert.Contains(t, names, "tire_pressure_service/src/main.cpp")
	assert.Contains(t, names, "tire_pressure_service/reports/misra_report.md")
}
