package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/packager"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/prompts"
	"github.com/spf13/cobra"
)

var (
	packageSel  selection
	packageName string
	packageOut  string
)

var packageCmd = &cobra.Command{
	Use:   "package <dir>",
	Short: "Package stage outputs from a directory into a project archive",
	Long: `Package stage outputs into a project archive.

Each file in <dir> whose base name is a stage id (srs.md, cpp.cpp,
misra.md, ...) becomes that stage's output. Other files are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputs, err := readOutputs(args[0])
		if err != nil {
			return err
		}
		if len(outputs) == 0 {
			return fmt.Errorf("no stage outputs found in %s", args[0])
		}

		in := packager.Input{
			Name:        packageName,
			Description: packageSel.description,
			Compliance:  packageSel.compliance,
			Languages:   packageSel.languages,
			Engine:      "studioctl",
			Outputs:     outputs,
		}
		if in.Name == "" {
			in.Name = packager.ServiceName(in.Description)
		}

		path, size, err := writeArchive(in, packageOut)
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %s (%d bytes, %d stage file(s))\n", path, size, len(outputs))
		return nil
	},
}

// readOutputs maps stage ids to file contents for every matching file in dir.
func readOutputs(dir string) (map[prompts.Stage]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory: %w", err)
	}

	outputs := make(map[prompts.Stage]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		stage, err := prompts.ParseStage(base)
		if err != nil {
			continue
		}
		if _, dup := outputs[stage]; dup {
			return nil, fmt.Errorf("more than one file for stage %s", stage)
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		outputs[stage] = string(data)
	}
	return outputs, nil
}

// writeArchive writes the archive into outDir (the working directory when
// empty) and returns its path and size.
func writeArchive(in packager.Input, outDir string) (string, int, error) {
	data, filename, err := packager.Archive(in)
	if err != nil {
		return "", 0, err
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(outDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("writing archive: %w", err)
	}
	return path, len(data), nil
}

func init() {
	packageSel.register(packageCmd)
	packageCmd.Flags().StringVar(&packageName, "name", "", "service name (derived from the description when empty)")
	packageCmd.Flags().StringVarP(&packageOut, "out", "o", "", "directory the archive is written to")
}
