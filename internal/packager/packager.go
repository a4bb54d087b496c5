// Package packager assembles generated stage outputs and static build files
// into a deterministic project archive.
package packager

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/prompts"
	"github.com/klauspost/compress/flate"
)

// entryTime is stamped on every archive entry so identical inputs produce
// identical bytes.
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Input is the snapshot an archive is built from.
type Input struct {
	Name        string
	Description string
	Compliance  string
	Languages   []string
	Engine      string
	Outputs     map[prompts.Stage]string
}

// Entry is one file of the archive.
type Entry struct {
	Path string `json:"path"`
	Body string `json:"-"`
	Size int    `json:"size"`
}

type stageFile struct {
	stage  prompts.Stage
	path   string
	header func(in Input) string
}

var stageFiles = []stageFile{
	{stage: prompts.StageSRS, path: "docs/SRS.md", header: func(Input) string {
		return "# Software Requirements Specification\n\n"
	}},
	{stage: prompts.StageFranca, path: "interfaces/service.fidl"},
	{stage: prompts.StageARXML, path: "interfaces/service.arxml"},
	{stage: prompts.StageCPP, path: "src/main.cpp"},
	{stage: prompts.StageKotlin, path: "android/ServiceHMI.kt"},
	{stage: prompts.StageRust, path: "rust_service/src/main.rs"},
	{stage: prompts.StagePython, path: "python/prototype.py"},
	{stage: prompts.StageTest, path: "tests/test_service.py"},
	{stage: prompts.StageMock, path: "tests/mock_service.py"},
	{stage: prompts.StageCompliance, path: "reports/misra_report.md", header: func(in Input) string {
		return fmt.Sprintf("# %s Report\n\n", in.Compliance)
	}},
}

// Layout lists archive entries in their fixed order. Boilerplate is always
// present; stage files appear only for stages with output.
func Layout(in Input) []Entry {
	if in.Name == "" {
		in.Name = ServiceName(in.Description)
	}
	root := Slug(in.Name)

	add := func(entries []Entry, p, body string) []Entry {
		return append(entries, Entry{Path: path.Join(root, p), Body: body, Size: len(body)})
	}

	entries := add(nil, "README.md", Readme(in))
	for _, f := range stageFiles {
		content, ok := in.Outputs[f.stage]
		if !ok {
			continue
		}
		if f.header != nil {
			content = f.header(in) + content
		}
		entries = add(entries, f.path, content)
	}
	entries = add(entries, "Dockerfile", Dockerfile(in.Name))
	entries = add(entries, "docker-compose.yml", Compose(in.Name))
	entries = add(entries, "CMakeLists.txt", CMakeLists(in.Name, in.Compliance))
	return entries
}

// BuildFiles returns the static build files without generating an archive.
func BuildFiles(name, compliance string) map[string]string {
	return map[string]string{
		"Dockerfile":         Dockerfile(name),
		"docker-compose.yml": Compose(name),
		"CMakeLists.txt":     CMakeLists(name, compliance),
	}
}

// Write streams the archive for in to w.
func Write(w io.Writer, in Input) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, e := range Layout(in) {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Path,
			Method:   zip.Deflate,
			Modified: entryTime,
		})
		if err != nil {
			return fmt.Errorf("failed to create archive entry %s: %w", e.Path, err)
		}
		if _, err := io.WriteString(fw, e.Body); err != nil {
			return fmt.Errorf("failed to write archive entry %s: %w", e.Path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// Archive builds the archive in memory and returns it with its file name.
func Archive(in Input) ([]byte, string, error) {
	if in.Name == "" {
		in.Name = ServiceName(in.Description)
	}
	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ArchiveName(in.Name), nil
}
