package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeTool behaves like a small build tool:
//
//	package             writes target/out.txt
//	--generate pom.xml  writes buildfile, fails without pom.xml
//	fail                prints to stderr and exits 1
//	sleep               sleeps for 30 seconds
//	clean               counts itself in .cleaned, removes output,
//	                    fails when .fail-clean exists
const fakeTool = `#!/bin/sh
case "$*" in
  package)
    mkdir -p target && echo built > target/out.txt && echo "Packaging proj"
    ;;
  "--generate pom.xml")
    [ -f pom.xml ] || { echo "no pom.xml here" >&2; exit 1; }
    echo "define 'proj'" > buildfile
    ;;
  fail)
    echo "BUILD FAILED" >&2
    exit 1
    ;;
  sleep)
    sleep 30
    ;;
  clean)
    echo clean >> .cleaned
    if [ -f .fail-clean ]; then echo "clean refused" >&2; exit 1; fi
    rm -rf target buildfile
    ;;
  *)
    echo "unknown command: $*" >&2
    exit 2
    ;;
esac
`

// TestFixture is a suite directory holding a fake tool, one directory per
// case and a suite file.
//
//	tb.TempDir()/
//	├── tool.sh
//	├── suite.yaml
//	└── <case id>/
type TestFixture struct {
	Dir      string
	ToolPath string
	tb       testing.TB
}

// NewTestFixture creates a fixture directory with an executable fake tool.
func NewTestFixture(tb testing.TB) *TestFixture {
	tb.Helper()

	dir := tb.TempDir()
	toolPath := filepath.Join(dir, "tool.sh")
	if err := os.WriteFile(toolPath, []byte(fakeTool), 0755); err != nil {
		tb.Fatalf("Failed to write fake tool: %v", err)
	}

	return &TestFixture{
		Dir:      dir,
		ToolPath: toolPath,
		tb:       tb,
	}
}

// AddCase creates the working directory of a case with the given files.
func (f *TestFixture) AddCase(id string, files map[string]string) string {
	f.tb.Helper()

	caseDir := filepath.Join(f.Dir, id)
	if err := os.MkdirAll(caseDir, 0755); err != nil {
		f.tb.Fatalf("Failed to create case dir: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(caseDir, name), []byte(content), 0644); err != nil {
			f.tb.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return caseDir
}

// WriteSuite writes suite.yaml and returns its path. A suite without a
// tool line gets the fake tool.
func (f *TestFixture) WriteSuite(content string) string {
	f.tb.Helper()

	if !strings.Contains(content, "tool:") {
		content = "tool: ./tool.sh\n" + content
	}
	path := filepath.Join(f.Dir, "suite.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		f.tb.Fatalf("Failed to write suite: %v", err)
	}
	return path
}

// CleanCount returns how many times clean ran in the case directory.
func (f *TestFixture) CleanCount(id string) int {
	f.tb.Helper()

	data, err := os.ReadFile(filepath.Join(f.Dir, id, ".cleaned"))
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		f.tb.Fatalf("Failed to read clean counter: %v", err)
	}
	return strings.Count(string(data), "clean\n")
}
