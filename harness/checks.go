package harness

import (
	"github.com/stretchr/testify/require"

	"github.com/renato0307/toolprobe/internal/checks"
)

// FileExists fails unless path, relative to the case directory, exists.
func FileExists(path string) Check { return checks.FileExists(path) }

// FileNotExists fails if path exists.
func FileNotExists(path string) Check { return checks.FileNotExists(path) }

// FileContains fails unless the file matches the regular expression pattern.
func FileContains(path, pattern string) Check { return checks.FileContains(path, pattern) }

// FileDoesNotContain fails if the file matches the regular expression pattern.
func FileDoesNotContain(path, pattern string) Check { return checks.FileDoesNotContain(path, pattern) }

// ArchiveContainsEntries fails unless the zip, jar or war archive at path
// holds every entry.
func ArchiveContainsEntries(path string, entries ...string) Check {
	return checks.ArchiveContainsEntries(path, entries...)
}

// ArchiveDoesNotContainEntries fails if the archive holds any of entries.
func ArchiveDoesNotContainEntries(path string, entries ...string) Check {
	return checks.ArchiveDoesNotContainEntries(path, entries...)
}

// OutputContains fails unless the combined output contains substr.
func OutputContains(substr string) Check { return checks.OutputContains(substr) }

// All runs checks in order and stops at the first failure.
func All(cs ...Check) Check { return checks.All(cs...) }

// Assert adapts a block of testify assertions into a Check.
func Assert(fn func(t require.TestingT, result *RunResult, dir string)) Check {
	return checks.Assert(fn)
}
