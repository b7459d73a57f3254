package checks

import (
	"archive/zip"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/renato0307/toolprobe/internal/domain"
)

// listedEntries caps how many present entries a failure message shows
const listedEntries = 20

// ArchiveContainsEntries opens the zip-format archive at path (zip, jar, war,
// ear) and fails unless every entry is present. All missing entries are
// reported at once, followed by what the archive does contain.
func ArchiveContainsEntries(path string, entries ...string) domain.Check {
	return func(_ *domain.RunResult, dir string) error {
		full := Resolve(dir, path)
		names, err := ArchiveEntries(full)
		if err != nil {
			return err
		}

		var missing []string
		for _, entry := range entries {
			if _, ok := names[strings.TrimPrefix(entry, "/")]; !ok {
				missing = append(missing, entry)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("archive %s is missing entries: %s (contains %d: %s)",
				full, strings.Join(missing, ", "), len(names), listing(sortedNames(names)))
		}
		return nil
	}
}

// ArchiveDoesNotContainEntries fails if any of entries is present in the archive.
func ArchiveDoesNotContainEntries(path string, entries ...string) domain.Check {
	return func(_ *domain.RunResult, dir string) error {
		full := Resolve(dir, path)
		names, err := ArchiveEntries(full)
		if err != nil {
			return err
		}

		var present []string
		for _, entry := range entries {
			if _, ok := names[strings.TrimPrefix(entry, "/")]; ok {
				present = append(present, entry)
			}
		}
		if len(present) > 0 {
			return fmt.Errorf("archive %s unexpectedly contains: %s", full, strings.Join(present, ", "))
		}
		return nil
	}
}

// ArchiveEntries returns the set of entry names in a zip-format archive.
// Directory entries are included with their trailing slash.
func ArchiveEntries(path string) (map[string]struct{}, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer reader.Close()

	names := make(map[string]struct{}, len(reader.File))
	for _, f := range reader.File {
		names[f.Name] = struct{}{}
	}
	return names, nil
}

// SortedEntries is ArchiveEntries as a sorted slice, handy for diagnostics.
func SortedEntries(path string) ([]string, error) {
	names, err := ArchiveEntries(path)
	if err != nil {
		return nil, err
	}
	return sortedNames(names), nil
}

func sortedNames(names map[string]struct{}) []string {
	return slices.Sorted(maps.Keys(names))
}

func listing(entries []string) string {
	if len(entries) == 0 {
		return "nothing"
	}
	if len(entries) > listedEntries {
		return strings.Join(entries[:listedEntries], ", ") + ", ..."
	}
	return strings.Join(entries, ", ")
}
