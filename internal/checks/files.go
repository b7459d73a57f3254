package checks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/renato0307/toolprobe/internal/domain"
)

// Resolve returns path joined to dir unless path is already absolute.
func Resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// FileExists fails unless path exists.
func FileExists(path string) domain.Check {
	return func(_ *domain.RunResult, dir string) error {
		full := Resolve(dir, path)
		if _, err := os.Stat(full); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("expected %s to exist", full)
			}
			return fmt.Errorf("failed to stat %s: %w", full, err)
		}
		return nil
	}
}

// FileNotExists fails if path exists.
func FileNotExists(path string) domain.Check {
	return func(_ *domain.RunResult, dir string) error {
		full := Resolve(dir, path)
		if _, err := os.Stat(full); err == nil {
			return fmt.Errorf("expected %s not to exist", full)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", full, err)
		}
		return nil
	}
}

// FileContains fails unless the file content matches pattern (a regexp).
func FileContains(path, pattern string) domain.Check {
	re, reErr := regexp.Compile(pattern)
	return func(_ *domain.RunResult, dir string) error {
		if reErr != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, reErr)
		}
		full := Resolve(dir, path)
		content, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", full, err)
		}
		if !re.Match(content) {
			return fmt.Errorf("expected %s to match %q", full, pattern)
		}
		return nil
	}
}

// FileDoesNotContain fails if the file exists and matches pattern (a regexp).
// A missing file is a failure too, since there is nothing to inspect.
func FileDoesNotContain(path, pattern string) domain.Check {
	re, reErr := regexp.Compile(pattern)
	return func(_ *domain.RunResult, dir string) error {
		if reErr != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, reErr)
		}
		full := Resolve(dir, path)
		content, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", full, err)
		}
		if loc := re.FindIndex(content); loc != nil {
			line := 1 + strings.Count(string(content[:loc[0]]), "\n")
			return fmt.Errorf("expected %s not to match %q, found at line %d", full, pattern, line)
		}
		return nil
	}
}

// OutputContains fails unless the captured tool output contains substr.
func OutputContains(substr string) domain.Check {
	return func(result *domain.RunResult, _ string) error {
		if result == nil || !strings.Contains(result.Output, substr) {
			return fmt.Errorf("expected tool output to contain %q", substr)
		}
		return nil
	}
}

// All runs checks in order and stops at the first failure.
func All(checks ...domain.Check) domain.Check {
	return func(result *domain.RunResult, dir string) error {
		for i, check := range checks {
			if check == nil {
				continue
			}
			if err := check(result, dir); err != nil {
				if len(checks) == 1 {
					return err
				}
				return fmt.Errorf("check %d of %d: %w", i+1, len(checks), err)
			}
		}
		return nil
	}
}
