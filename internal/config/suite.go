package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/renato0307/toolprobe/internal/checks"
	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/paths"
)

// MaxSuiteFileSize is the largest suite file LoadSuite accepts (1MB).
const MaxSuiteFileSize = 1024 * 1024

// Suite is a YAML suite file: suite-wide defaults plus the ordered case table.
type Suite struct {
	Cases          []CaseSpec        `yaml:"cases" validate:"required,min=1,dive"`
	Clean          []string          `yaml:"clean" validate:"omitempty,dive,required"`
	CleanupTimeout time.Duration     `yaml:"cleanup_timeout" validate:"gte=0"`
	Env            map[string]string `yaml:"env"`
	Parallel       int               `yaml:"parallel" validate:"gte=0"`
	// Root is resolved against the suite file's directory when relative.
	// Empty means "not set"; see Dir.
	Root    string        `yaml:"root"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
	// Tool is resolved against the suite file's directory when it is a
	// relative path; a bare name is looked up in PATH.
	Tool string `yaml:"tool"`

	// Path is the file the suite was loaded from.
	Path string `yaml:"-"`
}

// CaseSpec is one entry of the case table.
type CaseSpec struct {
	Args    []string          `yaml:"args"`
	Checks  []CheckSpec       `yaml:"checks" validate:"dive"`
	Command string            `yaml:"command" validate:"required_without=Args"`
	Env     map[string]string `yaml:"env"`
	ID      string            `yaml:"id" validate:"required"`
	Timeout time.Duration     `yaml:"timeout" validate:"gte=0"`
	TTY     bool              `yaml:"tty"`
}

// CheckSpec names exactly one check.
type CheckSpec struct {
	ArchiveContains    *ArchiveSpec `yaml:"archive_contains"`
	ArchiveNotContains *ArchiveSpec `yaml:"archive_not_contains"`
	FileContains       *PatternSpec `yaml:"file_contains"`
	FileExists         string       `yaml:"file_exists"`
	FileNotContains    *PatternSpec `yaml:"file_not_contains"`
	FileNotExists      string       `yaml:"file_not_exists"`
	OutputContains     string       `yaml:"output_contains"`
	ToolSucceeds       []string     `yaml:"tool_succeeds"`
}

// ArchiveSpec lists entries expected (or not) in a zip/jar/war archive.
type ArchiveSpec struct {
	Entries []string `yaml:"entries" validate:"required,min=1,dive,required"`
	Path    string   `yaml:"path" validate:"required"`
}

// PatternSpec is a file path and a regular expression.
type PatternSpec struct {
	Path    string `yaml:"path" validate:"required"`
	Pattern string `yaml:"pattern" validate:"required"`
}

var suiteValidate *validator.Validate

func init() {
	suiteValidate = validator.New()
	suiteValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	suiteValidate.RegisterStructValidation(validateCheckSpec, CheckSpec{})
}

// validateCheckSpec requires exactly one check kind and compilable patterns.
func validateCheckSpec(sl validator.StructLevel) {
	c := sl.Current().Interface().(CheckSpec)

	set := 0
	for _, present := range []bool{
		c.ArchiveContains != nil,
		c.ArchiveNotContains != nil,
		c.FileContains != nil,
		c.FileExists != "",
		c.FileNotContains != nil,
		c.FileNotExists != "",
		c.OutputContains != "",
		len(c.ToolSucceeds) > 0,
	} {
		if present {
			set++
		}
	}
	if set != 1 {
		sl.ReportError(c, "check", "check", "onekind", "")
	}

	for field, spec := range map[string]*PatternSpec{
		"file_contains":     c.FileContains,
		"file_not_contains": c.FileNotContains,
	} {
		if spec == nil {
			continue
		}
		if _, err := regexp.Compile(spec.Pattern); err != nil {
			sl.ReportError(spec.Pattern, field, field, "regexp", "")
		}
	}
}

// LoadSuite reads and validates a suite file.
func LoadSuite(path string) (*Suite, error) {
	path = paths.ExpandPath(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open suite file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxSuiteFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	if len(data) > MaxSuiteFileSize {
		return nil, fmt.Errorf("suite file %s exceeds %d bytes", path, MaxSuiteFileSize)
	}

	suite, err := ParseSuite(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve suite path: %w", err)
	}
	suite.Path = abs
	suite.Root = resolveRoot(filepath.Dir(abs), suite.Root)
	suite.Tool = resolveTool(filepath.Dir(abs), suite.Tool)
	return suite, nil
}

// ParseSuite decodes and validates suite YAML. Unknown keys are rejected.
func ParseSuite(data []byte) (*Suite, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var suite Suite
	if err := dec.Decode(&suite); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: suite file is empty", domain.ErrInvalidCase)
		}
		return nil, fmt.Errorf("invalid suite YAML: %w", err)
	}

	if err := suiteValidate.Struct(&suite); err != nil {
		return nil, describeValidation(err)
	}
	return &suite, nil
}

// Dir returns the directory of the suite file, the last-resort test root.
func (s *Suite) Dir() string {
	if s.Path == "" {
		return ""
	}
	return filepath.Dir(s.Path)
}

func resolveRoot(suiteDir, root string) string {
	if root == "" {
		return ""
	}
	root = paths.ExpandPath(root)
	if filepath.IsAbs(root) {
		return root
	}
	return filepath.Join(suiteDir, root)
}

// resolveTool anchors a relative tool path such as ../_buildr to the suite
// directory. Bare names are left for PATH lookup.
func resolveTool(suiteDir, tool string) string {
	if tool == "" {
		return ""
	}
	tool = paths.ExpandPath(tool)
	if filepath.IsAbs(tool) || !strings.ContainsRune(tool, filepath.Separator) {
		return tool
	}
	return filepath.Join(suiteDir, tool)
}

// describeValidation turns validator errors into one readable error that
// wraps domain.ErrInvalidCase.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidCase, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Suite.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "required_without":
			msgs = append(msgs, field+" is required when args is empty")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s element(s)", field, fe.Param()))
		case "gte":
			msgs = append(msgs, field+" must not be negative")
		case "onekind":
			msgs = append(msgs, field+" must name exactly one check kind")
		case "regexp":
			msgs = append(msgs, fmt.Sprintf("%s pattern %q is not a valid regular expression", field, fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidCase, strings.Join(msgs, "; "))
}

// BuildCases converts the case table into domain cases. invoke backs the
// tool_succeeds check and may be nil when no case uses it.
func (s *Suite) BuildCases(invoke checks.Invoker) []domain.Case {
	cases := make([]domain.Case, 0, len(s.Cases))
	for _, spec := range s.Cases {
		c := domain.Case{
			Args:    spec.Args,
			Command: spec.Command,
			Env:     spec.Env,
			ID:      spec.ID,
			Timeout: spec.Timeout,
			TTY:     spec.TTY,
		}
		if len(spec.Checks) > 0 {
			list := make([]domain.Check, 0, len(spec.Checks))
			for _, cs := range spec.Checks {
				list = append(list, cs.Check(invoke))
			}
			c.Check = checks.All(list...)
		}
		cases = append(cases, c)
	}
	return cases
}

// Check builds the domain.Check this spec describes.
func (c CheckSpec) Check(invoke checks.Invoker) domain.Check {
	switch {
	case c.ArchiveContains != nil:
		return checks.ArchiveContainsEntries(c.ArchiveContains.Path, c.ArchiveContains.Entries...)
	case c.ArchiveNotContains != nil:
		return checks.ArchiveDoesNotContainEntries(c.ArchiveNotContains.Path, c.ArchiveNotContains.Entries...)
	case c.FileContains != nil:
		return checks.FileContains(c.FileContains.Path, c.FileContains.Pattern)
	case c.FileExists != "":
		return checks.FileExists(c.FileExists)
	case c.FileNotContains != nil:
		return checks.FileDoesNotContain(c.FileNotContains.Path, c.FileNotContains.Pattern)
	case c.FileNotExists != "":
		return checks.FileNotExists(c.FileNotExists)
	case c.OutputContains != "":
		return checks.OutputContains(c.OutputContains)
	case len(c.ToolSucceeds) > 0:
		return checks.ToolSucceeds(invoke, c.ToolSucceeds...)
	}
	return nil
}
