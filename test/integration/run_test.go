package integration_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/test/integration/harness"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		cases        map[string]map[string]string
		suite        string
		args         []string
		wantExitCode int
		validate     func(t *testing.T, fx *harness.TestFixture, result harness.CommandResult)
	}{
		{
			name:  "passing suite",
			cases: map[string]map[string]string{"helloWorld": nil, "generateFromPom": {"pom.xml": "<project/>"}},
			suite: `cases:
  - id: helloWorld
    command: package
    checks:
      - file_exists: target/out.txt
  - id: generateFromPom
    command: --generate pom.xml
    checks:
      - file_exists: buildfile
      - file_not_contains:
          path: buildfile
          pattern: slf4j\.version
`,
			wantExitCode: 0,
			validate: func(t *testing.T, fx *harness.TestFixture, result harness.CommandResult) {
				harness.AssertUnitPassed(t, result, "Helloworld")
				harness.AssertUnitPassed(t, result, "Generatefrompom")
				harness.AssertStdoutContains(t, result, "2 passed, 0 failed")
				assert.Equal(t, 1, fx.CleanCount("helloWorld"))
				assert.Equal(t, 1, fx.CleanCount("generateFromPom"))
				assert.NoFileExists(t, filepath.Join(fx.Dir, "generateFromPom", "buildfile"))
			},
		},
		{
			name:  "one failing unit does not stop the others",
			cases: map[string]map[string]string{"broken": nil, "helloWorld": nil},
			suite: `cases:
  - id: broken
    command: fail
  - id: helloWorld
    command: package
`,
			wantExitCode: 1,
			validate: func(t *testing.T, fx *harness.TestFixture, result harness.CommandResult) {
				harness.AssertUnitFailed(t, result, "Broken", domain.KindPrimaryCommand)
				harness.AssertUnitPassed(t, result, "Helloworld")
				harness.AssertStdoutContains(t, result, "BUILD FAILED")
				harness.AssertStdoutContains(t, result, "1 passed, 1 failed")
				assert.Equal(t, 1, fx.CleanCount("broken"))
				assert.Equal(t, 1, fx.CleanCount("helloWorld"))
			},
		},
		{
			name:  "failing check still cleans up",
			cases: map[string]map[string]string{"include_path": nil},
			suite: `cases:
  - id: include_path
    command: package
    checks:
      - file_exists: target/proj-1.0.zip
`,
			wantExitCode: 1,
			validate: func(t *testing.T, fx *harness.TestFixture, result harness.CommandResult) {
				harness.AssertUnitFailed(t, result, "Include_path", domain.KindCheck)
				harness.AssertStdoutContains(t, result, "proj-1.0.zip")
				assert.Equal(t, 1, fx.CleanCount("include_path"))
				assert.NoDirExists(t, filepath.Join(fx.Dir, "include_path", "target"))
			},
		},
		{
			name:  "cleanup failure fails an otherwise passing unit",
			cases: map[string]map[string]string{"junit3": {".fail-clean": ""}},
			suite: `cases:
  - id: junit3
    command: package
`,
			wantExitCode: 1,
			validate: func(t *testing.T, fx *harness.TestFixture, result harness.CommandResult) {
				harness.AssertUnitFailed(t, result, "Junit3", domain.KindCleanup)
				harness.AssertStdoutContains(t, result, "clean refused")
				assert.Equal(t, 1, fx.CleanCount("junit3"))
			},
		},
		{
			name:  "extra tool invocation inside a check",
			cases: map[string]map[string]string{"package_war_as_jar": nil},
			suite: `cases:
  - id: package_war_as_jar
    command: package
    checks:
      - file_exists: target/out.txt
      - tool_succeeds: [clean]
      - file_not_exists: target
`,
			wantExitCode: 0,
			validate: func(t *testing.T, fx *harness.TestFixture, result harness.CommandResult) {
				harness.AssertUnitPassed(t, result, "Package_war_as_jar")
				assert.Equal(t, 2, fx.CleanCount("package_war_as_jar"))
			},
		},
		{
			name:  "timeout is reported as its own kind",
			cases: map[string]map[string]string{"slow": nil},
			suite: `cases:
  - id: slow
    command: sleep
    timeout: 500ms
`,
			wantExitCode: 1,
			validate: func(t *testing.T, fx *harness.TestFixture, result harness.CommandResult) {
				harness.AssertUnitFailed(t, result, "Slow", domain.KindTimeout)
				assert.Equal(t, 1, fx.CleanCount("slow"))
			},
		},
		{
			name:  "conflicting identifiers fail before anything runs",
			cases: map[string]map[string]string{"BUILDR-320": nil, "BUILDR320": nil},
			suite: `cases:
  - id: BUILDR-320
    command: package
  - id: BUILDR320
    command: package
`,
			wantExitCode: 2,
			validate: func(t *testing.T, fx *harness.TestFixture, result harness.CommandResult) {
				harness.AssertStderrContains(t, result, "registration conflict")
				harness.AssertStderrContains(t, result, "Buildr320")
				assert.Zero(t, fx.CleanCount("BUILDR-320"))
				assert.Zero(t, fx.CleanCount("BUILDR320"))
			},
		},
		{
			name:  "filter selects units",
			cases: map[string]map[string]string{"helloWorld": nil, "junit3": nil},
			suite: `cases:
  - id: helloWorld
    command: package
  - id: junit3
    command: package
`,
			args:         []string{"--run", "^Hello"},
			wantExitCode: 0,
			validate: func(t *testing.T, fx *harness.TestFixture, result harness.CommandResult) {
				harness.AssertUnitPassed(t, result, "Helloworld")
				harness.AssertStdoutNotContains(t, result, "Junit3")
				assert.Zero(t, fx.CleanCount("junit3"))
			},
		},
		{
			name:         "empty identifier is a registration error",
			suite:        "tool: ./does-not-matter.sh\ncases:\n  - id: a\n    command: package\n  - id: ''\n    command: package\n",
			wantExitCode: 2,
			validate: func(t *testing.T, fx *harness.TestFixture, result harness.CommandResult) {
				harness.AssertStderrContains(t, result, "invalid")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := harness.NewTestEnvironment(t)
			fx := harness.NewTestFixture(t)
			for id, files := range tt.cases {
				fx.AddCase(id, files)
			}
			suitePath := fx.WriteSuite(tt.suite)

			args := append([]string{"run", suitePath, "--no-history"}, tt.args...)
			result := harness.RunCommandWithTimeout(t, env, 20*time.Second, args...)

			harness.AssertExitCode(t, result, tt.wantExitCode)
			if tt.validate != nil {
				tt.validate(t, fx, result)
			}
		})
	}
}

func TestRun_ToolFromEnvironment(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	fx := harness.NewTestFixture(t)
	fx.AddCase("helloWorld", nil)
	suitePath := fx.WriteSuite("tool: ./missing-tool.sh\ncases:\n  - id: helloWorld\n    command: package\n")

	env.SetEnv("TOOLPROBE_TOOL", fx.ToolPath)
	result := harness.RunCommand(t, env, "run", suitePath, "--no-history")

	harness.AssertSuccess(t, result)
	harness.AssertUnitPassed(t, result, "Helloworld")
}

func TestRun_Parallel(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	fx := harness.NewTestFixture(t)

	suite := "parallel: 3\ncases:\n"
	ids := []string{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		fx.AddCase(id, nil)
		suite += "  - id: " + id + "\n    command: package\n"
	}
	suitePath := fx.WriteSuite(suite)

	result := harness.RunCommand(t, env, "run", suitePath, "--no-history")

	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "5 passed, 0 failed")
	for _, id := range ids {
		assert.Equal(t, 1, fx.CleanCount(id), "case %s", id)
	}
}
