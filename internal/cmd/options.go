package cmd

import (
	"fmt"
	"maps"
	"time"

	"github.com/renato0307/toolprobe/internal/config"
	"github.com/renato0307/toolprobe/internal/paths"
	"github.com/renato0307/toolprobe/internal/services"
)

// SuiteFlags are the flags shared by commands that load a suite file.
// Zero values mean "not given" so the suite file and settings can fill in.
type SuiteFlags struct {
	Root  string `help:"Directory holding one fixture directory per case (default: suite root)" type:"path"`
	Suite string `arg:"" help:"Suite file (YAML)" type:"existingfile"`
	Tool  string `help:"Path of the tool under test" env:"TOOLPROBE_TOOL"`
}

// RunFlags are only meaningful when units actually execute
type RunFlags struct {
	Clean          []string          `help:"Arguments of the clean invocation (default: clean)" placeholder:"ARG"`
	CleanupTimeout time.Duration     `help:"Timeout for each clean invocation (0 = suite or settings value)"`
	Env            map[string]string `help:"Extra environment for every invocation" short:"e" placeholder:"KEY=VALUE"`
	Parallel       int               `help:"Number of units to run at once (0 = suite or settings value)" short:"j"`
	Timeout        time.Duration     `help:"Timeout for each primary invocation (0 = suite or settings value)"`
}

// resolveOptions merges flags, the suite file and settings.json into
// registry options. Precedence: flag/env > suite file > settings > default.
// fallbackTool is used only when none of them names a tool.
func resolveOptions(sf SuiteFlags, rf RunFlags, suite *config.Suite, settings *config.Settings, fallbackTool string) (services.RegistryOptions, int, error) {
	opts := services.RegistryOptions{
		CleanArgs:      firstNonEmpty(rf.Clean, suite.Clean, settings.CleanArgs),
		CleanupTimeout: firstDuration(rf.CleanupTimeout, suite.CleanupTimeout, seconds(settings.CleanupTimeoutSeconds)),
		Root:           firstString(paths.ExpandPath(sf.Root), suite.Root, settings.Root, suite.Dir()),
		Timeout:        firstDuration(rf.Timeout, suite.Timeout, seconds(settings.TimeoutSeconds)),
		Tool:           firstString(sf.Tool, suite.Tool, settings.Tool, fallbackTool),
	}

	if len(suite.Env) > 0 || len(rf.Env) > 0 {
		opts.Env = make(map[string]string, len(suite.Env)+len(rf.Env))
		maps.Copy(opts.Env, suite.Env)
		maps.Copy(opts.Env, rf.Env)
	}

	if opts.Tool == "" {
		return opts, 0, fmt.Errorf("no tool configured: pass --tool, set TOOLPROBE_TOOL, or add tool to the suite file or settings.json")
	}

	parallel := rf.Parallel
	if parallel <= 0 {
		parallel = suite.Parallel
	}
	if parallel <= 0 && settings.Parallel != nil {
		parallel = *settings.Parallel
	}
	if parallel <= 0 {
		parallel = 1
	}

	return opts, parallel, nil
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}

func firstDuration(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func seconds(n *int) time.Duration {
	if n == nil {
		return 0
	}
	return time.Duration(*n) * time.Second
}
