// Package harness provides utilities for integration testing the toolprobe CLI.
// It handles binary compilation, environment isolation, fixture trees and
// command execution.
//
// Environment variables managed:
//   - TOOLPROBE_HOME: Isolated per test (temp directory)
//   - TOOLPROBE_DEBUG: Disabled to reduce noise
//   - TOOLPROBE_TOOL: Removed so suite files decide the tool
package harness
