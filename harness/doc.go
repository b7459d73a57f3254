// Package harness turns a table of tool invocations into Go subtests.
//
// Each case names a fixture directory under the test root, the arguments to
// run the tool with there, and an optional check over what the tool left
// behind. The tool's clean command runs after every case, whether the
// command, the check or the harness itself failed:
//
//	func TestBuildr(t *testing.T) {
//		h := harness.New(harness.WithTool("../_buildr"))
//		h.Run(t, []harness.Case{
//			{ID: "helloWorld", Command: "package"},
//			{ID: "include_path", Command: "package", Check: harness.ArchiveContainsEntries(
//				"target/proj-1.0.zip", "distrib/doc/index.html")},
//		})
//	}
//
// When no tool is configured the TOOLPROBE_TOOL environment variable is used.
package harness
