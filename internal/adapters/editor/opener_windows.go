//go:build windows

package editor

var defaultEditors = []string{
	"code.cmd",
	"notepad.exe",
}
