package output

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Viewer presents a rendered chart to the user.
type Viewer interface {
	Show(path string) error
}

// SystemViewer opens images with Command, or the platform opener
// (open, xdg-open, start) when Command is empty. Show returns once the
// viewer has started unless Wait is set.
type SystemViewer struct {
	Command string
	Wait    bool
}

// Show launches the viewer on path.
func (v SystemViewer) Show(path string) error {
	name, args := v.command()
	cmd := exec.Command(name, append(args, path)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("could not start viewer %q: %w", name, err)
	}
	if !v.Wait {
		return cmd.Process.Release()
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("viewer %q failed: %w", name, err)
	}
	return nil
}

// Program returns the executable Show will launch.
func (v SystemViewer) Program() string {
	name, _ := v.command()
	return name
}

func (v SystemViewer) command() (string, []string) {
	if fields := strings.Fields(v.Command); len(fields) > 0 {
		return fields[0], fields[1:]
	}
	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "windows":
		return "cmd", []string{"/c", "start", ""}
	default:
		return "xdg-open", nil
	}
}

// NopViewer shows nothing.
type NopViewer struct{}

// Show does nothing.
func (NopViewer) Show(string) error { return nil }

// NewViewer returns a SystemViewer when display is enabled, otherwise NopViewer.
func NewViewer(enabled bool, command string, wait bool) Viewer {
	if !enabled {
		return NopViewer{}
	}
	return SystemViewer{Command: command, Wait: wait}
}
