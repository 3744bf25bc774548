// Package doctor provides the "chartkit doctor" command for checking system health.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/chartkit/internal/config"
	"github.com/klytics/chartkit/internal/formats/pptx"
	"github.com/klytics/chartkit/internal/output"
	"github.com/klytics/chartkit/internal/render"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check system health and dependencies",
		Long:  "Run diagnostic checks to verify chartkit can write charts and slides from the current directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			checks := runChecks(cfg)
			out := cmd.OutOrStdout()

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON(out, "doctor", checks)
			}

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			fmt.Fprintln(out, "chartkit doctor")
			fmt.Fprintln(out, "===============")
			fmt.Fprintln(out)

			okCount, warnCount, errCount := 0, 0, 0
			for _, c := range checks {
				var icon string
				switch c.Status {
				case "ok":
					icon = green("✓")
					okCount++
				case "warning":
					icon = yellow("!")
					warnCount++
				case "error":
					icon = red("✗")
					errCount++
				}
				fmt.Fprintf(out, "  %s %s: %s\n", icon, c.Name, c.Message)
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

func runChecks(cfg *config.Config) []Check {
	var checks []Check

	checks = append(checks, Check{
		Name:    "Go Runtime",
		Status:  "ok",
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	})

	if _, err := os.Stat(config.ConfigPath()); err == nil {
		checks = append(checks, Check{Name: "Config File", Status: "ok", Message: config.ConfigPath()})
	} else {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "warning",
			Message: "Not found — using defaults (run 'chartkit config init')",
		})
	}

	checks = append(checks, viewerCheck(cfg))
	checks = append(checks, writableCheck(render.ImageDir))
	checks = append(checks, deckCheck(render.DeckPath))

	return checks
}

func viewerCheck(cfg *config.Config) Check {
	if !cfg.Display.Enabled {
		return Check{Name: "Image Viewer", Status: "ok", Message: "Disabled in config"}
	}
	name := output.SystemViewer{Command: cfg.Display.Command}.Program()
	if _, err := exec.LookPath(name); err != nil {
		return Check{
			Name:    "Image Viewer",
			Status:  "warning",
			Message: fmt.Sprintf("%s not found in PATH — charts are saved but not shown (use --no-show)", name),
		}
	}
	return Check{Name: "Image Viewer", Status: "ok", Message: name}
}

// writableCheck reports whether charts can be written under dir.
func writableCheck(dir string) Check {
	target := dir
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		target = "."
	}
	f, err := os.CreateTemp(target, ".chartkit-doctor-*")
	if err != nil {
		return Check{Name: "Images Directory", Status: "error", Message: fmt.Sprintf("cannot write to %s: %v", target, err)}
	}
	f.Close()
	os.Remove(f.Name())

	abs, _ := filepath.Abs(dir)
	return Check{Name: "Images Directory", Status: "ok", Message: abs}
}

func deckCheck(path string) Check {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Check{Name: "Presentation", Status: "ok", Message: fmt.Sprintf("%s will be created on the first chart", path)}
	}
	d, err := pptx.Open(path)
	if err != nil {
		return Check{Name: "Presentation", Status: "error", Message: err.Error()}
	}
	return Check{Name: "Presentation", Status: "ok", Message: fmt.Sprintf("%s (%d slides)", path, d.SlideCount())}
}
