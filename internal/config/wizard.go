package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ConfigIssue represents a validation finding.
type ConfigIssue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix"`
}

// Wizard runs the interactive setup wizard, writing prompts to out.
// If reader is nil, reads from os.Stdin.
func Wizard(reader io.Reader, out io.Writer) error {
	if reader == nil {
		reader = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	scanner := bufio.NewScanner(reader)
	setDefaults()

	fmt.Fprintln(out, "chartkit setup")
	fmt.Fprintln(out, strings.Repeat("-", 48))

	fmt.Fprint(out, "  Open each chart in an image viewer after rendering? [Y/n]: ")
	scanner.Scan()
	switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
	case "n", "no":
		viper.Set("display.enabled", false)
	default:
		viper.Set("display.enabled", true)
	}

	if viper.GetBool("display.enabled") {
		fmt.Fprint(out, "  Viewer command (blank for the system default): ")
		scanner.Scan()
		viper.Set("display.command", strings.TrimSpace(scanner.Text()))
	}

	fmt.Fprint(out, "  Colored output? [Y/n]: ")
	scanner.Scan()
	switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
	case "n", "no":
		viper.Set("output.color", false)
	default:
		viper.Set("output.color", true)
	}

	if err := SaveConfig(); err != nil {
		return fmt.Errorf("could not save config: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Config file: %s\n", ConfigPath())
	fmt.Fprintln(out, "Type 'chartkit config show' to see all settings.")
	return nil
}

// WizardNonInteractive writes the default configuration (no user input).
func WizardNonInteractive() error {
	setDefaults()
	viper.Set("display.enabled", true)
	viper.Set("output.color", true)
	return SaveConfig()
}

// Validate checks config values and returns a list of issues.
func Validate() []ConfigIssue {
	var issues []ConfigIssue

	if !viper.GetBool("display.enabled") {
		issues = append(issues, ConfigIssue{
			Key:      "display.enabled",
			Severity: "info",
			Message:  "Charts are saved without opening a viewer",
		})
	} else if command := viper.GetString("display.command"); command != "" {
		fields := strings.Fields(command)
		if _, err := exec.LookPath(fields[0]); err != nil {
			issues = append(issues, ConfigIssue{
				Key:      "display.command",
				Severity: "warning",
				Message:  fmt.Sprintf("viewer %q is not on PATH — charts will not be shown", fields[0]),
				Fix:      "chartkit config set display.command <viewer>",
			})
		}
	}

	if history := viper.GetString("session.history"); history != "" {
		if info, err := os.Stat(filepath.Dir(history)); err == nil && !info.IsDir() {
			issues = append(issues, ConfigIssue{
				Key:      "session.history",
				Severity: "warning",
				Message:  fmt.Sprintf("history directory %s is not a directory", filepath.Dir(history)),
				Fix:      "chartkit config set session.history ~/.chartkit/history",
			})
		}
	}

	return issues
}

// Set sets a config value and saves to disk.
func Set(key, value string) error {
	viper.Set(key, value)
	return SaveConfig()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// ResetConfig resets all config to defaults.
func ResetConfig() error {
	path := ConfigPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	viper.Set("display.enabled", true)
	viper.Set("display.command", "")
	viper.Set("display.wait", false)
	viper.Set("output.color", true)
	viper.Set("session.history", filepath.Join(configDir(), "history"))
	return nil
}

// SaveConfig writes the current config to ~/.chartkit/config.yaml.
func SaveConfig() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}

	os.Chmod(path, 0600)
	return nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// ShowConfig returns the effective configuration as YAML.
func ShowConfig(cfg *Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("could not encode config: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", ConfigPath())
	sb.Write(data)
	return sb.String(), nil
}
