package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

// ErrInterrupted is returned when the user presses Ctrl+C at a prompt.
var ErrInterrupted = errors.New("interrupted")

// Prompter asks the user a question and returns the answer without the
// trailing newline.
type Prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// NewPrompter returns a readline prompter when in is the terminal, and a
// plain line reader otherwise.
func NewPrompter(in io.Reader, out io.Writer, historyFile string) (Prompter, error) {
	if f, ok := in.(*os.File); ok && f == os.Stdin && readline.DefaultIsTerminal() {
		return NewTerminalPrompter(historyFile)
	}
	return NewLinePrompter(in, out), nil
}

// TerminalPrompter reads answers with line editing, history and
// completion of .xlsx file names.
type TerminalPrompter struct {
	rl *readline.Instance
}

// NewTerminalPrompter opens a readline instance. History is kept in
// historyFile when it is set.
func NewTerminalPrompter(historyFile string) (*TerminalPrompter, error) {
	if err := prepareHistory(historyFile); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:     historyFile,
		AutoComplete:    readline.NewPrefixCompleter(readline.PcItemDynamic(workbookFiles)),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &TerminalPrompter{rl: rl}, nil
}

// prepareHistory creates the directory holding historyFile.
func prepareHistory(historyFile string) error {
	if historyFile == "" {
		return nil
	}
	dir := filepath.Dir(historyFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create history directory %s — check session.history: %w", dir, err)
	}
	return nil
}

// Prompt implements Prompter.
func (p *TerminalPrompter) Prompt(prompt string) (string, error) {
	p.rl.SetPrompt(prompt)
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

// Close restores the terminal.
func (p *TerminalPrompter) Close() error {
	return p.rl.Close()
}

// workbookFiles lists .xlsx files under the directory being typed.
func workbookFiles(line string) []string {
	dir := filepath.Dir(line)
	if !strings.ContainsRune(line, filepath.Separator) {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if dir != "." {
			name = filepath.Join(dir, name)
		}
		if e.IsDir() {
			names = append(names, name+string(filepath.Separator))
		} else if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			names = append(names, name)
		}
	}
	return names
}

// LinePrompter reads one answer per line, for pipes and tests.
type LinePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewLinePrompter writes prompts to out and reads answers from in.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{scanner: bufio.NewScanner(in), out: out}
}

// Prompt implements Prompter. It returns io.EOF once input is exhausted.
func (p *LinePrompter) Prompt(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(p.scanner.Text(), "\r"), nil
}

// Close implements Prompter.
func (p *LinePrompter) Close() error { return nil }
