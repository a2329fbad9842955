package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

const timeLayout = "2006-01-02 15:04"

// formatTime renders t in local time, or "-" when unknown.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

// renderAnswer formats a bot answer as markdown when enabled.
func renderAnswer(answer string) string {
	if settingsService == nil {
		return answer
	}
	display := settingsService.Get().Display
	if !display.Markdown {
		return answer
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(display.WordWrap),
	)
	if err != nil {
		return answer
	}
	out, err := renderer.Render(answer)
	if err != nil {
		return answer
	}
	return strings.TrimRight(out, "\n")
}

// printFieldErrors lists the field messages of a validation error.
func printFieldErrors(cmd *cobra.Command, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) || len(derr.Fields) == 0 {
		return
	}
	for _, name := range derr.FieldNames() {
		cmd.PrintErrf("  %s: %s\n", name, derr.Fields[name])
	}
}

// prompter reads answers from the command's input.
type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, reader: bufio.NewReader(cmd.InOrStdin())}
}

// line prints label and returns the trimmed answer.
func (p *prompter) line(label string) string {
	p.cmd.Print(label)
	input, _ := p.reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// password reads without echo when input is a terminal.
func (p *prompter) password(label string) string {
	p.cmd.Print(label)
	if f, ok := p.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		p.cmd.Println()
		if err == nil {
			return string(password)
		}
	}
	input, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimRight(input, "\r\n")
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func openFile(path string) (*domain.File, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, fmt.Errorf("%s is a directory", path)
	}
	return &domain.File{Name: info.Name(), Size: info.Size(), Content: f}, f.Close, nil
}
