package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/s0up4200/filmdesk/view"
)

// promptConfirmer asks yes/no questions on the terminal
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
	yes bool
}

func newConfirmer() view.Confirmer {
	return &promptConfirmer{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		yes: assumeYes || !cfg.Safety.ConfirmDestructive,
	}
}

// Confirm prompts the user for confirmation
func (p *promptConfirmer) Confirm(prompt string) bool {
	if p.yes {
		return true
	}

	fmt.Fprintf(p.out, "\n%s [y/N]: ", prompt)
	response, err := p.in.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}
