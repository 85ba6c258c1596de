package fileops

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(question string) bool
}

// LinePrompter writes the question to out and reads one answer line from
// in. Answers starting with 'y' or 'Y' are a yes.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Confirm(question string) bool {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, "y") || strings.HasPrefix(line, "Y")
}

type denyAll struct{}

func (denyAll) Confirm(string) bool { return false }
