// Package prompt asks the operator yes/no questions.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Confirmer answers yes/no questions. Anything other than an explicit yes is a no.
type Confirmer interface {
	Confirm(question string) bool
}

// IsAffirmative reports whether answer is the yes token "y", ignoring case
// and surrounding whitespace.
func IsAffirmative(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

// Terminal reads answers line by line from an input stream.
type Terminal struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewTerminal returns a Terminal reading from in and writing prompts to out.
// The same reader is reused for every question so buffered input is not lost.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{reader: bufio.NewReader(in), out: out}
}

func (t *Terminal) Confirm(question string) bool {
	_, _ = color.New(color.FgYellow).Fprintf(t.out, "%s (y/N): ", question)
	input, err := t.reader.ReadString('\n')
	if err != nil && input == "" {
		// EOF before any answer.
		_, _ = fmt.Fprintln(t.out)
		return false
	}
	return IsAffirmative(input)
}

// Scripted returns queued answers in order. Once the queue is empty every
// question is answered with no.
type Scripted struct {
	answers   []string
	Questions []string
}

// NewScripted returns a Scripted confirmer that will give the answers in order.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) Confirm(question string) bool {
	s.Questions = append(s.Questions, question)
	if len(s.answers) == 0 {
		return false
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return IsAffirmative(answer)
}
