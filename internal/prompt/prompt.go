// Package prompt asks the operator questions on a line-oriented terminal.
// Each question has an initial value that is used when the answer is empty.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind selects how an answer is parsed.
type Kind int

const (
	Text Kind = iota
	Number
	Toggle
)

// Question describes one prompt.
type Question struct {
	Name    string
	Message string
	Kind    Kind
	Initial any // string for Text, int for Number, bool for Toggle
}

// Answers maps question names to parsed values.
type Answers map[string]any

// String returns a Text answer.
func (a Answers) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Int returns a Number answer.
func (a Answers) Int(name string) int {
	n, _ := a[name].(int)
	return n
}

// Bool returns a Toggle answer.
func (a Answers) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Asker maps a list of questions to answers.
type Asker interface {
	Ask(ctx context.Context, questions []Question) (Answers, error)
}

// ErrNoInput is returned when the input stream ends before a question is
// answered.
var ErrNoInput = errors.New("no input: stdin closed before all questions were answered")

// Terminal asks questions on r and w.
type Terminal struct {
	reader *bufio.Reader
	w      io.Writer
}

// NewTerminal returns a Terminal reading answers from r and writing prompts to w.
func NewTerminal(r io.Reader, w io.Writer) *Terminal {
	return &Terminal{reader: bufio.NewReader(r), w: w}
}

// Ask asks each question in order.
func (t *Terminal) Ask(ctx context.Context, questions []Question) (Answers, error) {
	answers := make(Answers, len(questions))
	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := t.ask(q)
		if err != nil {
			return nil, err
		}
		answers[q.Name] = v
	}
	return answers, nil
}

// ConfirmOverwrite asks whether a non-empty directory may be overwritten.
// The default answer is no, and a closed input counts as no.
func (t *Terminal) ConfirmOverwrite(ctx context.Context, path string) (bool, error) {
	q := Question{
		Name:    "overwrite",
		Message: fmt.Sprintf("Target directory '%s' is not empty. Overwrite?", path),
		Kind:    Toggle,
		Initial: false,
	}
	v, err := t.ask(q)
	if errors.Is(err, ErrNoInput) {
		fmt.Fprintln(t.w)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (t *Terminal) ask(q Question) (any, error) {
	fmt.Fprintf(t.w, "%s %s: ", q.Message, hint(q))

	line, err := t.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoInput
		}
		return nil, fmt.Errorf("reading answer for %s: %w", q.Name, err)
	}
	answer := strings.TrimSpace(line)

	switch q.Kind {
	case Number:
		if answer == "" {
			return q.Initial, nil
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q for %s", answer, q.Name)
		}
		return n, nil
	case Toggle:
		if answer == "" {
			return q.Initial, nil
		}
		b, ok := parseToggle(answer)
		if !ok {
			return nil, fmt.Errorf("invalid answer %q for %s: choose yes or no", answer, q.Name)
		}
		return b, nil
	default:
		if answer == "" {
			return q.Initial, nil
		}
		return answer, nil
	}
}

// hint renders the default shown next to a question.
func hint(q Question) string {
	if q.Kind == Toggle {
		if on, _ := q.Initial.(bool); on {
			return "(Y/n)"
		}
		return "(y/N)"
	}
	if q.Initial == nil {
		return ""
	}
	return fmt.Sprintf("(%v)", q.Initial)
}

func parseToggle(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "y", "yes", "true", "1":
		return true, true
	case "n", "no", "false", "0":
		return false, true
	}
	return false, false
}
