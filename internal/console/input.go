package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Messages printed when an integer prompt rejects its input.
const (
	msgNotANumber  = "Invalid input. Please enter a number."
	msgOnlyANumber = "Invalid input. Please enter only a number."
	msgOutOfRange  = "Number is out of range."
)

type prompter struct {
	r      *bufio.Reader
	out    io.Writer
	styles styles
}

func newPrompter(in io.Reader, out io.Writer, st styles) *prompter {
	return &prompter{r: bufio.NewReader(in), out: out, styles: st}
}

// line prints prompt and reads one line without its line ending. Input
// longer than limit runes is truncated; limit <= 0 keeps everything.
// io.EOF is returned only when nothing at all could be read.
func (p *prompter) line(prompt string, limit int) (string, error) {
	fmt.Fprint(p.out, prompt)
	s, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	s = strings.TrimRight(s, "\r\n")
	return truncate(s, limit), nil
}

// integer re-prompts until the operator enters a valid 32-bit integer.
func (p *prompter) integer(prompt string) (int, error) {
	for {
		s, err := p.line(prompt, 0)
		if err != nil {
			return 0, err
		}
		n, problem := parseInt(s)
		if problem == "" {
			return n, nil
		}
		fmt.Fprintln(p.out, p.styles.err.Render(problem))
	}
}

// confirm asks a y/n question; only a leading y or Y counts as yes.
func (p *prompter) confirm(prompt string) (bool, error) {
	s, err := p.line(p.styles.warn.Render(prompt), 0)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(s, "y") || strings.HasPrefix(s, "Y"), nil
}

// parseInt accepts optional leading whitespace, an optional sign and decimal
// digits, and nothing after them. On failure it returns the message to show.
func parseInt(s string) (int, string) {
	rest := strings.TrimLeft(s, " \t\n\v\f\r")
	end := 0
	if end < len(rest) && (rest[end] == '+' || rest[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, msgNotANumber
	}
	if end != len(rest) {
		return 0, msgOnlyANumber
	}

	n, err := strconv.ParseInt(rest[:end], 10, 32)
	if err != nil {
		return 0, msgOutOfRange
	}
	return int(n), ""
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
