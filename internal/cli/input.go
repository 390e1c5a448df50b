package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// readLine reads one line from the input. A final line without a newline is
// returned; io.EOF is returned only when nothing was read.
func (a *App) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ask prompts for a value. With a non-empty current value the prompt shows
// it and an empty answer keeps it.
func (a *App) ask(label, current string) (string, error) {
	if current != "" {
		a.printf("%s [%s]: ", label, current)
	} else {
		a.printf("%s: ", label)
	}
	line, err := a.readLine()
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current, nil
	}
	return line, nil
}

// askPassword reads a password without echo when attached to a terminal.
// The value is returned untrimmed.
func (a *App) askPassword(label string) (string, error) {
	a.printf("%s: ", label)
	if a.fd < 0 {
		return a.readLine()
	}
	pw, err := readPassword(a.fd)
	a.println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// confirm asks a y/N question. Anything but "y" or "yes" is a no.
func (a *App) confirm(question string) (bool, error) {
	a.printf("%s [y/N]: ", question)
	line, err := a.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// field is one prompt of an entity form.
type field struct {
	label string
	get   func() string
	set   func(string)
}

func text(label string, p *string) field {
	return field{label: label, get: func() string { return *p }, set: func(v string) { *p = v }}
}

// number is an id prompt. An unparsable answer stores zero so validation
// reports the field.
func number(label string, p *int64) field {
	return field{
		label: label,
		get: func() string {
			if *p == 0 {
				return ""
			}
			return fmt.Sprint(*p)
		},
		set: func(v string) { *p = parseInt(v) },
	}
}

func (a *App) fill(fields ...field) error {
	for _, f := range fields {
		v, err := a.ask(f.label, f.get())
		if err != nil {
			return err
		}
		f.set(v)
	}
	return nil
}
