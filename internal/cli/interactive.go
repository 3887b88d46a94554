package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// isTerminal is replaceable in tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// readPassword is replaceable in tests.
var readPassword = func(f *os.File) ([]byte, error) {
	return term.ReadPassword(int(f.Fd()))
}

// IsTerminal reports whether w is a terminal. Colour output is only used
// when it is.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// SelectDocument prints the recently used documents as a numbered list on
// stderr and reads the user's choice from stdin.
func SelectDocument(history []string, stdin io.Reader, stderr io.Writer) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("%w: no recent documents, pass a path", ErrNoDocument)
	}

	fmt.Fprintln(stderr, "Recent documents:")
	for i, doc := range history {
		fmt.Fprintf(stderr, "  [%d] %s\n", i+1, doc)
	}
	fmt.Fprintf(stderr, "Select a document [1-%d]: ", len(history))

	line, err := readLine(stdin)
	if err != nil {
		return "", fmt.Errorf("document selection cancelled: %w", err)
	}
	if line == "" {
		return "", fmt.Errorf("%w: nothing selected", ErrNoDocument)
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(history) {
		return "", fmt.Errorf("invalid selection %q: expected a number between 1 and %d", line, len(history))
	}
	return history[n-1], nil
}

// Prompt writes label to stderr and reads one line from stdin.
func Prompt(label string, stdin io.Reader, stderr io.Writer) (string, error) {
	fmt.Fprintf(stderr, "%s: ", label)
	line, err := readLine(stdin)
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}

// ReadAPIKey reads the key from stdin. On a terminal the input is not
// echoed.
func ReadAPIKey(stdin io.Reader, stderr io.Writer) (string, error) {
	if f, ok := stdin.(*os.File); ok && isTerminal(f) {
		fmt.Fprint(stderr, "API key: ")
		key, err := readPassword(f)
		fmt.Fprintln(stderr)
		if err != nil {
			return "", fmt.Errorf("read api key: %w", err)
		}
		return strings.TrimSpace(string(key)), nil
	}
	line, err := readLine(stdin)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read api key: %w", err)
	}
	return line, nil
}

// readLine returns the first line of r without its line ending. io.EOF is
// only returned when nothing was read.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	line = strings.TrimSpace(line)
	if err == io.EOF && line != "" {
		err = nil
	}
	return line, err
}
