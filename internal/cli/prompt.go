package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

const selectPrompt = "Select a template"

// templateSelector asks the user to pick a template. Terminals get an
// interactive list; anything else gets a numbered menu read from in.
type templateSelector struct {
	in          io.Reader
	out         io.Writer
	interactive bool
}

func newTemplateSelector(in io.Reader, out io.Writer) *templateSelector {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isTerminal(f)
	}
	return &templateSelector{in: in, out: out, interactive: interactive}
}

func (s *templateSelector) Select(candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("no templates to choose from")
	}

	if s.interactive {
		return pterm.DefaultInteractiveSelect.
			WithOptions(candidates).
			WithDefaultOption(candidates[0]).
			Show(selectPrompt)
	}

	idx, err := selectFromList(bufio.NewReader(s.in), s.out, selectPrompt+":", candidates)
	if err != nil {
		return "", err
	}
	return candidates[idx], nil
}

// selectFromList prints a numbered list and reads a 1-based choice.
func selectFromList(reader *bufio.Reader, w io.Writer, prompt string, items []string) (int, error) {
	fmt.Fprintf(w, "\n%s\n", prompt)
	for i, item := range items {
		fmt.Fprintf(w, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(w, "Enter number [1-%d]: ", len(items))

	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return 0, fmt.Errorf("reading selection: %w", err)
	}

	choice := strings.TrimSpace(line)
	num, err := strconv.Atoi(choice)
	if err != nil || num < 1 || num > len(items) {
		return 0, fmt.Errorf("invalid selection %q: choose 1-%d", choice, len(items))
	}
	return num - 1, nil
}
