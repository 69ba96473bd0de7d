package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// configureStyling turns off pterm colors when output is piped, when
// NO_COLOR is set, or when the terminal has no color support.
func configureStyling(out *os.File) {
	if !isTerminal(out) || os.Getenv("NO_COLOR") != "" || termenv.ColorProfile() == termenv.Ascii {
		pterm.DisableStyling()
		return
	}
	pterm.EnableStyling()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	return numberPrinter.Sprintf("%d", n)
}

// formatSize renders a byte count in megabytes.
func formatSize(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
}

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		pterm.Warning.WithWriter(w).Println(msg)
	}
}

func printSuccess(w io.Writer, format string, args ...any) {
	pterm.Success.WithWriter(w).Printfln(format, args...)
}
