package output

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/ccstart/pkg/config"
	"github.com/arthur-debert/ccstart/pkg/errors"
	"github.com/arthur-debert/ccstart/pkg/logging"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// fdWriter is implemented by *os.File
type fdWriter interface {
	Fd() uintptr
}

// ColorEnabled decides whether output written to w should be styled
func ColorEnabled(mode config.ColorMode, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Check if we're being piped or redirected
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}

	return termenv.NewOutput(w).EnvColorProfile() != termenv.Ascii
}

// Renderer writes styled lines to a writer
type Renderer struct {
	writer io.Writer
	color  bool
	styles Styles
}

// NewRenderer creates a Renderer for w. When color is false every style
// renders as plain text.
func NewRenderer(w io.Writer, color bool) *Renderer {
	log := logging.GetLogger("output")

	lg := lipgloss.NewRenderer(w)
	if color {
		if lg.ColorProfile() == termenv.Ascii {
			// forced color on a writer lipgloss cannot probe
			lg.SetColorProfile(termenv.ANSI256)
		}
	} else {
		lg.SetColorProfile(termenv.Ascii)
	}

	log.Trace().
		Bool("color", color).
		Str("profile", fmt.Sprintf("%v", lg.ColorProfile())).
		Msg("Renderer created")

	return &Renderer{writer: w, color: color, styles: NewStyles(lg)}
}

// Writer returns the underlying writer
func (r *Renderer) Writer() io.Writer {
	return r.writer
}

// Styles returns the renderer's style set
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Println writes an unstyled line
func (r *Renderer) Println(a ...interface{}) {
	_, _ = fmt.Fprintln(r.writer, a...)
}

// Printf writes unstyled formatted text
func (r *Renderer) Printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(r.writer, format, a...)
}

// Success writes a line in the success style
func (r *Renderer) Success(format string, a ...interface{}) {
	r.Println(r.styles.Success.Render(fmt.Sprintf(format, a...)))
}

// Warning writes a line in the warning style
func (r *Renderer) Warning(format string, a ...interface{}) {
	r.Println(r.styles.Warning.Render(fmt.Sprintf(format, a...)))
}

// Muted writes a line in the muted style
func (r *Renderer) Muted(format string, a ...interface{}) {
	r.Println(r.styles.Muted.Render(fmt.Sprintf(format, a...)))
}

// Name styles a provider name
func (r *Renderer) Name(name string) string {
	return r.styles.Name.Render(name)
}

// Path styles a filesystem path
func (r *Renderer) Path(path string) string {
	return r.styles.Path.Render(path)
}

// RenderError writes "Error: <message>" using the error's user message,
// followed by a hint line when the error carries one.
func (r *Renderer) RenderError(err error) {
	if err == nil {
		return
	}
	r.Println(r.styles.Error.Render("Error:") + " " + errors.UserMessage(err))
	if hint, ok := errors.GetErrorDetails(err)["hint"].(string); ok && hint != "" {
		r.Println(r.styles.Muted.Render("Hint: " + hint))
	}
}
