// Package output renders command results for terminals, pipes and
// machines.
//
// Mode auto picks styled text on a terminal and markdown otherwise, so
// piped output stays readable without escape codes.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Mode selects how results are written.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Modes lists the accepted values of --output.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON)}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles Styles
}

// NewRenderer creates a renderer. An empty or unknown mode means auto.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	switch mode {
	case ModeText, ModeMarkdown, ModeJSON:
	default:
		mode = ModeAuto
	}
	tty := isTerminal(out)
	styles := DefaultStyles()
	if !tty {
		styles = PlainStyles()
	}
	return &Renderer{out: out, errOut: errOut, mode: mode, isTTY: tty, styles: styles}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves auto against the output stream.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the active styles.
func (r *Renderer) Styles() Styles { return r.styles }

// Writer returns the output stream.
func (r *Renderer) Writer() io.Writer { return r.out }

// Println writes a line to the output stream.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to the output stream.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header writes a level 1 or 2 heading.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		return
	}
	if level <= 1 {
		r.Println(r.styles.Header1.Render(text))
		return
	}
	r.Println(r.styles.Header2.Render(text))
}

// Success writes a message marked as a success.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.StatusSuccess.String() + " " + r.styles.Success.Render(msg))
}

// Warning writes a warning to the error stream.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("warning: "+msg))
}

// Error writes an error to the error stream.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("error: "+msg))
}

// Muted writes secondary information.
func (r *Renderer) Muted(msg string) {
	r.Println(r.styles.Muted.Render(msg))
}

// StatusLine writes a label with a status icon and optional detail.
// Status is one of success, failed or warn.
func (r *Renderer) StatusLine(label, status, detail string) {
	icon := r.styles.StatusSuccess.String()
	switch status {
	case "failed":
		icon = r.styles.StatusFailed.String()
	case "warn":
		icon = r.styles.Warning.Render("!")
	}
	line := icon + " " + label
	if detail != "" {
		line += " " + r.styles.Muted.Render(detail)
	}
	r.Println(line)
}
