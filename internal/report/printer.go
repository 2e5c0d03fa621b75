package report

import (
	"fmt"
	"io"
	"log/slog"
)

// Printer writes the user-visible progress lines of a run. Every warning and
// error is also mirrored into the structured logger.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	prefix string
	logger *slog.Logger
}

// NewPrinter creates a printer that tags lines with the package name
func NewPrinter(out, errOut io.Writer, packageName string, logger *slog.Logger) *Printer {
	return &Printer{
		out:    out,
		errOut: errOut,
		prefix: "[" + packageName + "] ",
		logger: logger,
	}
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.out, p.prefix+format+"\n", args...)
}

func (p *Printer) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.out, "%sWARNING: %s\n", p.prefix, msg)
	p.logger.Warn(msg)
}

// Error prints an error line and logs it with optional structured attributes
func (p *Printer) Error(msg string, err error, attrs ...any) {
	line := msg
	if err != nil {
		line = fmt.Sprintf("%s: %v", msg, err)
		attrs = append(attrs, "error", err)
	}
	fmt.Fprintf(p.errOut, "%sERROR: %s\n", p.prefix, line)
	p.logger.Error(msg, attrs...)
}

// Out returns the writer used for normal output
func (p *Printer) Out() io.Writer {
	return p.out
}
