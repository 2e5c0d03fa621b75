package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
	"github.com/leefowlercu/graphiti-claude-integration/pkg/types"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Color modes accepted by ColorEnabled
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorEnabled decides whether output written to w is colored
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type styles struct {
	ok   lipgloss.Style
	bad  lipgloss.Style
	warn lipgloss.Style
	dim  lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return styles{
		ok:   r.NewStyle().Foreground(lipgloss.Color("2")),
		bad:  r.NewStyle().Foreground(lipgloss.Color("1")),
		warn: r.NewStyle().Foreground(lipgloss.Color("3")),
		dim:  r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// SummaryLine builds the closing line of an install or uninstall run
func SummaryLine(s types.Summary) string {
	hooksOK, hooksFailed := s.Counts(types.KindHook)
	rulesOK, rulesFailed := s.Counts(types.KindRule)

	var sb strings.Builder
	switch s.Operation {
	case "uninstall":
		sb.WriteString("Uninstall complete: removed ")
	default:
		sb.WriteString("Installation complete: ")
	}

	sb.WriteString(strconv.Itoa(hooksOK))
	sb.WriteString(plural(hooksOK, " hook", " hooks"))
	sb.WriteString(", ")
	sb.WriteString(strconv.Itoa(rulesOK))
	sb.WriteString(plural(rulesOK, " rule", " rules"))

	if s.Migrated > 0 {
		sb.WriteString(", migrated ")
		sb.WriteString(strconv.Itoa(s.Migrated))
		sb.WriteString(" legacy")
		sb.WriteString(plural(s.Migrated, " file", " files"))
	}

	if failed := s.Failed(); failed > 0 {
		sb.WriteString(" (")
		sb.WriteString(strconv.Itoa(failed))
		sb.WriteString(" failed")
		if hooksFailed+rulesFailed > 0 {
			sb.WriteString(": ")
			sb.WriteString(strconv.Itoa(hooksFailed))
			sb.WriteString(plural(hooksFailed, " hook", " hooks"))
			sb.WriteString(", ")
			sb.WriteString(strconv.Itoa(rulesFailed))
			sb.WriteString(plural(rulesFailed, " rule", " rules"))
		}
		sb.WriteString(")")
	}

	return sb.String()
}

// RenderStatus writes the human-readable status report
func RenderStatus(w io.Writer, r types.StatusReport, color bool) {
	st := newStyles(w, color)

	installed := func(ok, legacy bool) string {
		switch {
		case ok && legacy:
			return st.warn.Render("Installed (legacy layout)")
		case ok:
			return st.ok.Render("Installed")
		default:
			return st.bad.Render("Not installed")
		}
	}

	fmt.Fprintf(w, "\n=== %s Status ===\n", manifest.PackageName)
	fmt.Fprintf(w, "Target: %s\n\n", r.Target)

	for _, f := range r.Files {
		label := "rules/" + f.Name
		if f.Kind == types.KindHook {
			label = f.Category + "/" + f.Name
		}
		fmt.Fprintf(w, "  %s: %s\n", label, installed(f.Installed, f.Legacy))
	}

	fmt.Fprintf(w, "\nShared library (%s):\n", manifest.CoreProvider)
	for _, lib := range manifest.SharedLibrary() {
		fmt.Fprintf(w, "  %s: %s\n", lib, installed(r.SharedLibrary, false))
	}
	if !r.SharedLibrary {
		fmt.Fprintf(w, "  %s\n", st.dim.Render("-> Will be installed automatically from "+manifest.CoreProvider))
	}

	stateLine := st.bad.Render("Not found")
	if r.StateFile {
		stateLine = st.ok.Render("Exists")
	}
	fmt.Fprintf(w, "\nState file: %s\n", stateLine)
	fmt.Fprintf(w, "Settings registrations: %d\n", r.Registrations)

	overall := st.bad.Render("Not fully installed")
	if r.FullyInstalled {
		overall = st.ok.Render("Fully installed")
	}
	fmt.Fprintf(w, "\nOverall: %s\n\n", overall)
}

// RenderStatusJSON writes the status report as indented JSON
func RenderStatusJSON(w io.Writer, r types.StatusReport) error {
	if r.Files == nil {
		r.Files = []types.FileStatus{}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status; %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write status; %w", err)
	}

	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
