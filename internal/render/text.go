package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/vk/calcform/internal/calculator"
	"github.com/vk/calcform/internal/config"
	"github.com/vk/calcform/internal/rules"
)

// Width is the column width result blocks are aligned in.
const Width = 48

var (
	colorPass   = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorFail   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

// Options tune text output.
type Options struct {
	// Color enables ANSI colors when the writer supports them.
	Color bool
}

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	results map[rules.Style]lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(colorAccent),
		section: r.NewStyle().Bold(true).Underline(true),
		label:   r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(colorMuted),
		results: map[rules.Style]lipgloss.Style{
			rules.StyleDefault: r.NewStyle(),
			rules.StyleSuccess: r.NewStyle().Foreground(colorPass),
			rules.StyleWarning: r.NewStyle().Foreground(colorWarn).Bold(true),
			rules.StyleError:   r.NewStyle().Foreground(colorFail).Bold(true),
		},
	}
}

func (s styles) result(style rules.Style) lipgloss.Style {
	if st, ok := s.results[style]; ok {
		return st
	}
	return s.results[rules.StyleDefault]
}

// Text writes a human-readable rendering of view to w.
func Text(w io.Writer, view calculator.View, opts Options) error {
	r := lipgloss.NewRenderer(w)
	if !opts.Color {
		r.SetColorProfile(termenv.Ascii)
	}
	st := newStyles(r)

	var b strings.Builder
	if view.Name != "" {
		b.WriteString(st.title.Render(view.Name))
		b.WriteString("\n")
	}
	if view.Description != "" {
		b.WriteString(st.muted.Render(view.Description))
		b.WriteString("\n")
	}
	if len(view.Sections) == 0 {
		b.WriteString(st.muted.Render("This calculator has no sections."))
		b.WriteString("\n")
	}

	for _, s := range view.Sections {
		b.WriteString("\n")
		name := s.Name
		if name == "" {
			name = s.ID
		}
		b.WriteString(st.section.Render(strings.ToUpper(name)))
		b.WriteString("\n")

		for _, row := range s.Rows {
			for _, col := range row.Columns {
				for _, c := range col.Components {
					writeComponent(&b, st, c)
				}
			}
		}
		for _, l := range s.Lines {
			b.WriteString("  ")
			b.WriteString(st.result(l.Style).Render(l.Text))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeComponent(b *strings.Builder, st styles, c calculator.ComponentView) {
	switch {
	case c.Type == config.Text, c.Type == config.ResultRegular, c.Type == config.ResultConditional:
		style := st.result(c.Style).Width(Width).Align(alignment(c.TextAlign))
		if c.FontSize == "large" || c.FontSize == "xlarge" {
			style = style.Bold(true)
		}
		fmt.Fprintf(b, "  %s\n", strings.TrimRight(style.Render(c.Text), " "))

	case c.Type == config.Checkboxes:
		fmt.Fprintf(b, "  %s %s\n", st.label.Render(label(c)+":"), c.Text)
		for _, opt := range c.Options {
			box := "[ ]"
			if opt.Selected {
				box = "[x]"
			}
			fmt.Fprintf(b, "    %s %s\n", box, opt.Label)
		}

	default:
		fmt.Fprintf(b, "  %s %s%s%s\n", st.label.Render(label(c)+":"), c.Prefix, c.Text, c.Suffix)
	}
}

func label(c calculator.ComponentView) string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}

func alignment(textAlign string) lipgloss.Position {
	switch textAlign {
	case "center":
		return lipgloss.Center
	case "right":
		return lipgloss.Right
	default:
		return lipgloss.Left
	}
}

// JSON writes view to w as indented JSON.
func JSON(w io.Writer, view calculator.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
