// Package render draws history snapshots as styled text grids.
//
// Each resolved cell prints one glyph taken from its pattern: the first rune
// of a string (or fmt.Stringer) Content, else the first rune of its Name,
// else a base-36 digit of its ID. Open cells print "·" and contradicted
// cells "✗". Colors come from lipgloss and collapse to plain text when the
// output is not a terminal.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/katalvlaran/wavecollapse/history"
	"github.com/katalvlaran/wavecollapse/pattern"
	"github.com/katalvlaran/wavecollapse/wave"
)

// Glyphs for cells that are not resolved.
const (
	GlyphOpen         = "·"
	GlyphContradicted = "✗"
)

// palette cycles through pattern IDs.
var palette = []lipgloss.Color{
	"#10B981", "#60A5FA", "#F59E0B", "#A78BFA",
	"#F472B6", "#2CD7C7", "#FB923C", "#9CA3AF",
}

var (
	colorMuted = lipgloss.Color("#2C4A54")
	colorError = lipgloss.Color("#E74C3C")
)

// Option customizes a Renderer.
type Option func(*Renderer)

// WithRenderer draws through re instead of lipgloss's default renderer,
// which detects the color profile of stdout.
func WithRenderer(re *lipgloss.Renderer) Option {
	if re == nil {
		panic("render: WithRenderer(nil)")
	}
	return func(r *Renderer) {
		r.re = re
	}
}

// Renderer draws elements of one library.
type Renderer struct {
	lib    *pattern.Library
	re     *lipgloss.Renderer
	glyphs []string
	tiles  []lipgloss.Style
	open   lipgloss.Style
	broken lipgloss.Style
	title  lipgloss.Style
}

// New prepares glyphs and styles for every pattern of lib.
func New(lib *pattern.Library, opts ...Option) *Renderer {
	r := &Renderer{lib: lib, re: lipgloss.DefaultRenderer()}
	for _, opt := range opts {
		opt(r)
	}

	ps := lib.Patterns()
	r.glyphs = make([]string, len(ps))
	r.tiles = make([]lipgloss.Style, len(ps))
	for i, p := range ps {
		r.glyphs[i] = Glyph(p)
		r.tiles[i] = r.re.NewStyle().Foreground(palette[i%len(palette)])
	}
	r.open = r.re.NewStyle().Foreground(colorMuted)
	r.broken = r.re.NewStyle().Foreground(colorError).Bold(true)
	r.title = r.re.NewStyle().Bold(true)

	return r
}

// Glyph returns the single-rune symbol used for p.
func Glyph(p pattern.Pattern) string {
	var s string
	switch c := p.Content.(type) {
	case string:
		s = c
	case fmt.Stringer:
		s = c.String()
	}
	if s == "" {
		s = p.Name
	}
	if s == "" {
		return strconv.FormatInt(int64(p.ID)%36, 36)
	}
	ch, _ := utf8.DecodeRuneInString(s)

	return string(ch)
}

// Element draws e as Height lines of Width glyphs.
func (r *Renderer) Element(e history.Element) string {
	var b strings.Builder
	for y, row := range e.Labels {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, l := range row {
			b.WriteString(r.cell(l))
		}
	}

	return b.String()
}

func (r *Renderer) cell(label int) string {
	switch {
	case label == wave.LabelContradicted:
		return r.broken.Render(GlyphContradicted)
	case label < 0:
		return r.open.Render(GlyphOpen)
	case label < len(r.glyphs):
		return r.tiles[label].Render(r.glyphs[label])
	default:
		return r.broken.Render("?")
	}
}

// Frame draws e under a "step N" title.
func (r *Renderer) Frame(e history.Element) string {
	return r.title.Render(fmt.Sprintf("step %d", e.Step)) + "\n" + r.Element(e)
}

// History draws every snapshot of h as a frame, separated by blank lines.
func (r *Renderer) History(h *history.History) string {
	elems := h.Elements()
	frames := make([]string, len(elems))
	for i, e := range elems {
		frames[i] = r.Frame(e)
	}

	return strings.Join(frames, "\n\n")
}

// Legend lists each pattern's glyph, name and weight, one per line.
func (r *Renderer) Legend() string {
	var b strings.Builder
	for i, p := range r.lib.Patterns() {
		if i > 0 {
			b.WriteByte('\n')
		}
		name := p.Name
		if name == "" {
			name = "#" + strconv.Itoa(int(p.ID))
		}
		fmt.Fprintf(&b, "%s %s (%g)", r.tiles[i].Render(r.glyphs[i]), name, p.Weight)
	}

	return b.String()
}
