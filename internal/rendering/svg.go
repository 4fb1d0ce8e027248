package rendering

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/jonathan/creative-engine/internal/types"
)

// SVGMIMEType is the media type of SVGRenderer artifacts.
const SVGMIMEType = "image/svg+xml"

const (
	logoSize    = 140
	minFontSize = 12
)

var fontCaps = map[types.TextElement]int{
	types.ElementJobTitle: 40,
	types.ElementHeadline: 64,
	types.ElementSubline:  32,
	types.ElementBenefits: 28,
	types.ElementLocation: 24,
	types.ElementCTA:      36,
}

const svgTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="{{.Size}}" height="{{.Size}}" viewBox="0 0 {{.Size}} {{.Size}}">
<image href="data:{{.MIMEType}};base64,{{.Image}}" x="0" y="0" width="{{.Size}}" height="{{.Size}}" preserveAspectRatio="xMidYMid slice"/>
{{- range .Texts}}
<text data-element="{{.Element}}" x="{{.X}}" y="{{.Y}}" font-family="{{esc $.Font}}" font-size="{{.FontSize}}" fill="{{.Color}}" text-anchor="{{$.Anchor}}">
{{- range .Lines}}<tspan x="{{.X}}" dy="{{.DY}}">{{esc .Text}}</tspan>{{end -}}
</text>
{{- end}}
{{- with .Logo}}
<image data-element="logo" href="{{esc .URL}}" x="{{.X}}" y="{{.Y}}" width="{{.Size}}" height="{{.Size}}"/>
{{- end}}
</svg>
`

// SVGRenderer renders locally into an SVG document that embeds the base
// image. It needs no external service.
type SVGRenderer struct {
	tmpl *template.Template
}

// NewSVGRenderer parses the overlay template.
func NewSVGRenderer() (*SVGRenderer, error) {
	tmpl, err := template.New("overlay").Funcs(template.FuncMap{"esc": EscapeXML}).Parse(svgTemplate)
	if err != nil {
		return nil, &TemplateError{Cause: err}
	}
	return &SVGRenderer{tmpl: tmpl}, nil
}

type svgText struct {
	Element  types.TextElement
	X, Y     int
	FontSize int
	Color    string
	Lines    []svgLine
}

// svgLine is one tspan; DY is the offset from the previous line.
type svgLine struct {
	X    int
	DY   int
	Text string
}

type svgLogo struct {
	URL  string
	X, Y int
	Size int
}

type svgData struct {
	Size     int
	MIMEType string
	Image    string
	Font     string
	Anchor   string
	Texts    []svgText
	Logo     *svgLogo
}

// Render implements Renderer.
func (r *SVGRenderer) Render(ctx context.Context, base types.BaseImage, layout types.LayoutStrategy) (types.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return types.Artifact{}, err
	}
	if len(base.Data) == 0 {
		return types.Artifact{}, &RenderError{Combination: layout.Combination.Key(), Reason: "base image is empty"}
	}
	if len(layout.Placements) == 0 {
		return types.Artifact{}, &RenderError{Combination: layout.Combination.Key(), Reason: "layout has no placements"}
	}

	data := svgData{
		Size:     types.CanvasSize,
		MIMEType: base.MIMEType,
		Image:    base64.StdEncoding.EncodeToString(base.Data),
		Font:     layout.Font.Family,
		Anchor:   "start",
	}
	centered := layout.CompositionApproach == "centered"
	if centered {
		data.Anchor = "middle"
	}

	for _, p := range layout.Placements {
		size, wrapped := fitText(p)
		x := p.Box.X
		if centered {
			x = p.Box.X + p.Box.Width/2
		}
		lines := make([]svgLine, len(wrapped))
		for i, text := range wrapped {
			dy := 0
			if i > 0 {
				dy = size * 6 / 5
			}
			lines[i] = svgLine{X: x, DY: dy, Text: text}
		}
		data.Texts = append(data.Texts, svgText{
			Element:  p.Element,
			X:        x,
			Y:        p.Box.Y + size,
			FontSize: size,
			Color:    p.Color,
			Lines:    lines,
		})
	}

	if layout.Logo != nil && layout.LogoPosition != types.LogoNone {
		x, y := logoOrigin(layout.LogoPosition)
		data.Logo = &svgLogo{URL: layout.Logo.URL, X: x, Y: y, Size: logoSize}
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return types.Artifact{}, &TemplateError{Combination: layout.Combination.Key(), Cause: err}
	}
	return types.Artifact{MIMEType: SVGMIMEType, Size: buf.Len(), Data: buf.Bytes()}, nil
}

// fontSize fits the lines of a placement into its box height, capped per
// element.
func fontSize(p types.Placement) int {
	lines := max(len(p.Lines), 1)
	size := p.Box.Height * 4 / (5 * lines)
	return max(min(size, fontCaps[p.Element]), minFontSize)
}

// fitText wraps a placement's lines to its box width and shrinks the font
// until the wrapped lines also fit the box height. At the minimum size the
// width still holds; only the height may overflow.
func fitText(p types.Placement) (int, []string) {
	size := fontSize(p)
	for {
		lines := wrapLines(p.Lines, maxChars(p.Box.Width, size))
		fitted := fontSize(types.Placement{Element: p.Element, Box: p.Box, Lines: lines})
		if size <= minFontSize || fitted >= size {
			return size, lines
		}
		size--
	}
}

// estimatedWidth approximates the rendered width of text using an average
// glyph advance of 0.55em.
func estimatedWidth(text string, size int) int {
	return utf8.RuneCountInString(text) * size * 11 / 20
}

func maxChars(width, size int) int {
	return max(width*20/(size*11), 1)
}

// wrapLines breaks lines at spaces so none exceeds limit characters. Words
// longer than limit are split.
func wrapLines(lines []string, limit int) []string {
	var out []string
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, line)
			continue
		}
		current := ""
		for _, word := range words {
			for utf8.RuneCountInString(word) > limit {
				if current != "" {
					out = append(out, current)
					current = ""
				}
				r := []rune(word)
				out = append(out, string(r[:limit]))
				word = string(r[limit:])
			}
			switch {
			case current == "":
				current = word
			case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= limit:
				current += " " + word
			default:
				out = append(out, current)
				current = word
			}
		}
		if current != "" {
			out = append(out, current)
		}
	}
	return out
}

func logoOrigin(pos types.LogoPosition) (int, int) {
	near := types.MinTextMargin
	far := types.CanvasSize - types.MinTextMargin - logoSize
	switch pos {
	case types.LogoTopLeft:
		return near, near
	case types.LogoTopRight:
		return far, near
	case types.LogoBottomLeft:
		return near, far
	default:
		return far, far
	}
}
