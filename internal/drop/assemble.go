package drop

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/eykd/imgdrop-go/internal/snippet"
)

// Style selects the markup emitted for each resource.
type Style string

const (
	// StyleAuto emits images for image extensions and links for everything else.
	StyleAuto Style = "auto"
	// StyleImage always emits ![caption](path).
	StyleImage Style = "image"
	// StyleLink always emits [caption](path).
	StyleLink Style = "link"
)

// Caption selects the default text of each caption placeholder.
type Caption string

const (
	// CaptionNone leaves placeholders empty.
	CaptionNone Caption = "none"
	// CaptionName uses the source file name.
	CaptionName Caption = "name"
	// CaptionStem uses the source file name without its extension.
	CaptionStem Caption = "stem"
)

// Markup configures the assembler.
type Markup struct {
	Style   Style
	Caption Caption
}

// ParseStyle validates s as a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleAuto, StyleImage, StyleLink:
		return Style(s), nil
	}
	return "", fmt.Errorf("style must be auto, image, or link, got %q", s)
}

// ParseCaption validates s as a Caption.
func ParseCaption(s string) (Caption, error) {
	switch Caption(s) {
	case CaptionNone, CaptionName, CaptionStem:
		return Caption(s), nil
	}
	return "", fmt.Errorf("caption must be none, name, or stem, got %q", s)
}

var imageExts = map[string]bool{
	".apng": true, ".avif": true, ".bmp": true, ".gif": true, ".ico": true,
	".jpeg": true, ".jpg": true, ".png": true, ".svg": true, ".tif": true,
	".tiff": true, ".webp": true,
}

// IsImageExt reports whether ext (with leading dot) names an image format.
func IsImageExt(ext string) bool {
	return imageExts[strings.ToLower(ext)]
}

// Assemble builds the composite snippet for outcomes, which must be in
// payload order. Each resolved outcome contributes one line with the next
// placeholder number; failed outcomes contribute nothing.
func Assemble(dir string, outcomes []Outcome, m Markup) *snippet.String {
	s := snippet.New()
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		if m.image(o) {
			s.AppendText("!")
		}
		s.AppendText("[")
		s.AppendPlaceholder(m.caption(o))
		s.AppendText("](" + LinkDestination(relativePath(dir, o.Path)) + ")\n")
	}
	return s
}

func (m Markup) image(o Outcome) bool {
	switch m.Style {
	case StyleImage:
		return true
	case StyleLink:
		return false
	default:
		return IsImageExt(filepath.Ext(o.Path))
	}
}

func (m Markup) caption(o Outcome) string {
	name := o.Resource.Name()
	var c string
	switch m.Caption {
	case CaptionName:
		c = name
	case CaptionStem:
		c = strings.TrimSuffix(name, o.Resource.Ext())
	default:
		return ""
	}
	return captionEscaper.Replace(c)
}

// captionEscaper escapes Markdown characters that would end the link text early.
var captionEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`)

// relativePath returns target relative to dir with forward slashes, or the
// slash form of target when no relative path exists.
func relativePath(dir, target string) string {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

// LinkDestination formats p as a single-line CommonMark link destination.
// Bytes that could end or split the destination are percent-encoded, as are
// '%' and '\' so the result decodes back to p.
func LinkDestination(p string) string {
	var b strings.Builder
	b.Grow(len(p))
	for i := 0; i < len(p); i++ {
		c := p[i]
		if needsPercentEncoding(c) {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func needsPercentEncoding(c byte) bool {
	if c < 0x20 || c == 0x7f {
		return true
	}
	switch c {
	case ' ', '(', ')', '<', '>', '\\', '%':
		return true
	}
	return false
}
