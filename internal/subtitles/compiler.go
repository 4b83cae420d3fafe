package subtitles

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"subburn/internal/captions"
	"subburn/internal/styles"
)

const (
	defaultPlayResX = 1080
	defaultPlayResY = 1920

	minFontSize = 16
	minOutline  = 4
	minShadow   = 3

	styleName = "Caption"
)

// Options controls document-level compilation behavior.
type Options struct {
	// Resolution is the target "WxH" string. Unparsable or empty values
	// fall back to 1080x1920.
	Resolution string

	// ForceHighContrast renders text as opaque white regardless of the
	// style's colors. Legibility minimums for outline and shadow apply
	// either way.
	ForceHighContrast bool
}

// layout carries the resolution-dependent values shared by the style header
// and every cue.
type layout struct {
	playResX  int
	playResY  int
	fontSize  int
	alignment int
	marginH   int
	marginV   int
	outline   int
	shadow    int
	centerX   int
	anchorY   int
}

// Compile renders segments styled by style into a complete ASS document.
// Segments are sorted by start time; segments with empty text or a
// non-positive duration are dropped.
func Compile(segments []captions.Segment, style styles.Style, opts Options) string {
	style = styles.Normalize(style)

	usable := make([]captions.Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.Valid() {
			usable = append(usable, seg)
		}
	}
	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].Start < usable[j].Start
	})

	lay := computeLayout(style, opts.Resolution)

	var doc strings.Builder
	writeScriptInfo(&doc, lay)
	writeStyleSection(&doc, style, lay, opts.ForceHighContrast)
	writeEvents(&doc, usable, style, lay)
	return doc.String()
}

func computeLayout(style styles.Style, resolution string) layout {
	playResX, playResY := parseResolution(resolution)

	scale := math.Min(float64(playResX)/float64(defaultPlayResX), float64(playResY)/float64(defaultPlayResY))
	if scale < 1 {
		scale = 1
	}
	fontSize := int(math.Round(style.Typography.FontSize * scale))
	if fontSize < minFontSize {
		fontSize = minFontSize
	}

	outline := int(math.Round(0.12 * float64(fontSize)))
	if outline < minOutline {
		outline = minOutline
	}
	shadow := int(math.Round(0.08 * float64(fontSize)))
	if shadow < minShadow {
		shadow = minShadow
	}

	margin := int(math.Round(style.Position.Margin))
	marginH := int(math.Round(0.05 * float64(playResX)))
	if margin > marginH {
		marginH = margin
	}
	marginV := int(math.Round(0.06 * float64(playResY)))
	if margin > marginV {
		marginV = margin
	}

	lay := layout{
		playResX: playResX,
		playResY: playResY,
		fontSize: fontSize,
		marginH:  marginH,
		marginV:  marginV,
		outline:  outline,
		shadow:   shadow,
		centerX:  playResX / 2,
	}

	switch style.Position.Type {
	case "top":
		lay.alignment = 8
		lay.anchorY = marginV
	case "center":
		lay.alignment = 5
		lay.anchorY = playResY / 2
	case "custom":
		lay.alignment = 5
		lay.centerX = int(math.Round(clampFraction(style.Position.X) * float64(playResX)))
		lay.anchorY = int(math.Round(clampFraction(style.Position.Y) * float64(playResY)))
	default:
		lay.alignment = 2
		lay.anchorY = playResY - marginV
	}

	return lay
}

func parseResolution(resolution string) (int, int) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(resolution)), "x", 2)
	if len(parts) != 2 {
		return defaultPlayResX, defaultPlayResY
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || width <= 0 {
		return defaultPlayResX, defaultPlayResY
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || height <= 0 {
		return defaultPlayResX, defaultPlayResY
	}
	return width, height
}

func clampFraction(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func writeScriptInfo(doc *strings.Builder, lay layout) {
	fmt.Fprintf(doc, "[Script Info]\n")
	fmt.Fprintf(doc, "Title: Caption Burn-In\n")
	fmt.Fprintf(doc, "ScriptType: v4.00+\n")
	fmt.Fprintf(doc, "PlayResX: %d\n", lay.playResX)
	fmt.Fprintf(doc, "PlayResY: %d\n", lay.playResY)
	fmt.Fprintf(doc, "WrapStyle: 0\n")
	fmt.Fprintf(doc, "ScaledBorderAndShadow: yes\n\n")
}

func writeStyleSection(doc *strings.Builder, style styles.Style, lay layout, forceHighContrast bool) {
	primary := assColor(style.Typography.FontColor, style.Effects.Opacity)
	if forceHighContrast {
		primary = opaqueWhite
	}

	outlineColor := assColor("#000000", 1)
	if style.Border.Enabled {
		outlineColor = assColor(style.Border.Color, 1)
	}

	backColor := assColor("#000000", 1)
	borderStyle := 1
	if style.Background.Enabled {
		borderStyle = 3
		backColor = assColor(style.Background.Color, style.Background.Opacity)
	} else if style.Shadow.Enabled {
		backColor = assColor(style.Shadow.Color, 1)
	}

	bold := 0
	if isBoldWeight(style.Typography.FontWeight) {
		bold = -1
	}

	spacing := int(math.Round(style.Typography.LetterSpacing))

	fmt.Fprintf(doc, "[V4+ Styles]\n")
	fmt.Fprintf(doc, "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(doc, "Style: %s,%s,%d,%s,%s,%s,%s,%d,0,0,0,100,100,%d,0,%d,%d,%d,%d,%d,%d,%d,1\n\n",
		styleName,
		sanitizeFontName(style.Typography.FontFamily),
		lay.fontSize,
		primary,
		primary,
		outlineColor,
		backColor,
		bold,
		spacing,
		borderStyle,
		lay.outline,
		lay.shadow,
		lay.alignment,
		lay.marginH,
		lay.marginH,
		lay.marginV,
	)
}

func writeEvents(doc *strings.Builder, segments []captions.Segment, style styles.Style, lay layout) {
	fmt.Fprintf(doc, "[Events]\n")
	fmt.Fprintf(doc, "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, seg := range segments {
		directives := cueDirectives(seg, style, lay)
		fmt.Fprintf(doc, "Dialogue: 0,%s,%s,%s,,0,0,0,,%s%s\n",
			formatTimestamp(seg.Start),
			formatTimestamp(seg.End),
			styleName,
			directives,
			escapeText(seg.Text),
		)
	}
}

func isBoldWeight(weight string) bool {
	switch strings.ToLower(strings.TrimSpace(weight)) {
	case "bold", "bolder":
		return true
	}
	if n, err := strconv.Atoi(strings.TrimSpace(weight)); err == nil {
		return n >= 600
	}
	return false
}

func sanitizeFontName(name string) string {
	cleaned := strings.TrimSpace(name)
	cleaned = strings.ReplaceAll(cleaned, ",", " ")
	if cleaned == "" {
		return "Arial"
	}
	return cleaned
}

// formatTimestamp renders seconds as H:MM:SS.cc with centisecond precision,
// hours unpadded, matching the ASS dialogue timestamp format.
func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(math.Round(seconds * 100))
	cs := total % 100
	totalSeconds := total / 100
	s := totalSeconds % 60
	m := (totalSeconds / 60) % 60
	h := totalSeconds / 3600
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

// escapeText neutralizes characters that would terminate an override block
// and converts literal newlines to ASS line breaks.
func escapeText(text string) string {
	text = strings.ReplaceAll(text, "{", "(")
	text = strings.ReplaceAll(text, "}", ")")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", `\N`)
	return strings.TrimSpace(text)
}
