package subtitles

import (
	"fmt"
	"math"
	"strings"

	"subburn/internal/captions"
	"subburn/internal/styles"
)

// renderVariant is the concrete animation treatment a cue receives. Style
// animation types collapse onto four variants.
type renderVariant string

const (
	variantClassic renderVariant = "classic"
	variantReel    renderVariant = "reel"
	variantBounce  renderVariant = "bounce"
	variantSlide   renderVariant = "slide"
)

func variantFor(animationType string) renderVariant {
	switch strings.ToLower(strings.TrimSpace(animationType)) {
	case "reel", "fade", "typewriter":
		return variantReel
	case "bounce":
		return variantBounce
	case "slide":
		return variantSlide
	default:
		return variantClassic
	}
}

// cueDirectives builds the override block prepended to a cue's text:
// alignment, placement, and the animation tags for the style's variant.
func cueDirectives(seg captions.Segment, style styles.Style, lay layout) string {
	cueDuration := seg.End - seg.Start
	animDuration := style.Animation.Duration
	if animDuration <= 0 {
		animDuration = 0.3
	}

	var b strings.Builder
	b.WriteString("{")
	fmt.Fprintf(&b, `\an%d`, lay.alignment)

	switch variantFor(style.Animation.Type) {
	case variantReel:
		fmt.Fprintf(&b, `\pos(%d,%d)`, lay.centerX, lay.anchorY)
		writeReelTags(&b, animDuration, cueDuration)
	case variantBounce:
		fmt.Fprintf(&b, `\pos(%d,%d)`, lay.centerX, lay.anchorY)
		writeBounceTags(&b, animDuration)
	case variantSlide:
		writeSlideTags(&b, lay, animDuration, cueDuration)
	default:
		fmt.Fprintf(&b, `\pos(%d,%d)`, lay.centerX, lay.anchorY)
	}

	b.WriteString("}")
	return b.String()
}

// writeReelTags emits a scale pulse 100 -> 105 -> 100 -> 95 across three
// sub-intervals, each capped at min(animDuration, cueDuration/4).
func writeReelTags(b *strings.Builder, animDuration, cueDuration float64) {
	step := toMillis(math.Min(animDuration, cueDuration/4))
	fmt.Fprintf(b, `\t(0,%d,\fscx105\fscy105)`, step)
	fmt.Fprintf(b, `\t(%d,%d,\fscx100\fscy100)`, step, 2*step)
	fmt.Fprintf(b, `\t(%d,%d,\fscx95\fscy95)`, 2*step, 3*step)
}

// writeBounceTags emits a four-phase oscillation 100 -> 110 -> 100 -> 110 ->
// 100 over animDuration/4-sized windows.
func writeBounceTags(b *strings.Builder, animDuration float64) {
	window := toMillis(animDuration / 4)
	fmt.Fprintf(b, `\t(0,%d,\fscx110\fscy110)`, window)
	fmt.Fprintf(b, `\t(%d,%d,\fscx100\fscy100)`, window, 2*window)
	fmt.Fprintf(b, `\t(%d,%d,\fscx110\fscy110)`, 2*window, 3*window)
	fmt.Fprintf(b, `\t(%d,%d,\fscx100\fscy100)`, 3*window, 4*window)
}

// writeSlideTags emits a single horizontal move from an offset start toward
// the cue's center over min(animDuration, cueDuration/3). The cue enters from
// whichever side it is anchored toward: cues in the right half of the frame
// slide in from the right, everything else from the left.
func writeSlideTags(b *strings.Builder, lay layout, animDuration, cueDuration float64) {
	offset := math.Min(200, float64(lay.centerX)*0.3)
	direction := -1.0
	if lay.centerX > lay.playResX/2 {
		direction = 1.0
	}
	startX := lay.centerX + int(math.Round(direction*offset))
	travel := toMillis(math.Min(animDuration, cueDuration/3))
	fmt.Fprintf(b, `\move(%d,%d,%d,%d,0,%d)`, startX, lay.anchorY, lay.centerX, lay.anchorY, travel)
}

func toMillis(seconds float64) int {
	ms := int(math.Round(seconds * 1000))
	if ms < 0 {
		return 0
	}
	return ms
}
