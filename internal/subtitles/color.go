package subtitles

import (
	"fmt"
	"math"

	"subburn/internal/styles"
)

const opaqueWhite = "&H00FFFFFF"

// assColor converts a CSS-style color plus an opacity into ASS &HAABBGGRR
// form. ASS alpha is inverted: 00 is opaque, FF is transparent. Colors that
// fail to parse render as opaque white so a bad style never produces
// invisible text.
func assColor(value string, opacity float64) string {
	parsed, err := styles.ParseColor(value)
	if err != nil {
		return opaqueWhite
	}
	combined := parsed.Alpha
	if opacity >= 0 && opacity <= 1 {
		combined *= opacity
	}
	alpha := int(math.Round(255 * (1 - combined)))
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 255 {
		alpha = 255
	}
	return fmt.Sprintf("&H%02X%02X%02X%02X", alpha, parsed.B, parsed.G, parsed.R)
}
