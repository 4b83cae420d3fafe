package styles

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RGBA is a parsed color. Channels are 0-255; Alpha is 0-1 where 1 is opaque.
type RGBA struct {
	R, G, B uint8
	Alpha   float64
}

var (
	hexPattern  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	rgbPattern  = regexp.MustCompile(`^rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
	rgbaPattern = regexp.MustCompile(`^rgba\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*([0-9]*\.?[0-9]+)\s*\)$`)
)

// IsColor reports whether value is an accepted color literal: #RGB, #RRGGBB,
// rgb(...), or rgba(...), case-insensitive.
func IsColor(value string) bool {
	_, err := ParseColor(value)
	return err == nil
}

// ParseColor parses a color literal into channel values.
func ParseColor(value string) (RGBA, error) {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	if cleaned == "" {
		return RGBA{}, fmt.Errorf("empty color")
	}

	if hexPattern.MatchString(cleaned) {
		return parseHex(cleaned)
	}
	if match := rgbPattern.FindStringSubmatch(cleaned); match != nil {
		return parseChannels(match[1], match[2], match[3], "1")
	}
	if match := rgbaPattern.FindStringSubmatch(cleaned); match != nil {
		return parseChannels(match[1], match[2], match[3], match[4])
	}
	return RGBA{}, fmt.Errorf("unsupported color %q", value)
}

func parseHex(value string) (RGBA, error) {
	digits := value[1:]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	r, err := strconv.ParseUint(digits[0:2], 16, 8)
	if err != nil {
		return RGBA{}, fmt.Errorf("parse hex color %q: %w", value, err)
	}
	g, err := strconv.ParseUint(digits[2:4], 16, 8)
	if err != nil {
		return RGBA{}, fmt.Errorf("parse hex color %q: %w", value, err)
	}
	b, err := strconv.ParseUint(digits[4:6], 16, 8)
	if err != nil {
		return RGBA{}, fmt.Errorf("parse hex color %q: %w", value, err)
	}
	return RGBA{R: uint8(r), G: uint8(g), B: uint8(b), Alpha: 1}, nil
}

func parseChannels(r, g, b, a string) (RGBA, error) {
	red, err := parseChannel(r)
	if err != nil {
		return RGBA{}, err
	}
	green, err := parseChannel(g)
	if err != nil {
		return RGBA{}, err
	}
	blue, err := parseChannel(b)
	if err != nil {
		return RGBA{}, err
	}
	alpha, err := strconv.ParseFloat(a, 64)
	if err != nil || alpha < 0 || alpha > 1 {
		return RGBA{}, fmt.Errorf("alpha %q must be between 0 and 1", a)
	}
	return RGBA{R: red, G: green, B: blue, Alpha: alpha}, nil
}

func parseChannel(value string) (uint8, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 || parsed > 255 {
		return 0, fmt.Errorf("channel %q must be between 0 and 255", value)
	}
	return uint8(parsed), nil
}
