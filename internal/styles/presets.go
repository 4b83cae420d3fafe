package styles

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultStyle returns the built-in fully-populated style used to fill
// missing groups during normalization. It matches the "classic" preset.
func DefaultStyle() Style {
	return presetClassic()
}

// PresetNames lists the known preset identifiers.
func PresetNames() []string {
	return []string{"reel", "classic", "modern", "minimal"}
}

// FromPreset returns the named preset merged with optional JSON overrides.
// Overrides merge field-wise per top-level group: decoding onto the populated
// preset only replaces the fields the override actually carries. Unknown
// preset names fall back to "classic".
func FromPreset(name string, overrides []byte) (Style, error) {
	style := presetByName(name)
	if trimmed := strings.TrimSpace(string(overrides)); trimmed != "" && trimmed != "null" {
		if err := json.Unmarshal(overrides, &style); err != nil {
			return Style{}, fmt.Errorf("parse style overrides: %w", err)
		}
	}
	return style, nil
}

func presetByName(name string) Style {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "reel":
		return presetReel()
	case "modern":
		return presetModern()
	case "minimal":
		return presetMinimal()
	default:
		return presetClassic()
	}
}

func presetClassic() Style {
	return Style{
		Position: Position{Type: "bottom", Margin: 50},
		Typography: Typography{
			FontFamily: "Arial",
			FontSize:   48,
			FontWeight: "bold",
			FontColor:  "#FFFFFF",
			TextAlign:  "center",
			LineHeight: 1.2,
		},
		Background: Background{
			Enabled:      true,
			Color:        "#000000",
			Opacity:      0.7,
			BorderRadius: 8,
			Padding:      Padding{Top: 8, Right: 16, Bottom: 8, Left: 16},
		},
		Border:    Border{Enabled: false, Color: "#000000", Width: 2, Style: "solid"},
		Shadow:    Shadow{Enabled: true, Color: "#000000", Blur: 4, OffsetX: 2, OffsetY: 2},
		Animation: Animation{Type: "none", Duration: 0.3, Easing: "ease-in-out"},
		Effects:   Effects{Opacity: 1, Scale: 1},
	}
}

func presetReel() Style {
	return Style{
		Position: Position{Type: "bottom", Margin: 80},
		Typography: Typography{
			FontFamily: "Montserrat",
			FontSize:   64,
			FontWeight: "bold",
			FontColor:  "#FFFFFF",
			TextAlign:  "center",
			LineHeight: 1.1,
		},
		Background: Background{
			Enabled:      true,
			Color:        "#000000",
			Opacity:      0.6,
			BorderRadius: 12,
			Padding:      Padding{Top: 12, Right: 24, Bottom: 12, Left: 24},
		},
		Border:    Border{Enabled: false, Color: "#000000", Width: 2, Style: "solid"},
		Shadow:    Shadow{Enabled: true, Color: "#000000", Blur: 6, OffsetY: 3},
		Animation: Animation{Type: "reel", Duration: 0.3, Easing: "ease-out"},
		Effects:   Effects{Opacity: 1, Scale: 1},
	}
}

func presetModern() Style {
	return Style{
		Position: Position{Type: "bottom", Margin: 64},
		Typography: Typography{
			FontFamily: "Helvetica",
			FontSize:   52,
			FontWeight: "600",
			FontColor:  "#FFFFFF",
			TextAlign:  "center",
			LineHeight: 1.3,
		},
		Background: Background{
			Enabled: false,
			Color:   "#000000",
			Opacity: 0.5,
			Padding: Padding{Top: 6, Right: 12, Bottom: 6, Left: 12},
		},
		Border:    Border{Enabled: true, Color: "#FFFFFF", Width: 2, Style: "solid"},
		Shadow:    Shadow{Enabled: true, Color: "#000000", Blur: 8, OffsetY: 2},
		Animation: Animation{Type: "slide", Duration: 0.4, Easing: "ease-out"},
		Effects:   Effects{Opacity: 1, Scale: 1},
	}
}

func presetMinimal() Style {
	return Style{
		Position: Position{Type: "bottom", Margin: 40},
		Typography: Typography{
			FontFamily: "Arial",
			FontSize:   40,
			FontWeight: "normal",
			FontColor:  "#FFFFFF",
			TextAlign:  "center",
			LineHeight: 1.2,
		},
		Background: Background{
			Enabled: false,
			Color:   "#000000",
			Opacity: 0.5,
			Padding: Padding{Top: 4, Right: 8, Bottom: 4, Left: 8},
		},
		Border:    Border{Enabled: false, Color: "#000000", Width: 1, Style: "solid"},
		Shadow:    Shadow{Enabled: false, Color: "#000000", Blur: 2, OffsetY: 1},
		Animation: Animation{Type: "none", Duration: 0.2, Easing: "linear"},
		Effects:   Effects{Opacity: 1, Scale: 1},
	}
}
