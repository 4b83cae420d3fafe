package styles

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Position anchors the caption block. X and Y are fractional (0-1) and only
// meaningful when Type is "custom".
type Position struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Margin float64 `json:"margin"`
}

// Typography describes the caption text face.
type Typography struct {
	FontFamily    string  `json:"fontFamily"`
	FontSize      float64 `json:"fontSize"`
	FontWeight    string  `json:"fontWeight"`
	FontColor     string  `json:"fontColor"`
	TextAlign     string  `json:"textAlign"`
	LineHeight    float64 `json:"lineHeight"`
	LetterSpacing float64 `json:"letterSpacing"`
}

// Padding is the inset between caption text and its background box.
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Background describes the box rendered behind caption text.
type Background struct {
	Enabled      bool    `json:"enabled"`
	Color        string  `json:"color"`
	Opacity      float64 `json:"opacity"`
	BorderRadius float64 `json:"borderRadius"`
	Padding      Padding `json:"padding"`
}

// Border describes the text outline.
type Border struct {
	Enabled bool    `json:"enabled"`
	Color   string  `json:"color"`
	Width   float64 `json:"width"`
	Style   string  `json:"style"`
}

// Shadow describes the drop shadow behind caption text.
type Shadow struct {
	Enabled bool    `json:"enabled"`
	Color   string  `json:"color"`
	Blur    float64 `json:"blur"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Animation selects the per-cue entrance treatment. Duration and Delay are
// seconds.
type Animation struct {
	Type     string  `json:"type"`
	Duration float64 `json:"duration"`
	Delay    float64 `json:"delay"`
	Easing   string  `json:"easing"`
}

// Effects applies whole-block adjustments.
type Effects struct {
	Opacity  float64 `json:"opacity"`
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale"`
	Blur     float64 `json:"blur"`
}

// Style is the canonical nested caption style. A normalized Style always has
// all seven groups populated before it reaches the subtitle compiler.
type Style struct {
	Position   Position   `json:"position"`
	Typography Typography `json:"typography"`
	Background Background `json:"background"`
	Border     Border     `json:"border"`
	Shadow     Shadow     `json:"shadow"`
	Animation  Animation  `json:"animation"`
	Effects    Effects    `json:"effects"`
}

var nestedGroupKeys = []string{"position", "typography", "background", "border", "shadow", "animation", "effects"}

// Decode parses a style payload that may be either the nested shape or the
// legacy flat shape, returning the nested form. Empty input yields the
// built-in default style.
func Decode(data []byte) (Style, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" || trimmed == "{}" {
		return DefaultStyle(), nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Style{}, fmt.Errorf("parse style: %w", err)
	}

	// The legacy flat shape also carries a "position" key, but as a bare
	// string. A group key only signals the nested shape when its value is
	// an object.
	nested := false
	for _, key := range nestedGroupKeys {
		raw, ok := probe[key]
		if !ok {
			continue
		}
		if trimmedRaw := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmedRaw, "{") {
			nested = true
			break
		}
	}

	if !nested {
		var legacy legacyStyle
		if err := json.Unmarshal(data, &legacy); err != nil {
			return Style{}, fmt.Errorf("parse legacy style: %w", err)
		}
		return fromLegacy(legacy), nil
	}

	var style Style
	if err := json.Unmarshal(data, &style); err != nil {
		return Style{}, fmt.Errorf("parse style: %w", err)
	}
	return style, nil
}
