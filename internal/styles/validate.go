package styles

import "fmt"

// ValidationResult reports style validation findings.
type ValidationResult struct {
	Valid  bool     `json:"isValid"`
	Errors []string `json:"errors"`
}

// Validate checks a style against the schema's value constraints. It does
// not modify the style; run Normalize first when groups may be absent.
func Validate(style Style) ValidationResult {
	var errs []string

	if style.Position.Type == "custom" {
		if style.Position.X < 0 || style.Position.X > 1 {
			errs = append(errs, fmt.Sprintf("position.x %.2f must be between 0 and 1", style.Position.X))
		}
		if style.Position.Y < 0 || style.Position.Y > 1 {
			errs = append(errs, fmt.Sprintf("position.y %.2f must be between 0 and 1", style.Position.Y))
		}
	}

	if style.Typography.FontSize < 8 || style.Typography.FontSize > 200 {
		errs = append(errs, fmt.Sprintf("typography font size %.0f must be between 8 and 200", style.Typography.FontSize))
	}
	if !IsColor(style.Typography.FontColor) {
		errs = append(errs, fmt.Sprintf("typography.fontColor %q is not a valid color", style.Typography.FontColor))
	}

	if style.Background.Enabled {
		if !IsColor(style.Background.Color) {
			errs = append(errs, fmt.Sprintf("background.color %q is not a valid color", style.Background.Color))
		}
		if style.Background.Opacity < 0 || style.Background.Opacity > 1 {
			errs = append(errs, fmt.Sprintf("background.opacity %.2f must be between 0 and 1", style.Background.Opacity))
		}
	}

	if style.Border.Enabled {
		if !IsColor(style.Border.Color) {
			errs = append(errs, fmt.Sprintf("border.color %q is not a valid color", style.Border.Color))
		}
		if style.Border.Width < 0 || style.Border.Width > 20 {
			errs = append(errs, fmt.Sprintf("border.width %.1f must be between 0 and 20", style.Border.Width))
		}
	}

	if style.Shadow.Enabled && !IsColor(style.Shadow.Color) {
		errs = append(errs, fmt.Sprintf("shadow.color %q is not a valid color", style.Shadow.Color))
	}

	if style.Effects.Opacity < 0 || style.Effects.Opacity > 1 {
		errs = append(errs, fmt.Sprintf("effects.opacity %.2f must be between 0 and 1", style.Effects.Opacity))
	}
	if style.Effects.Scale < 0.1 || style.Effects.Scale > 5 {
		errs = append(errs, fmt.Sprintf("effects.scale %.2f must be between 0.1 and 5", style.Effects.Scale))
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
