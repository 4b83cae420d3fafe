package styles

import "strings"

// legacyStyle is the single-level style shape accepted from older clients.
// It is translated into the nested shape via a fixed field mapping before
// validation.
type legacyStyle struct {
	FontFamily        string   `json:"fontFamily"`
	FontSize          float64  `json:"fontSize"`
	FontWeight        string   `json:"fontWeight"`
	Color             string   `json:"color"`
	TextAlign         string   `json:"textAlign"`
	Position          string   `json:"position"`
	Margin            float64  `json:"margin"`
	BackgroundColor   string   `json:"backgroundColor"`
	BackgroundOpacity *float64 `json:"backgroundOpacity"`
	BorderColor       string   `json:"borderColor"`
	BorderWidth       *float64 `json:"borderWidth"`
	ShadowColor       string   `json:"shadowColor"`
	Animation         string   `json:"animation"`
	AnimationDuration *float64 `json:"animationDuration"`
	Opacity           *float64 `json:"opacity"`
}

func fromLegacy(legacy legacyStyle) Style {
	style := DefaultStyle()

	if v := strings.TrimSpace(legacy.FontFamily); v != "" {
		style.Typography.FontFamily = v
	}
	if legacy.FontSize > 0 {
		style.Typography.FontSize = legacy.FontSize
	}
	if v := strings.TrimSpace(legacy.FontWeight); v != "" {
		style.Typography.FontWeight = v
	}
	if v := strings.TrimSpace(legacy.Color); v != "" {
		style.Typography.FontColor = v
	}
	if v := strings.TrimSpace(legacy.TextAlign); v != "" {
		style.Typography.TextAlign = v
	}
	if v := strings.TrimSpace(legacy.Position); v != "" {
		style.Position.Type = strings.ToLower(v)
	}
	if legacy.Margin > 0 {
		style.Position.Margin = legacy.Margin
	}
	if v := strings.TrimSpace(legacy.BackgroundColor); v != "" {
		style.Background.Enabled = true
		style.Background.Color = v
	}
	if legacy.BackgroundOpacity != nil {
		style.Background.Opacity = *legacy.BackgroundOpacity
	}
	if v := strings.TrimSpace(legacy.BorderColor); v != "" {
		style.Border.Enabled = true
		style.Border.Color = v
	}
	if legacy.BorderWidth != nil {
		style.Border.Enabled = true
		style.Border.Width = *legacy.BorderWidth
	}
	if v := strings.TrimSpace(legacy.ShadowColor); v != "" {
		style.Shadow.Enabled = true
		style.Shadow.Color = v
	}
	if v := strings.TrimSpace(legacy.Animation); v != "" {
		style.Animation.Type = strings.ToLower(v)
	}
	if legacy.AnimationDuration != nil {
		style.Animation.Duration = *legacy.AnimationDuration
	}
	if legacy.Opacity != nil {
		style.Effects.Opacity = *legacy.Opacity
	}

	return style
}
