package styles

// Normalize fills absent top-level groups with built-in defaults. It never
// repairs invalid values, only missing groups: a group equal to its zero
// value is treated as absent. Normalize is idempotent.
func Normalize(style Style) Style {
	defaults := DefaultStyle()

	if style.Position == (Position{}) {
		style.Position = defaults.Position
	}
	if style.Typography == (Typography{}) {
		style.Typography = defaults.Typography
	}
	if style.Background == (Background{}) {
		style.Background = defaults.Background
	}
	if style.Border == (Border{}) {
		style.Border = defaults.Border
	}
	if style.Shadow == (Shadow{}) {
		style.Shadow = defaults.Shadow
	}
	if style.Animation == (Animation{}) {
		style.Animation = defaults.Animation
	}
	if style.Effects == (Effects{}) {
		style.Effects = defaults.Effects
	}

	return style
}
