package charts

// Fixed color cycle shared by all charts.
var palette = []string{
	"#3b82f6", // blue
	"#10b981", // green
	"#f59e0b", // amber
	"#ef4444", // red
	"#8b5cf6", // violet
	"#06b6d4", // cyan
	"#f97316", // orange
	"#ec4899", // pink
	"#84cc16", // lime
	"#64748b", // slate
}

// Color returns the palette entry for an index, cycling past the end.
func Color(index int) string {
	if index < 0 {
		index = -index
	}
	return palette[index%len(palette)]
}

// PaletteSize is the length of the color cycle.
func PaletteSize() int {
	return len(palette)
}

const (
	// targetOpacityStep fades each successive target of a tool.
	targetOpacityStep = 0.15
	// targetOpacityFloor keeps deep target segments visible.
	targetOpacityFloor = 0.35
	// otherOpacity marks the synthetic shortfall segment.
	otherOpacity = 0.25
)

// TargetOpacity returns the opacity for the nth target segment of a tool.
func TargetOpacity(index int) float64 {
	op := 1.0 - targetOpacityStep*float64(index)
	if op < targetOpacityFloor {
		return targetOpacityFloor
	}
	return op
}
