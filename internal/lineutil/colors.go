package lineutil

// 4-Point Grid Spacing System
const (
	SpacingXS = "4px"
)

// LINE Design System Colors
// Reference: https://designsystem.line.me/LDSM/foundation/color/line-color-guide-ex-en
const (
	ColorWhite   = "#FFFFFF"
	ColorGray600 = "#777777" // Secondary text
	ColorGray900 = "#111111" // Primary text

	ColorText    = ColorGray900
	ColorLabel   = "#666666" // 5.7:1 contrast ratio, WCAG AA compliant
	ColorSubtext = ColorGray600
)
