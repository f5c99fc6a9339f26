package styles

// DefaultTheme is the baseline palette.
var DefaultTheme = Theme{
	Name: "default",
	Tokens: ThemeTokens{
		Background:      "#0B0F14",
		Panel:           "#121821",
		Text:            "#E6EDF3",
		TextMuted:       "#8B9AAE",
		Border:          "#223043",
		Accent:          "#C678DD",
		Focus:           "#E0A4F5",
		Success:         "#3FB950",
		Warning:         "#D29922",
		Error:           "#F85149",
		Info:            "#58A6FF",
		BubbleAssistant: "#C678DD",
		BubbleUser:      "#58A6FF",
	},
}
