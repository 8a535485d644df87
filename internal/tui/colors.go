package tui

// Color constants for the tick theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Titles, user input
	ColorSecondaryText = "#B1B8C7" // Labels
	ColorDisabledText  = "#6D7383" // Muted text, empty cells
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240" // Dark grey for help text

	// Accent Colors
	ColorAccentMain   = "#0EA5E9" // Selected row border, tags
	ColorAccentBright = "#7DD3FC" // Headers, highlights

	// State Colors
	ColorError   = "#EF4444" // Overdue, high priority, failures
	ColorSuccess = "#22C55E" // Completed tasks
	ColorWarning = "#F59E0B" // Due soon, medium priority
)
