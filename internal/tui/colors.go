package tui

// Color constants for the jornada TUI theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Primary text (labels, titles)
	ColorSecondaryText = "#B1B8C7" // Secondary text
	ColorDisabledText  = "#6D7383" // Muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors
	ColorAccentMain   = "#2563EB" // Borders, selected rows, progress start
	ColorAccentBright = "#60A5FA" // Clock, highlights, progress end

	// State Colors
	ColorError   = "#EF4444" // Failed actions
	ColorSuccess = "#22C55E" // On time, target reached
	ColorWarning = "#F59E0B" // Breaks, late check-in
)
