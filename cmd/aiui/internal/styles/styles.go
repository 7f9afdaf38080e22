package styles

import "github.com/charmbracelet/lipgloss"

// GitHub terminal light theme palette.
var (
	ColorMuted   = lipgloss.Color("#656d76") // muted/dim text
	ColorAccent  = lipgloss.Color("#0969da") // accent blue
	ColorError   = lipgloss.Color("#cf222e") // error red
	ColorSuccess = lipgloss.Color("#1a7f37") // success green
	ColorWarning = lipgloss.Color("#9a6700") // warning amber
	ColorMagenta = lipgloss.Color("#8250df") // purple/magenta
)

// Centralized style definitions for the CLI.
var (
	// User prompt prefix in the chat loop.
	UserPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

	// Tool call styles.
	ToolNameStyle   = lipgloss.NewStyle().Bold(true)
	ToolRouteStyle  = lipgloss.NewStyle().Foreground(ColorMagenta)
	ToolResultStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	ToolErrorStyle  = lipgloss.NewStyle().Foreground(ColorError)

	// Fallback notice when the local backend takes over.
	FallbackStyle = lipgloss.NewStyle().Foreground(ColorWarning)

	// Spinner shown while waiting for a reply.
	SpinnerStyle = lipgloss.NewStyle().Foreground(ColorMagenta)

	// General utility styles.
	DimStyle     = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	HeaderStyle  = lipgloss.NewStyle().Bold(true)

	// Error block style.
	ErrorBlockStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(ColorError)
)

// Tree-drawing character for tool results under their call.
const TreeCorner = "└ "
