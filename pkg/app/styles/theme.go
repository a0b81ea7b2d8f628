package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	Primary    = lipgloss.Color("#FF6B9D")
	Secondary  = lipgloss.Color("#C792EA")
	Success    = lipgloss.Color("#C3E88D")
	Warning    = lipgloss.Color("#FFCB6B")
	Error      = lipgloss.Color("#F07178")
	Info       = lipgloss.Color("#82AAFF")
	Muted      = lipgloss.Color("#546E7A")
	Background = lipgloss.Color("#263238")
	Foreground = lipgloss.Color("#EEFFFF")
	PageColor  = lipgloss.Color("#37474F")

	RoundedBorder = lipgloss.RoundedBorder()
	ThickBorder   = lipgloss.ThickBorder()
)

var (
	TitleStyle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(Secondary).
		Italic(true)

	TextStyle = lipgloss.NewStyle().
		Foreground(Foreground)

	MutedStyle = lipgloss.NewStyle().
		Foreground(Muted)

	SelectedStyle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	CardStyle = lipgloss.NewStyle().
		Border(RoundedBorder).
		BorderForeground(Secondary).
		Padding(0, 1)

	ActiveCardStyle = lipgloss.NewStyle().
		Border(ThickBorder).
		BorderForeground(Primary).
		Padding(0, 1)

	// Unread chapter counter on history cards
	BadgeStyle = lipgloss.NewStyle().
		Foreground(Background).
		Background(Primary).
		Bold(true).
		Padding(0, 1)

	StatusLoading = lipgloss.NewStyle().
		Foreground(Info).
		Bold(true)

	StatusSuccess = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	StatusWarning = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	StatusError = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	ProgressBarStyle = lipgloss.NewStyle().
		Foreground(Primary)

	ProgressEmptyStyle = lipgloss.NewStyle().
		Foreground(Muted)

	ActiveTabStyle = lipgloss.NewStyle().
		Foreground(Primary).
		Background(PageColor).
		Padding(0, 2).
		Bold(true)

	InactiveTabStyle = lipgloss.NewStyle().
		Foreground(Muted).
		Padding(0, 2)

	HelpStyle = lipgloss.NewStyle().
		Foreground(Muted).
		Italic(true).
		MarginTop(1)

	InputStyle = lipgloss.NewStyle().
		Border(RoundedBorder).
		BorderForeground(Secondary).
		Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
		Border(RoundedBorder).
		BorderForeground(Primary).
		Padding(0, 1)

	// Reader strip
	PageRuleStyle = lipgloss.NewStyle().
		Foreground(Secondary)

	PageBodyStyle = lipgloss.NewStyle().
		Foreground(Muted).
		Background(PageColor)

	PageFailedStyle = lipgloss.NewStyle().
		Foreground(Error).
		Background(PageColor)

	ReaderBarStyle = lipgloss.NewStyle().
		Foreground(Foreground).
		Background(Background).
		Padding(0, 1)
)

// StatusStyle maps a title's publication status to a color.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "ongoing", "Ongoing", "กำลังดำเนินการ":
		return StatusLoading
	case "completed", "Completed", "จบแล้ว":
		return StatusSuccess
	case "hiatus", "Hiatus":
		return StatusWarning
	default:
		return MutedStyle
	}
}
