// Package styles holds the Lip Gloss palette and styles shared by the
// panes, the form and the status bar.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette. Adaptive colors pick a shade for light or dark terminals.
var (
	Subtle    = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#990000"}

	ErrorColor   = lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF6666"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#66FF66"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#FFAA00", Dark: "#FFCC66"}

	recurringColor = lipgloss.AdaptiveColor{Light: "#00AAAA", Dark: "#00CCCC"}
	barForeground  = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}
	barBackground  = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"}
	rowBackground  = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#2A2A2A"}
	itemBackground = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#333333"}
)

// priorityStyles is indexed by priority, 1 being highest. P4 is uncolored.
var priorityStyles = [...]lipgloss.Style{
	1: lipgloss.NewStyle().Foreground(lipgloss.Color("#D0473D")),
	2: lipgloss.NewStyle().Foreground(lipgloss.Color("#EA8811")),
	3: lipgloss.NewStyle().Foreground(lipgloss.Color("#296FDF")),
	4: lipgloss.NewStyle(),
}

// GetPriorityStyle returns the style for a task priority, 1 being highest.
// Out of range values get the P4 style.
func GetPriorityStyle(priority int) lipgloss.Style {
	if priority < 1 || priority >= len(priorityStyles) {
		return priorityStyles[len(priorityStyles)-1]
	}
	return priorityStyles[priority]
}

// pane is a rounded box whose border shows focus.
func pane(border lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

func onBar(fg lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fg).Background(barBackground)
}

// annotation is the trailing text after a task's content.
func annotation(fg lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fg).PaddingLeft(1)
}

// Titles carry no margins; the task list counts rendered lines to keep the
// viewport on the selection.
var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Highlight)
	Subtitle = lipgloss.NewStyle().Bold(true).Foreground(Subtle)
)

// Task rows.
var (
	TaskItem     = lipgloss.NewStyle().PaddingLeft(2)
	TaskSelected = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeftForeground(Highlight).
			Bold(true).
			Background(rowBackground)

	TaskDue        = annotation(Subtle)
	TaskDueOverdue = annotation(ErrorColor)
	TaskDueToday   = annotation(SuccessColor)
	TaskLabel      = annotation(Highlight)
	TaskRecurring  = annotation(recurringColor)
	TaskSection    = annotation(Subtle).Italic(true)

	// TaskChildCount is the "(n)" after a parent task.
	TaskChildCount = lipgloss.NewStyle().Foreground(Subtle).Faint(true)
)

// CheckboxUnchecked prefixes every open task.
const CheckboxUnchecked = "[ ]"

// Panes and the sidebar.
var (
	Sidebar            = pane(Subtle)
	SidebarFocused     = pane(Highlight)
	MainContent        = pane(Subtle)
	MainContentFocused = pane(Highlight)

	ProjectItem     = lipgloss.NewStyle().PaddingLeft(1)
	ProjectSelected = ProjectItem.Bold(true).Background(itemBackground)

	// SidebarActive marks the active filter when the sidebar is not focused.
	SidebarActive    = ProjectItem.Foreground(Highlight).Bold(true)
	SidebarSeparator = lipgloss.NewStyle().Foreground(Subtle).Faint(true)
)

// Status bar.
var (
	StatusBar        = onBar(barForeground).Padding(0, 1)
	StatusBarKey     = onBar(Highlight).Bold(true)
	StatusBarText    = onBar(Subtle)
	StatusBarError   = onBar(ErrorColor).Bold(true)
	StatusBarSuccess = onBar(SuccessColor).Bold(true)
	StatusBarWarning = onBar(WarningColor)
)

// Help screen, form and dialogs.
var (
	HelpKey       = lipgloss.NewStyle().Bold(true).Foreground(Highlight)
	HelpDesc      = lipgloss.NewStyle().Foreground(Subtle)
	SectionHeader = lipgloss.NewStyle().Bold(true).Foreground(Subtle).Underline(true)

	InputLabel  = lipgloss.NewStyle().Bold(true)
	Dialog      = pane(Highlight).Padding(1, 2)
	DialogTitle = Title.MarginBottom(1)

	Spinner = lipgloss.NewStyle().Foreground(Highlight)
)

// projectColors maps the service's color names to hex values.
var projectColors = map[string]string{
	"berry_red":   "#b8256f",
	"red":         "#db4035",
	"orange":      "#ff9933",
	"yellow":      "#fad000",
	"olive_green": "#afb83b",
	"lime_green":  "#7ecc49",
	"green":       "#299438",
	"mint_green":  "#6accbc",
	"teal":        "#158fad",
	"sky_blue":    "#14aaf5",
	"light_blue":  "#96c3eb",
	"blue":        "#4073ff",
	"grape":       "#884dff",
	"violet":      "#af38eb",
	"lavender":    "#eb96eb",
	"magenta":     "#e05194",
	"salmon":      "#ff8d85",
	"charcoal":    "#808080",
	"grey":        "#b8b8b8",
	"taupe":       "#ccac93",
}

// GetColor resolves a project color name. Unknown names render uncolored.
func GetColor(name string) lipgloss.TerminalColor {
	if hex, ok := projectColors[name]; ok {
		return lipgloss.Color(hex)
	}
	return lipgloss.NoColor{}
}
