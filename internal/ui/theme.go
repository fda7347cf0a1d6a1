package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
)

// Lightwalker theme (CLI + TUI).

const (
	IconSun     = "☀️"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTodo    = "⬜"
	IconNow     = "👉"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconLoop    = "🔁"
	IconScroll  = "📜"
	IconFlame   = "🔥"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
	BadgeGlow    = lipgloss.NewStyle().Bold(true).Foreground(cGold)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// RoleModel renders a role model name in its catalog color.
func RoleModel(name, color string) string {
	if strings.TrimSpace(color) == "" {
		return Muted.Render(name)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(name)
}

func MoodIcon(m engine.Mood) string {
	switch m {
	case engine.MoodEnergetic:
		return "⚡"
	case engine.MoodFocused:
		return "🎯"
	case engine.MoodCalm:
		return "🌊"
	case engine.MoodDetermined:
		return "💪"
	default:
		return "🌙"
	}
}

func MoodText(m engine.Mood) string {
	switch m {
	case engine.MoodEnergetic:
		return Gold.Render(string(m))
	case engine.MoodFocused:
		return H2.Render(string(m))
	case engine.MoodDetermined:
		return Bad.Render(string(m))
	case engine.MoodCalm:
		return Good.Render(string(m))
	default:
		return Muted.Render(string(m))
	}
}

func CategoryIcon(c engine.Category) string {
	switch c {
	case engine.CategoryMindfulness:
		return "🧘"
	case engine.CategoryDecisionMaking:
		return "⚖️"
	case engine.CategoryCommunication:
		return "💬"
	case engine.CategoryReflection:
		return "📓"
	case engine.CategoryPhysical:
		return "🏃"
	case engine.CategoryCreative:
		return "🎨"
	case engine.CategoryLearning:
		return "📚"
	default:
		return "•"
	}
}

// StatusIcon marks an activity as done, current or pending.
func StatusIcon(v engine.ActivityView, current *engine.ActivityView) string {
	switch {
	case v.Completed:
		return IconDone
	case current != nil && current.ID == v.ID:
		return IconNow
	default:
		return IconTodo
	}
}

// ClockText shows the activity time, or a dash when unscheduled.
func ClockText(v engine.ActivityView) string {
	if !v.Scheduled() {
		return Dim.Render("--:--")
	}
	return Key.Render(v.Time)
}

// ProgressBar renders pct (0-100) as a fixed-width bar.
func ProgressBar(pct float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int(pct / 100 * float64(width))
	filled = max(0, min(filled, width))
	return Good.Render(strings.Repeat("█", filled)) + Dim.Render(strings.Repeat("░", width-filled))
}
