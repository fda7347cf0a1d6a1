package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

type boardModel struct {
	ctx  context.Context
	svc  *engine.Service
	opts BoardOptions

	width  int
	height int

	date     time.Time
	schedule engine.DailySchedule
	state    engine.LightwalkerState
	loaded   bool

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	schedule engine.DailySchedule
	state    engine.LightwalkerState
	err      error
}

type completedMsg struct {
	res *engine.CompleteResult
	err error
}

type undoneMsg struct {
	res *engine.UncompleteResult
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service, opts BoardOptions) boardModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Owner == nil {
		opts.Owner = engine.SystemOwner
	}
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		opts:    opts,
		date:    opts.Now(),
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	date, now := m.date, m.opts.Now()
	return func() tea.Msg {
		sched, err := m.svc.Day(m.ctx, m.opts.Owner, date, now, m.opts.NextCount)
		if err != nil {
			return loadedMsg{err: err}
		}
		stats, err := m.svc.Stats(m.ctx, m.opts.Owner)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{schedule: sched, state: engine.Synthesize(sched, stats, m.opts.Weights)}
	}
}

func (m boardModel) completeCmd(v engine.ActivityView) tea.Cmd {
	date, now := m.date, m.opts.Now()
	return func() tea.Msg {
		res, err := m.svc.Complete(m.ctx, m.opts.Owner, engine.CompleteInput{InstanceID: v.ID, Date: date, At: now})
		return completedMsg{res: res, err: err}
	}
}

func (m boardModel) undoCmd(v engine.ActivityView) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.Uncomplete(m.ctx, m.opts.Owner, v.ID)
		return undoneMsg{res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.schedule = msg.schedule
		m.state = msg.state
		m.loaded = true
		m.selected = clamp(m.selected, len(m.schedule.Activities))
		m.lastLog = fmt.Sprintf("Refreshed at %s.", m.opts.Now().Format("15:04:05"))
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Completed: +%d points (level %d → %d)", msg.res.PointsAwarded, msg.res.LevelBefore, msg.res.LevelAfter)
		if msg.res.LevelUp {
			m.lastLog += " " + ui.BadgeLevelUp
		}
		return m, m.loadCmd()
	case undoneMsg:
		if msg.err != nil {
			m.lastLog = "Undo failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Undone: -%d points", msg.res.PointsDeducted)
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.schedule.Activities)-1 {
				m.selected++
			}
			return m, nil
		case "left", "h":
			return m.shiftDay(-1)
		case "right", "l":
			return m.shiftDay(1)
		case "t":
			m.date = m.opts.Now()
			return m.shiftDay(0)
		case "c", " ":
			v, ok := m.selectedActivity()
			if !ok {
				return m, nil
			}
			if v.Completed {
				m.lastLog = "Already done."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Completing %s…", v.Title)
			return m, m.completeCmd(v)
		case "u":
			v, ok := m.selectedActivity()
			if !ok {
				return m, nil
			}
			if !v.Completed {
				m.lastLog = "Not completed yet."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Undoing %s…", v.Title)
			return m, m.undoCmd(v)
		}
	}
	return m, nil
}

func (m boardModel) shiftDay(days int) (tea.Model, tea.Cmd) {
	m.date = m.date.AddDate(0, 0, days)
	m.selected = 0
	m.loading = true
	m.lastLog = "Loading " + engine.FormatDate(m.date) + "…"
	return m, m.loadCmd()
}

func (m boardModel) selectedActivity() (engine.ActivityView, bool) {
	if m.selected < 0 || m.selected >= len(m.schedule.Activities) {
		return engine.ActivityView{}, false
	}
	return m.schedule.Activities[m.selected], true
}

func (m boardModel) View() string {
	if m.err != nil && !errors.Is(m.err, context.Canceled) {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 30
	if m.width > 0 {
		leftW = max(18, min(leftW, m.width/2))
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if !m.loaded {
		return "Lightwalker | loading…"
	}
	s := m.schedule
	return fmt.Sprintf("Lightwalker | %s | %d/%d done | %d pts %s",
		s.Date, s.CompletedCount, len(s.Activities), s.TotalPoints, ui.ProgressBar(s.CompletionPercentage, 20))
}

func (m boardModel) renderSidebar() string {
	if !m.loaded {
		return "State\n\nLoading…"
	}
	st := m.state
	lines := []string{
		"State",
		fmt.Sprintf("- Level %d", st.Level),
		fmt.Sprintf("- Mood %s %s", ui.MoodIcon(st.CurrentMood), ui.MoodText(st.CurrentMood)),
		fmt.Sprintf("- Streak %d (best %d)", st.CurrentStreakDays, st.LongestStreak),
		fmt.Sprintf("- Points %d", st.TotalPoints),
		"",
		"Attributes",
	}
	glow := map[string]bool{}
	for _, g := range st.GlowingAttributes {
		glow[g] = true
	}
	if len(st.ActiveAttributes) == 0 {
		lines = append(lines, "(none selected)")
	}
	for _, a := range st.ActiveAttributes {
		if glow[a] {
			lines = append(lines, "- "+ui.BadgeGlow.Render(a+" "+ui.IconSparkle))
			continue
		}
		lines = append(lines, "- "+a)
	}
	lines = append(lines, "", "Role models")
	for _, rm := range st.DominantRoleModels {
		lines = append(lines, fmt.Sprintf("- %s %.0f%%", rm.Name, rm.Influence*100))
	}
	lines = append(lines,
		"",
		"Keys",
		"- ↑/↓ or j/k: move",
		"- ←/→ or h/l: day",
		"- c/space: complete",
		"- u: undo",
		"- t: today  r: refresh",
		"- q: quit",
	)
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading && !m.loaded {
		return "Loading…"
	}
	s := m.schedule
	var out []string
	out = append(out, "Now")
	if s.Current == nil {
		out = append(out, "(nothing right now)")
	} else {
		out = append(out, fmt.Sprintf("- %s %s", s.Current.Time, s.Current.Title))
	}
	out = append(out, "", "Up next")
	if len(s.Next) == 0 {
		out = append(out, "(nothing later today)")
	}
	for _, v := range s.Next {
		out = append(out, fmt.Sprintf("- %s %s", v.Time, v.Title))
	}
	out = append(out, "", "Today")
	if len(s.Activities) == 0 {
		out = append(out, "(empty)")
		return strings.Join(out, "\n")
	}
	for i, v := range s.Activities {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		out = append(out, fmt.Sprintf("%s%s %s %s %s (%s, %d pts)",
			cursor, ui.StatusIcon(v, s.Current), ui.ClockText(v), ui.CategoryIcon(v.Category), v.Title, v.Duration, v.Points))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func clamp(i, n int) int {
	if n == 0 {
		return 0
	}
	return max(0, min(i, n-1))
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
