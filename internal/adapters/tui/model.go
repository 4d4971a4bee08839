package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/lifegame-cli/internal/config"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

// Progression is what the board needs from the progression service.
type Progression interface {
	TodayTasks() []domain.DayTask
	Summary() domain.Summary
	LevelProgress() domain.LevelProgress
	Calendar() []domain.CalendarDay
	Rewards() []domain.StoreItem
	CompleteTask(ctx context.Context, task domain.Task, quality *domain.FoodQuality) (*domain.Completion, error)
	Redeem(ctx context.Context, item domain.StoreItem) error
	CheckRollover(ctx context.Context) (bool, error)
}

type screen int

const (
	screenTasks screen = iota
	screenStore
	screenCalendar
	screenCount
)

func (s screen) String() string {
	switch s {
	case screenStore:
		return "Store"
	case screenCalendar:
		return "Calendar"
	default:
		return "Today"
	}
}

// rolloverInterval is how often the board re-checks the calendar day.
const rolloverInterval = time.Minute

// notificationMsg carries a notification received from the service.
type notificationMsg domain.Notification

// showToastMsg displays a notification whose delay has elapsed.
type showToastMsg domain.Notification

// dismissToastMsg removes the toast with the given notification ID.
type dismissToastMsg string

// clockTickMsg triggers a rollover check.
type clockTickMsg time.Time

type toast struct {
	id      string
	kind    domain.NotificationKind
	message string
}

// Model is the interactive board: today's tasks, the reward store and the
// monthly calendar, with the XP and daily progress bars on top.
type Model struct {
	ctx           context.Context
	progression   Progression
	notes         <-chan domain.Notification
	theme         config.ThemeConfig
	toastDuration time.Duration

	screen   screen
	cursor   int
	tasks    []domain.DayTask
	rewards  []domain.StoreItem
	calendar []domain.CalendarDay
	summary  domain.Summary
	level    domain.LevelProgress

	xpBar    progress.Model
	dailyBar progress.Model
	width    int

	// Meal rating in progress
	choosingMeal bool
	mealTask     domain.Task
	mealCursor   int

	toasts []toast
}

// NewModel creates a new board model. notes may be nil when the caller does
// not want toasts.
func NewModel(ctx context.Context, p Progression, notes <-chan domain.Notification, theme *config.ThemeConfig, toastDuration time.Duration) Model {
	resolved := resolveTheme(theme)
	if toastDuration <= 0 {
		toastDuration = 3 * time.Second
	}

	m := Model{
		ctx:           ctx,
		progression:   p,
		notes:         notes,
		theme:         resolved,
		toastDuration: toastDuration,
		xpBar:         progress.New(progress.WithGradient(resolved.XPGradientStart, resolved.XPGradientEnd), progress.WithoutPercentage()),
		dailyBar:      progress.New(progress.WithGradient(resolved.DailyGradientStart, resolved.DailyGradientEnd), progress.WithoutPercentage()),
	}
	m.setWidth(getTerminalWidth())
	m.refresh()
	return m
}

// Init initializes the board.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForNotification(m.notes), clockTickCmd())
}

func waitForNotification(notes <-chan domain.Notification) tea.Cmd {
	if notes == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-notes
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(rolloverInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (m *Model) setWidth(w int) {
	m.width = w
	barWidth := w - 30
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 60 {
		barWidth = 60
	}
	m.xpBar.Width = barWidth
	m.dailyBar.Width = barWidth
}

// refresh re-reads everything the board shows.
func (m *Model) refresh() {
	m.tasks = m.progression.TodayTasks()
	m.rewards = m.progression.Rewards()
	m.calendar = m.progression.Calendar()
	m.summary = m.progression.Summary()
	m.level = m.progression.LevelProgress()
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := m.itemCount()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) itemCount() int {
	switch m.screen {
	case screenTasks:
		return len(m.tasks)
	case screenStore:
		return len(m.rewards)
	case screenCalendar:
		return len(m.calendar)
	}
	return 0
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWidth(msg.Width)
		return m, nil

	case notificationMsg:
		n := domain.Notification(msg)
		next := waitForNotification(m.notes)
		if n.Delay > 0 {
			return m, tea.Batch(next, tea.Tick(n.Delay, func(time.Time) tea.Msg {
				return showToastMsg(n)
			}))
		}
		return m, tea.Batch(next, m.addToast(n))

	case showToastMsg:
		return m, m.addToast(domain.Notification(msg))

	case dismissToastMsg:
		m.removeToast(string(msg))
		return m, nil

	case clockTickMsg:
		_, _ = m.progression.CheckRollover(m.ctx)
		m.refresh()
		return m, clockTickCmd()

	case tea.KeyMsg:
		if m.choosingMeal {
			return m.updateMealChoice(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) addToast(n domain.Notification) tea.Cmd {
	m.toasts = append(m.toasts, toast{id: n.ID, kind: n.Kind, message: n.Message})
	id := n.ID
	return tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return dismissToastMsg(id)
	})
}

func (m *Model) removeToast(id string) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab", "right", "l":
		m.screen = (m.screen + 1) % screenCount
		m.cursor = 0
	case "shift+tab", "left", "h":
		m.screen = (m.screen + screenCount - 1) % screenCount
		m.cursor = 0
	case "1":
		m.screen, m.cursor = screenTasks, 0
	case "2":
		m.screen, m.cursor = screenStore, 0
	case "3":
		m.screen, m.cursor = screenCalendar, 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.itemCount()-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.activate()
	}
	return m, nil
}

// activate acts on the item under the cursor.
func (m Model) activate() (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenTasks:
		if m.cursor >= len(m.tasks) {
			return m, nil
		}
		task := m.tasks[m.cursor]
		if task.IsMeal && !task.Completed {
			m.choosingMeal = true
			m.mealTask = task.Task
			m.mealCursor = 0
			return m, nil
		}
		_, _ = m.progression.CompleteTask(m.ctx, task.Task, nil)
		m.refresh()
	case screenStore:
		if m.cursor >= len(m.rewards) {
			return m, nil
		}
		_ = m.progression.Redeem(m.ctx, m.rewards[m.cursor])
		m.refresh()
	}
	return m, nil
}

func (m Model) updateMealChoice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch k {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q":
		// Backing out of the rating leaves the task untouched.
		m.choosingMeal = false
		return m, nil
	case "left", "h":
		if m.mealCursor > 0 {
			m.mealCursor--
		}
		return m, nil
	case "right", "l":
		if m.mealCursor < len(domain.FoodQualities)-1 {
			m.mealCursor++
		}
		return m, nil
	case "enter":
	default:
		if len(k) != 1 || k[0] < '1' || int(k[0]-'1') >= len(domain.FoodQualities) {
			return m, nil
		}
		m.mealCursor = int(k[0] - '1')
	}

	q := domain.FoodQualities[m.mealCursor]
	m.choosingMeal = false
	_, _ = m.progression.CompleteTask(m.ctx, m.mealTask, &q)
	m.refresh()
	return m, nil
}

// View renders the board.
func (m Model) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorPrimary))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTitle))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render(m.theme.IconApp+" Life Game"))
	b.WriteString(labelStyle.Render(fmt.Sprintf("   %s Level %d   %s %d points",
		m.theme.IconLevel, m.level.Level, m.theme.IconPoints, m.summary.Points)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("  XP    ") + m.xpBar.ViewAs(m.level.Percent()))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %d/%d", m.level.XP, m.level.Required)) + "\n")
	b.WriteString(labelStyle.Render("  Today ") + m.dailyBar.ViewAs(m.summary.Progress))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %d/%d", m.summary.Completed, m.summary.Total)) + "\n\n")

	b.WriteString(m.renderTabs() + "\n\n")

	switch m.screen {
	case screenTasks:
		b.WriteString(m.renderTasks())
	case screenStore:
		b.WriteString(m.renderStore())
	case screenCalendar:
		b.WriteString(m.renderCalendar())
	}

	if m.choosingMeal {
		b.WriteString("\n" + m.renderMealChoice())
	}

	if len(m.toasts) > 0 {
		b.WriteString("\n")
		for _, t := range m.toasts {
			b.WriteString("  " + m.toastStyle(t.kind).Render(t.message) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpText()) + "\n")

	return b.String()
}

func (m Model) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(m.theme.ColorPrimary))
	inactive := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	var tabs []string
	for s := screen(0); s < screenCount; s++ {
		label := fmt.Sprintf("%d %s", int(s)+1, s)
		if s == m.screen {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}
	return "  " + strings.Join(tabs, "   ")
}

func (m Model) renderTasks() string {
	var b strings.Builder

	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPrimary)).Bold(true)
	taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorDone)).Strikethrough(true)
	checkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorSuccess))

	if len(m.tasks) == 0 {
		return taskStyle.Render("  No tasks for today") + "\n"
	}

	for i, t := range m.tasks {
		arrow := "  "
		if i == m.cursor {
			arrow = cursorStyle.Render("▸ ")
		}

		check := "○"
		if t.Completed {
			check = checkStyle.Render(m.theme.IconDone)
		}

		name := t.Name
		if t.IsMeal {
			name += " " + m.theme.IconMeal
		}
		line := fmt.Sprintf("%s  %-24s %s  +%d", t.Time, name, t.EffortDots(), t.BasePoints())

		style := taskStyle
		if t.Completed {
			style = doneStyle
		} else if i == m.cursor {
			style = cursorStyle
		}
		b.WriteString(fmt.Sprintf("  %s%s %s\n", arrow, check, style.Render(line)))
	}
	return b.String()
}

func (m Model) renderStore() string {
	var b strings.Builder

	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPrimary)).Bold(true)
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorDone))

	for i, item := range m.rewards {
		arrow := "  "
		if i == m.cursor {
			arrow = cursorStyle.Render("▸ ")
		}
		line := fmt.Sprintf("%s %-28s %4d %s", m.theme.IconStore, item.Name, item.Cost, m.theme.IconPoints)

		style := itemStyle
		switch {
		case item.Cost > m.summary.Points:
			style = dimStyle
		case i == m.cursor:
			style = cursorStyle
		}
		b.WriteString("  " + arrow + style.Render(line) + "\n")
	}
	return b.String()
}

func (m Model) renderCalendar() string {
	var b strings.Builder

	dateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPrimary)).Bold(true)
	taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	if len(m.calendar) == 0 {
		return dimStyle.Render("  No completed tasks this month yet") + "\n"
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s %d tasks completed this month", m.theme.IconCalendar, m.summary.MonthCompleted)) + "\n\n")
	for i, day := range m.calendar {
		arrow := "  "
		if i == m.cursor {
			arrow = dateStyle.Render("▸ ")
		}
		b.WriteString("  " + arrow + dateStyle.Render(day.Date) + dimStyle.Render(fmt.Sprintf("  (%d)", day.Total)) + "\n")

		line := strings.Join(day.Tasks, ", ")
		if day.More > 0 {
			line += fmt.Sprintf(" +%d more", day.More)
		}
		b.WriteString("      " + taskStyle.Render(line) + "\n")
	}
	return b.String()
}

func (m Model) renderMealChoice() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPrimary)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("  How healthy was your %s?", strings.ToLower(m.mealTask.Name))) + "  ")
	for i, item := range FoodQualityItems() {
		label := fmt.Sprintf("%d %s %s", i+1, item.Label, item.Desc)
		if i == m.mealCursor {
			b.WriteString(activeStyle.Render(" ▸ " + label + " "))
		} else {
			b.WriteString(dimStyle.Render("   " + label + " "))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) toastStyle(kind domain.NotificationKind) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	switch kind {
	case domain.NotificationSuccess:
		return base.Foreground(lipgloss.Color(m.theme.ColorSuccess))
	case domain.NotificationWarning:
		return base.Foreground(lipgloss.Color(m.theme.ColorWarning))
	case domain.NotificationError:
		return base.Foreground(lipgloss.Color(m.theme.ColorError))
	case domain.NotificationLevelUp, domain.NotificationMonthReset:
		return base.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color(m.theme.ColorPrimary))
	case domain.NotificationBonus:
		return base.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color(m.theme.ColorAccent))
	default:
		return base.Foreground(lipgloss.Color(m.theme.ColorTask))
	}
}

func (m Model) helpText() string {
	if m.choosingMeal {
		return "  ←/→ choose · 1-3 or enter confirm · esc cancel"
	}
	switch m.screen {
	case screenTasks:
		return "  ↑/↓ move · enter complete · tab switch · q quit"
	case screenStore:
		return "  ↑/↓ move · enter redeem · tab switch · q quit"
	default:
		return "  ↑/↓ move · tab switch · q quit"
	}
}

// RunBoard launches the interactive board in the alternate screen.
func RunBoard(ctx context.Context, p Progression, notes <-chan domain.Notification, theme *config.ThemeConfig, toastDuration time.Duration) error {
	m := NewModel(ctx, p, notes, theme, toastDuration)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run board: %w", err)
	}
	return nil
}
