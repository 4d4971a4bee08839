// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/lifegame-cli/internal/domain"
	"github.com/xvierd/lifegame-cli/internal/ports"
)

// ProgressionService owns the progression state and every transition on it:
// completing tasks, levelling up, redeeming rewards, managing custom tasks
// and the monthly rollover. Every successful mutation is saved before the
// call returns. The service is not safe for concurrent use; callers run one
// operation at a time.
type ProgressionService struct {
	repo     ports.StateRepository
	notifier ports.Notifier
	clock    ports.Clock
	catalog  []domain.StoreItem
	logger   *slog.Logger
	state    *domain.PersistedState
}

// NewProgressionService creates a new progression service.
func NewProgressionService(repo ports.StateRepository) *ProgressionService {
	return &ProgressionService{
		repo:     repo,
		notifier: ports.NopNotifier,
		clock:    ports.SystemClock,
		catalog:  domain.DefaultCatalog(),
		logger:   slog.Default(),
	}
}

// SetNotifier sets the observer for status messages.
func (s *ProgressionService) SetNotifier(n ports.Notifier) {
	if n == nil {
		n = ports.NopNotifier
	}
	s.notifier = n
}

// SetClock sets the clock used for "today" and "this month".
func (s *ProgressionService) SetClock(c ports.Clock) {
	if c == nil {
		c = ports.SystemClock
	}
	s.clock = c
}

// SetCatalog replaces the reward catalog. An empty catalog keeps the default.
func (s *ProgressionService) SetCatalog(items []domain.StoreItem) {
	if len(items) == 0 {
		return
	}
	s.catalog = append([]domain.StoreItem(nil), items...)
}

// SetLogger sets the structured logger.
func (s *ProgressionService) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	s.logger = l
}

// Load reads the stored state, falling back to the default state when
// nothing is stored or the stored document is corrupt, then applies the
// monthly rollover. It must run before any other operation.
func (s *ProgressionService) Load(ctx context.Context) error {
	state, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrParse):
		s.logger.Warn("stored state is corrupt, starting from defaults", "error", err)
		state = nil
	case err != nil:
		return fmt.Errorf("failed to load state: %w", err)
	}

	if state == nil {
		state = domain.NewState(s.clock.Now())
	}
	state.Normalize()
	for _, t := range state.DropInvalidTasks() {
		s.logger.Warn("dropping invalid stored custom task", "task", t.Name, "time", t.Time, "effort", t.Effort)
	}
	s.state = state

	if _, err := s.CheckRollover(ctx); err != nil {
		return err
	}
	return nil
}

// CheckRollover resets the point balance and the completion log when the
// calendar month differs from the stored month. It reports whether a reset
// happened; repeated calls within the same month are no-ops.
func (s *ProgressionService) CheckRollover(ctx context.Context) (bool, error) {
	if err := s.ensureLoaded(); err != nil {
		return false, err
	}

	month := int(s.clock.Now().Month())
	if s.state.CurrentMonth == month {
		return false, nil
	}

	s.logger.Info("month rollover", "from", s.state.CurrentMonth, "to", month)
	next := s.state.Clone()
	next.ResetMonth(month)
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	s.emit(domain.NotificationMonthReset, "🔁 New month! Points have been reset")
	return true, nil
}

// ResetMonth clears the balance and the completion log on demand. The stored
// month is left alone.
func (s *ProgressionService) ResetMonth(ctx context.Context) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	next := s.state.Clone()
	next.ResetMonth(next.CurrentMonth)
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.emit(domain.NotificationSuccess, "🔄 Month reset")
	return nil
}

// CompleteTask records task as done today and pays out its points and XP.
// Meals need a food quality; quality is ignored for other tasks.
func (s *ProgressionService) CompleteTask(ctx context.Context, task domain.Task, quality *domain.FoodQuality) (*domain.Completion, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	today := domain.DateKey(s.clock.Now())
	if s.state.IsCompleted(today, task.Name) {
		s.emit(domain.NotificationWarning, "⚠️ You already completed this task today")
		return nil, fmt.Errorf("%q: %w", task.Name, domain.ErrAlreadyCompleted)
	}

	var q domain.FoodQuality
	if task.IsMeal {
		if quality == nil {
			s.emit(domain.NotificationWarning, fmt.Sprintf("⚠️ Rate your %s first", strings.ToLower(task.Name)))
			return nil, domain.ErrFoodQualityRequired
		}
		parsed, err := domain.ParseFoodQuality(string(*quality))
		if err != nil {
			s.emit(domain.NotificationError, "❌ Unknown food quality")
			return nil, err
		}
		q = parsed
	}

	points := task.Points(q)
	xp := points

	next := s.state.Clone()
	next.RecordCompletion(today, task.Name)
	next.Points += points
	ups := next.AddXP(xp)

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Debug("task completed", "task", task.Name, "points", points, "level", s.state.Level)
	s.emit(domain.NotificationSuccess, fmt.Sprintf("✅ %s completed! +%d points, +%d XP", task.Name, points, xp))
	s.announceLevelUps(ups)

	return &domain.Completion{
		Task:        task,
		Quality:     q,
		Points:      points,
		XP:          xp,
		LevelUps:    ups,
		Level:       s.state.Level,
		TotalPoints: s.state.Points,
	}, nil
}

// CompleteTaskByName resolves name against today's tasks and completes it.
func (s *ProgressionService) CompleteTaskByName(ctx context.Context, name string, quality *domain.FoodQuality) (*domain.Completion, error) {
	task, err := s.FindTask(name)
	if err != nil {
		return nil, err
	}
	return s.CompleteTask(ctx, task.Task, quality)
}

// AddXP grants amount XP and performs any level-ups it triggers.
func (s *ProgressionService) AddXP(ctx context.Context, amount int) ([]domain.LevelUp, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	next := s.state.Clone()
	ups := next.AddXP(amount)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	s.announceLevelUps(ups)
	return ups, nil
}

// announceLevelUps emits a level-up message and a delayed bonus message
// for each level gained.
func (s *ProgressionService) announceLevelUps(ups []domain.LevelUp) {
	for _, up := range ups {
		s.logger.Info("level up", "level", up.Level, "bonus", up.Bonus)
		s.emit(domain.NotificationLevelUp, fmt.Sprintf("🎉 LEVEL %d! Keep it up!", up.Level))

		bonus := domain.NewNotification(domain.NotificationBonus,
			fmt.Sprintf("💰 Bonus: +%d points for levelling up!", up.Bonus))
		bonus.Delay = domain.LevelBonusDelay
		s.notifier.Notify(bonus)
	}
}

// Rewards returns the reward catalog.
func (s *ProgressionService) Rewards() []domain.StoreItem {
	return append([]domain.StoreItem(nil), s.catalog...)
}

// Redeem spends item.Cost points on item.
func (s *ProgressionService) Redeem(ctx context.Context, item domain.StoreItem) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	if s.state.Points < item.Cost {
		s.emit(domain.NotificationError, "❌ You don't have enough points")
		return fmt.Errorf("%q costs %d, balance is %d: %w", item.Name, item.Cost, s.state.Points, domain.ErrInsufficientPoints)
	}

	next := s.state.Clone()
	next.Points -= item.Cost
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.emit(domain.NotificationSuccess, fmt.Sprintf("🎉 You redeemed %q! Enjoy it", item.Name))
	return nil
}

// RedeemByName looks the reward up in the catalog and redeems it.
func (s *ProgressionService) RedeemByName(ctx context.Context, name string) (*domain.StoreItem, error) {
	item, err := domain.FindStoreItem(s.catalog, name)
	if err != nil {
		s.emit(domain.NotificationError, "❌ Unknown reward")
		return nil, err
	}
	if err := s.Redeem(ctx, item); err != nil {
		return nil, err
	}
	return &item, nil
}

// AddCustomTask validates and appends a custom task.
func (s *ProgressionService) AddCustomTask(ctx context.Context, hhmm, name string, effort int, isMeal bool) (*domain.Task, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	task, err := domain.NewTask(hhmm, name, effort, isMeal)
	if err != nil {
		s.emit(domain.NotificationWarning, "⚠️ Please fill in every field")
		return nil, err
	}
	if err := s.checkUniqueName(task.Name, -1); err != nil {
		return nil, err
	}

	next := s.state.Clone()
	next.CustomTasks = append(next.CustomTasks, *task)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.emit(domain.NotificationSuccess, "✅ Challenge created")
	return task, nil
}

// EditCustomTask replaces the custom task at index. A new name is written
// back into every past log entry of the old name.
func (s *ProgressionService) EditCustomTask(ctx context.Context, index int, hhmm, name string, effort int, isMeal bool) (*domain.Task, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}

	task, err := domain.NewTask(hhmm, name, effort, isMeal)
	if err != nil {
		s.emit(domain.NotificationWarning, "⚠️ Please fill in every field")
		return nil, err
	}
	if err := s.checkUniqueName(task.Name, index); err != nil {
		return nil, err
	}

	next := s.state.Clone()
	oldName := next.CustomTasks[index].Name
	next.CustomTasks[index] = *task
	if oldName != task.Name {
		next.RenameTask(oldName, task.Name)
	}

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.emit(domain.NotificationSuccess, "✅ Challenge updated")
	return task, nil
}

// DeleteCustomTask removes the custom task at index. Past completions stay
// in the logs.
func (s *ProgressionService) DeleteCustomTask(ctx context.Context, index int) (*domain.Task, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}

	next := s.state.Clone()
	removed := next.CustomTasks[index]
	next.CustomTasks = append(next.CustomTasks[:index], next.CustomTasks[index+1:]...)

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.emit(domain.NotificationSuccess, "🗑️ Challenge deleted")
	return &removed, nil
}

// CustomTasks returns the custom tasks in insertion order.
func (s *ProgressionService) CustomTasks() []domain.Task {
	if s.state == nil {
		return nil
	}
	return append([]domain.Task(nil), s.state.CustomTasks...)
}

func (s *ProgressionService) checkIndex(index int) error {
	if index < 0 || index >= len(s.state.CustomTasks) {
		s.emit(domain.NotificationError, "❌ Challenge not found")
		return fmt.Errorf("custom task %d: %w", index+1, domain.ErrNotFound)
	}
	return nil
}

// checkUniqueName rejects names already used by the routine or by another
// custom task. skip is the index being edited, or -1.
func (s *ProgressionService) checkUniqueName(name string, skip int) error {
	idx := s.state.FindCustomTask(name)
	if domain.IsRoutineName(name) || (idx >= 0 && idx != skip) {
		s.emit(domain.NotificationWarning, fmt.Sprintf("⚠️ A task called %q already exists", name))
		return fmt.Errorf("%q: %w", name, domain.ErrDuplicateTask)
	}
	return nil
}

// TodayTasks returns the routine and the custom tasks merged and sorted by
// time, flagged with today's completion status.
func (s *ProgressionService) TodayTasks() []domain.DayTask {
	if s.state == nil {
		return nil
	}

	today := domain.DateKey(s.clock.Now())
	var tasks []domain.DayTask
	for _, t := range domain.Routine() {
		tasks = append(tasks, domain.DayTask{Task: t, Index: -1, Completed: s.state.IsCompleted(today, t.Name)})
	}
	for i, t := range s.state.CustomTasks {
		tasks = append(tasks, domain.DayTask{Task: t, Custom: true, Index: i, Completed: s.state.IsCompleted(today, t.Name)})
	}
	domain.SortByTime(tasks)
	return tasks
}

// FindTask resolves name against today's tasks. Exact matches (ignoring
// case) win; otherwise the best fuzzy match is used.
func (s *ProgressionService) FindTask(name string) (domain.DayTask, error) {
	tasks := s.TodayTasks()
	name = strings.TrimSpace(name)

	for _, t := range tasks {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}

	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.Name
	}
	matches := fuzzy.Find(name, names)
	if name == "" || len(matches) == 0 {
		s.emit(domain.NotificationError, fmt.Sprintf("❌ No task matches %q", name))
		return domain.DayTask{}, fmt.Errorf("task %q: %w", name, domain.ErrNotFound)
	}
	return tasks[matches[0].Index], nil
}

// TodayProgress returns completed versus total tasks for today.
func (s *ProgressionService) TodayProgress() domain.DailyProgress {
	if s.state == nil {
		return domain.DailyProgress{}
	}
	today := domain.DateKey(s.clock.Now())
	return domain.DailyProgress{
		Completed: len(s.state.CompletedTasks[today]),
		Total:     len(domain.Routine()) + len(s.state.CustomTasks),
	}
}

// MonthCompletedCount counts this calendar month's history entries.
func (s *ProgressionService) MonthCompletedCount() int {
	if s.state == nil {
		return 0
	}
	return s.state.MonthCompletedCount(s.clock.Now())
}

// Calendar lists this month's history days, newest first, with at most
// domain.CalendarPreviewSize names each.
func (s *ProgressionService) Calendar() []domain.CalendarDay {
	if s.state == nil {
		return nil
	}

	prefix := s.clock.Now().Format("2006-01")
	var dates []string
	for date := range s.state.History {
		if strings.HasPrefix(date, prefix) {
			dates = append(dates, date)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	days := make([]domain.CalendarDay, 0, len(dates))
	for _, date := range dates {
		names := s.state.History[date]
		preview := names
		if len(preview) > domain.CalendarPreviewSize {
			preview = preview[:domain.CalendarPreviewSize]
		}
		days = append(days, domain.CalendarDay{
			Date:  date,
			Tasks: append([]string(nil), preview...),
			Total: len(names),
			More:  len(names) - len(preview),
		})
	}
	return days
}

// LevelProgress returns the XP bar state.
func (s *ProgressionService) LevelProgress() domain.LevelProgress {
	if s.state == nil {
		return domain.LevelProgress{Level: 1, Required: domain.XPRequiredForLevel(1)}
	}
	return s.state.Progress()
}

// Points returns the spendable balance.
func (s *ProgressionService) Points() int {
	if s.state == nil {
		return 0
	}
	return s.state.Points
}

// Summary returns today's figures in one value.
func (s *ProgressionService) Summary() domain.Summary {
	progress := s.TodayProgress()
	level := s.LevelProgress()
	return domain.Summary{
		Date:           domain.DateKey(s.clock.Now()),
		Points:         s.Points(),
		Level:          level.Level,
		XP:             level.XP,
		XPForNextLevel: level.Required,
		Completed:      progress.Completed,
		Total:          progress.Total,
		Progress:       progress.Fraction(),
		MonthCompleted: s.MonthCompletedCount(),
	}
}

// Snapshot returns a deep copy of the current state.
func (s *ProgressionService) Snapshot() *domain.PersistedState {
	if s.state == nil {
		return nil
	}
	return s.state.Clone()
}

// Now returns the service clock's current time.
func (s *ProgressionService) Now() time.Time {
	return s.clock.Now()
}

func (s *ProgressionService) ensureLoaded() error {
	if s.state == nil {
		return errors.New("progression state not loaded")
	}
	return nil
}

// commit writes next as the whole state and makes it current. On failure
// the current state is kept. Last write wins.
func (s *ProgressionService) commit(ctx context.Context, next *domain.PersistedState) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("failed to persist state", "error", err)
		s.emit(domain.NotificationError, "❌ Could not save your progress")
		return fmt.Errorf("failed to persist state: %w", err)
	}
	s.state = next
	return nil
}

func (s *ProgressionService) emit(kind domain.NotificationKind, message string) {
	s.notifier.Notify(domain.NewNotification(kind, message))
}
