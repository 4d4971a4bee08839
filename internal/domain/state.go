package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout of the per-day keys in CompletedTasks and History.
const DateLayout = "2006-01-02"

// CalendarPreviewSize is how many task names a calendar day shows.
const CalendarPreviewSize = 5

// DateKey formats t as a day key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// PersistedState is the single record written to storage. It holds the
// spendable balance, the per-day completion logs, the custom task list and
// the progression counters.
type PersistedState struct {
	Points         int                 `json:"points"`
	CompletedTasks map[string][]string `json:"completedTasks"`
	History        map[string][]string `json:"history"`
	CurrentMonth   int                 `json:"currentMonth"`
	CustomTasks    []Task              `json:"customTasks"`
	Level          int                 `json:"level"`
	XP             int                 `json:"xp"`
}

// NewState returns the default state for a first run at now.
func NewState(now time.Time) *PersistedState {
	return &PersistedState{
		Points:         0,
		CompletedTasks: map[string][]string{},
		History:        map[string][]string{},
		CurrentMonth:   int(now.Month()),
		CustomTasks:    []Task{},
		Level:          1,
		XP:             0,
	}
}

// Normalize fills missing collections and clamps counters so that a state
// decoded from an older or hand-edited document is usable.
func (s *PersistedState) Normalize() {
	if s.CompletedTasks == nil {
		s.CompletedTasks = map[string][]string{}
	}
	if s.History == nil {
		s.History = map[string][]string{}
	}
	if s.CustomTasks == nil {
		s.CustomTasks = []Task{}
	}
	if s.Level < 1 {
		s.Level = 1
	}
	if s.XP < 0 {
		s.XP = 0
	}
	if s.Points < 0 {
		s.Points = 0
	}
}

// ValidateCustomTasks checks every custom task against the task invariants.
func (s *PersistedState) ValidateCustomTasks() error {
	for i, t := range s.CustomTasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("custom task %d (%q): %w", i+1, t.Name, err)
		}
	}
	return nil
}

// DropInvalidTasks removes the custom tasks that fail validation and
// returns them.
func (s *PersistedState) DropInvalidTasks() []Task {
	var dropped []Task
	kept := s.CustomTasks[:0]
	for _, t := range s.CustomTasks {
		if t.Validate() != nil {
			dropped = append(dropped, t)
			continue
		}
		kept = append(kept, t)
	}
	s.CustomTasks = kept
	return dropped
}

// Clone returns a deep copy of the state.
func (s *PersistedState) Clone() *PersistedState {
	c := *s
	c.CompletedTasks = cloneLog(s.CompletedTasks)
	c.History = cloneLog(s.History)
	c.CustomTasks = append([]Task(nil), s.CustomTasks...)
	if c.CustomTasks == nil {
		c.CustomTasks = []Task{}
	}
	return &c
}

func cloneLog(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for date, names := range in {
		out[date] = append([]string(nil), names...)
	}
	return out
}

// IsCompleted reports whether name was completed on date.
func (s *PersistedState) IsCompleted(date, name string) bool {
	for _, done := range s.CompletedTasks[date] {
		if done == name {
			return true
		}
	}
	return false
}

// RecordCompletion appends name to both logs for date.
func (s *PersistedState) RecordCompletion(date, name string) {
	s.CompletedTasks[date] = append(s.CompletedTasks[date], name)
	s.History[date] = append(s.History[date], name)
}

// RenameTask rewrites every occurrence of oldName in both logs. A day of
// CompletedTasks keeps newName at most once when both names were logged.
func (s *PersistedState) RenameTask(oldName, newName string) {
	for _, log := range []map[string][]string{s.CompletedTasks, s.History} {
		for _, names := range log {
			for i, name := range names {
				if name == oldName {
					names[i] = newName
				}
			}
		}
	}
	for date, names := range s.CompletedTasks {
		s.CompletedTasks[date] = dedupe(names)
	}
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// ResetMonth clears the spendable balance and the completion log. History,
// custom tasks and progression are kept.
func (s *PersistedState) ResetMonth(month int) {
	s.Points = 0
	s.CompletedTasks = map[string][]string{}
	s.CurrentMonth = month
}

// FindCustomTask returns the index of the custom task called name, or -1.
func (s *PersistedState) FindCustomTask(name string) int {
	for i, t := range s.CustomTasks {
		if strings.EqualFold(t.Name, name) {
			return i
		}
	}
	return -1
}

// MonthCompletedCount counts history entries logged in the calendar month of now.
func (s *PersistedState) MonthCompletedCount(now time.Time) int {
	prefix := now.Format("2006-01")
	total := 0
	for date, names := range s.History {
		if strings.HasPrefix(date, prefix) {
			total += len(names)
		}
	}
	return total
}

// DayTask is a task as shown for a given day.
type DayTask struct {
	Task
	Custom    bool `json:"custom"`
	Index     int  `json:"index"`
	Completed bool `json:"completed"`
}

// DailyProgress summarises completions for one day.
type DailyProgress struct {
	Completed int
	Total     int
}

// Fraction returns the completed share between 0 and 1. An empty task list
// counts as no progress.
func (p DailyProgress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

// CalendarDay is one day of the monthly calendar view.
type CalendarDay struct {
	Date  string   `json:"date"`
	Tasks []string `json:"tasks"`
	Total int      `json:"total"`
	More  int      `json:"more"`
}

// Summary is a read-only snapshot of the figures shown on the home screen.
type Summary struct {
	Date           string  `json:"date"`
	Points         int     `json:"points"`
	Level          int     `json:"level"`
	XP             int     `json:"xp"`
	XPForNextLevel int     `json:"xp_for_next_level"`
	Completed      int     `json:"completed_today"`
	Total          int     `json:"total_today"`
	Progress       float64 `json:"progress"`
	MonthCompleted int     `json:"month_completed"`
}
