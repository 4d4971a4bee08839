// Package domain contains the core business entities for lifegame.
// These entities describe the daily routine, the reward store and the
// progression state, independent of any storage or presentation layer.
package domain

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Common domain errors.
var (
	ErrAlreadyCompleted   = errors.New("task already completed today")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrInvalidFormat      = errors.New("invalid data format")
	ErrParse              = errors.New("failed to parse data")
)

// Validation failures. All of them match ErrValidation with errors.Is.
var (
	ErrEmptyTaskTime       = fmt.Errorf("%w: task time cannot be empty", ErrValidation)
	ErrInvalidTaskTime     = fmt.Errorf("%w: task time must use the HH:MM 24-hour format", ErrValidation)
	ErrEmptyTaskName       = fmt.Errorf("%w: task name cannot be empty", ErrValidation)
	ErrInvalidEffort       = fmt.Errorf("%w: effort level must be between %d and %d", ErrValidation, MinEffort, MaxEffort)
	ErrDuplicateTask       = fmt.Errorf("%w: a task with that name already exists", ErrValidation)
	ErrFoodQualityRequired = fmt.Errorf("%w: meals need a food quality", ErrValidation)
	ErrInvalidFoodQuality  = fmt.Errorf("%w: food quality must be one of sana, neutra, no_sana", ErrValidation)
)

const (
	MinEffort = 1
	MaxEffort = 3

	// EffortPointMultiplier converts an effort level into base points.
	EffortPointMultiplier = 3
)

var taskTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Task is a routine entry scheduled at a fixed time of day.
// The JSON field names match the documents written by earlier versions of
// the app so old backups keep importing.
type Task struct {
	Time   string `json:"hora"`
	Name   string `json:"tarea"`
	Effort int    `json:"esfuerzo"`
	IsMeal bool   `json:"isMeal"`
}

// NewTask validates its input and returns a custom task.
func NewTask(hhmm, name string, effort int, isMeal bool) (*Task, error) {
	t := &Task{
		Time:   strings.TrimSpace(hhmm),
		Name:   strings.TrimSpace(name),
		Effort: effort,
		IsMeal: isMeal,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the task invariants.
func (t Task) Validate() error {
	if t.Time == "" {
		return ErrEmptyTaskTime
	}
	if !taskTimePattern.MatchString(t.Time) {
		return ErrInvalidTaskTime
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyTaskName
	}
	if t.Effort < MinEffort || t.Effort > MaxEffort {
		return ErrInvalidEffort
	}
	return nil
}

// BasePoints returns the points awarded for the task before any food bonus.
func (t Task) BasePoints() int {
	return t.Effort * EffortPointMultiplier
}

// Points returns the points a completion is worth. The food quality only
// counts for meals.
func (t Task) Points(quality FoodQuality) int {
	points := t.BasePoints()
	if t.IsMeal {
		points += quality.Bonus()
	}
	return points
}

// EffortDots renders the effort level as filled dots, clamped to the valid
// effort range.
func (t Task) EffortDots() string {
	effort := min(max(t.Effort, MinEffort), MaxEffort)
	return strings.Repeat("●", effort) + strings.Repeat("○", MaxEffort-effort)
}

// FoodQuality rates how healthy a meal was.
type FoodQuality string

const (
	FoodHealthy   FoodQuality = "sana"
	FoodNeutral   FoodQuality = "neutra"
	FoodUnhealthy FoodQuality = "no_sana"
)

// FoodQualities lists the valid qualities from best to worst.
var FoodQualities = []FoodQuality{FoodHealthy, FoodNeutral, FoodUnhealthy}

// ParseFoodQuality checks if a string is a valid food quality.
func ParseFoodQuality(s string) (FoodQuality, error) {
	q := FoodQuality(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range FoodQualities {
		if q == valid {
			return q, nil
		}
	}
	return "", ErrInvalidFoodQuality
}

// Bonus returns the flat point bonus for the quality.
func (q FoodQuality) Bonus() int {
	switch q {
	case FoodHealthy:
		return 5
	case FoodNeutral:
		return 2
	default:
		return 0
	}
}

// Label returns a human-readable label.
func (q FoodQuality) Label() string {
	switch q {
	case FoodHealthy:
		return "Healthy"
	case FoodNeutral:
		return "Neutral"
	case FoodUnhealthy:
		return "Unhealthy"
	default:
		return "Unknown"
	}
}

var routine = []Task{
	{Time: "06:50", Name: "Despertar", Effort: 2},
	{Time: "07:00", Name: "Desayuno", Effort: 1, IsMeal: true},
	{Time: "10:30", Name: "Almuerzo", Effort: 1, IsMeal: true},
	{Time: "15:00", Name: "Comida", Effort: 1, IsMeal: true},
	{Time: "17:30", Name: "Merienda", Effort: 1, IsMeal: true},
	{Time: "18:00", Name: "Ejercicio", Effort: 3},
	{Time: "19:00", Name: "Ducha", Effort: 1},
	{Time: "20:00", Name: "Estudiar", Effort: 3},
	{Time: "21:30", Name: "Cena", Effort: 1, IsMeal: true},
	{Time: "22:00", Name: "Leer un libro", Effort: 2},
	{Time: "23:00", Name: "Dormir", Effort: 1},
}

// Routine returns a copy of the fixed daily routine.
func Routine() []Task {
	out := make([]Task, len(routine))
	copy(out, routine)
	return out
}

// IsRoutineName reports whether name belongs to the fixed routine.
func IsRoutineName(name string) bool {
	for _, t := range routine {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// SortByTime orders tasks by their HH:MM time. Zero-padded 24-hour strings
// sort chronologically. Ties keep their original order.
func SortByTime[T interface{ GetTime() string }](tasks []T) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].GetTime() < tasks[j].GetTime()
	})
}

// GetTime returns the scheduled time.
func (t Task) GetTime() string {
	return t.Time
}
