package domain

import (
	"errors"
	"testing"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name    string
		time    string
		task    string
		effort  int
		wantErr error
	}{
		{"valid", "07:30", "Leer", 2, nil},
		{"trims name", "07:30", "  Leer  ", 1, nil},
		{"empty time", "", "Leer", 1, ErrEmptyTaskTime},
		{"bad time", "7:30", "Leer", 1, ErrInvalidTaskTime},
		{"hour out of range", "24:00", "Leer", 1, ErrInvalidTaskTime},
		{"blank name", "07:30", "   ", 1, ErrEmptyTaskName},
		{"effort too low", "07:30", "Leer", 0, ErrInvalidEffort},
		{"effort too high", "07:30", "Leer", 4, ErrInvalidEffort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(tt.time, tt.task, tt.effort, false)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewTask() error = %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("NewTask() error = %v should match ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTask() unexpected error = %v", err)
			}
			if task.Name != "Leer" {
				t.Errorf("Name = %q, want %q", task.Name, "Leer")
			}
		})
	}
}

func TestTask_Points(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		quality FoodQuality
		want    int
	}{
		{"effort 2 no meal", Task{Effort: 2}, "", 6},
		{"meal healthy", Task{Effort: 1, IsMeal: true}, FoodHealthy, 8},
		{"meal neutral", Task{Effort: 1, IsMeal: true}, FoodNeutral, 5},
		{"meal unhealthy", Task{Effort: 1, IsMeal: true}, FoodUnhealthy, 3},
		{"quality ignored for non meals", Task{Effort: 3}, FoodHealthy, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.Points(tt.quality); got != tt.want {
				t.Errorf("Points() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTask_EffortDots(t *testing.T) {
	tests := []struct {
		name   string
		effort int
		want   string
	}{
		{"low", 1, "●○○"},
		{"max", 3, "●●●"},
		{"above range", 7, "●●●"},
		{"negative", -2, "●○○"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Task{Effort: tt.effort}).EffortDots(); got != tt.want {
				t.Errorf("EffortDots() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFoodQuality(t *testing.T) {
	for _, s := range []string{"sana", "NEUTRA", " no_sana "} {
		if _, err := ParseFoodQuality(s); err != nil {
			t.Errorf("ParseFoodQuality(%q) error = %v", s, err)
		}
	}
	if _, err := ParseFoodQuality("deliciosa"); !errors.Is(err, ErrInvalidFoodQuality) {
		t.Errorf("ParseFoodQuality(deliciosa) error = %v, want ErrInvalidFoodQuality", err)
	}
}

func TestRoutine(t *testing.T) {
	r := Routine()
	if len(r) != 11 {
		t.Fatalf("len(Routine()) = %d, want 11", len(r))
	}

	meals := 0
	for _, task := range r {
		if err := task.Validate(); err != nil {
			t.Errorf("routine task %q invalid: %v", task.Name, err)
		}
		if task.IsMeal {
			meals++
		}
	}
	if meals != 5 {
		t.Errorf("routine meals = %d, want 5", meals)
	}

	r[0].Name = "changed"
	if Routine()[0].Name != "Despertar" {
		t.Error("Routine() should return a copy")
	}

	if !IsRoutineName("desayuno") {
		t.Error("IsRoutineName() should ignore case")
	}
}

func TestSortByTime(t *testing.T) {
	tasks := []Task{
		{Time: "21:00", Name: "c"},
		{Time: "06:00", Name: "a"},
		{Time: "12:00", Name: "b"},
		{Time: "06:00", Name: "a2"},
	}
	SortByTime(tasks)

	want := []string{"a", "a2", "b", "c"}
	for i, name := range want {
		if tasks[i].Name != name {
			t.Errorf("tasks[%d] = %q, want %q", i, tasks[i].Name, name)
		}
	}
}
