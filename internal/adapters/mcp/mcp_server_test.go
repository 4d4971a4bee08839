package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

// mockStateProvider is a mock implementation of ports.MCPStateProvider for testing.
type mockStateProvider struct {
	summary     domain.Summary
	tasks       []domain.DayTask
	rewards     []domain.StoreItem
	calendar    []domain.CalendarDay
	completeErr error
	redeemErr   error

	completedName    string
	completedQuality *domain.FoodQuality
	added            *domain.Task
}

func (m *mockStateProvider) GetSummary(ctx context.Context) (*domain.Summary, error) {
	s := m.summary
	return &s, nil
}

func (m *mockStateProvider) TodayTasks(ctx context.Context) ([]domain.DayTask, error) {
	return m.tasks, nil
}

func (m *mockStateProvider) CompleteTask(ctx context.Context, name string, quality *domain.FoodQuality) (*domain.Completion, error) {
	m.completedName = name
	m.completedQuality = quality
	if m.completeErr != nil {
		return nil, m.completeErr
	}
	c := &domain.Completion{
		Task:        domain.Task{Time: "07:00", Name: name, Effort: 1, IsMeal: quality != nil},
		Points:      8,
		XP:          8,
		Level:       2,
		TotalPoints: 28,
		LevelUps:    []domain.LevelUp{{Level: 2, Bonus: 20}},
	}
	if quality != nil {
		c.Quality = *quality
	}
	return c, nil
}

func (m *mockStateProvider) Rewards(ctx context.Context) ([]domain.StoreItem, error) {
	return m.rewards, nil
}

func (m *mockStateProvider) Redeem(ctx context.Context, name string) (*domain.StoreItem, error) {
	if m.redeemErr != nil {
		return nil, m.redeemErr
	}
	item, err := domain.FindStoreItem(m.rewards, name)
	if err != nil {
		return nil, err
	}
	m.summary.Points -= item.Cost
	return &item, nil
}

func (m *mockStateProvider) AddCustomTask(ctx context.Context, hhmm, name string, effort int, isMeal bool) (*domain.Task, error) {
	task, err := domain.NewTask(hhmm, name, effort, isMeal)
	if err != nil {
		return nil, err
	}
	m.added = task
	return task, nil
}

func (m *mockStateProvider) Calendar(ctx context.Context) ([]domain.CalendarDay, error) {
	return m.calendar, nil
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.False(t, result.IsError, "unexpected error result")
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func TestNewServer(t *testing.T) {
	mock := &mockStateProvider{}
	server := NewServer(mock, "test")

	if server == nil {
		t.Fatal("NewServer() returned nil")
	}

	if server.stateProvider != mock {
		t.Error("NewServer() did not set state provider correctly")
	}

	if server.server == nil {
		t.Error("NewServer() did not create MCP server")
	}
}

func TestServer_IsRunning(t *testing.T) {
	server := NewServer(&mockStateProvider{}, "test")

	if server.IsRunning() {
		t.Error("IsRunning() should return false before Start()")
	}
}

func TestServer_handleGetState(t *testing.T) {
	mock := &mockStateProvider{
		summary: domain.Summary{Date: "2026-03-10", Points: 42, Level: 3, XP: 10, XPForNextLevel: 225, Completed: 2, Total: 11},
	}
	server := NewServer(mock, "test")

	result, err := server.handleGetState(context.Background(), callRequest(nil))
	require.NoError(t, err)

	out := resultJSON(t, result)
	assert.Equal(t, float64(42), out["points"])
	assert.Equal(t, float64(3), out["level"])
	assert.Equal(t, float64(225), out["xp_for_next_level"])
	assert.Equal(t, "2026-03-10", out["date"])
}

func TestServer_handleListTasks(t *testing.T) {
	mock := &mockStateProvider{
		tasks: []domain.DayTask{
			{Task: domain.Task{Time: "06:50", Name: "Despertar", Effort: 2}, Index: -1, Completed: true},
			{Task: domain.Task{Time: "07:00", Name: "Desayuno", Effort: 1, IsMeal: true}, Index: -1},
			{Task: domain.Task{Time: "08:00", Name: "Meditar", Effort: 1}, Custom: true},
		},
	}
	server := NewServer(mock, "test")

	tests := []struct {
		status string
		want   float64
	}{
		{"", 3},
		{"pending", 2},
		{"completed", 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status=%q", tt.status), func(t *testing.T) {
			args := map[string]interface{}{}
			if tt.status != "" {
				args["status"] = tt.status
			}
			result, err := server.handleListTasks(context.Background(), callRequest(args))
			require.NoError(t, err)

			out := resultJSON(t, result)
			assert.Equal(t, tt.want, out["total_count"])
		})
	}
}

func TestServer_handleCompleteTask(t *testing.T) {
	t.Run("meal with quality", func(t *testing.T) {
		mock := &mockStateProvider{}
		server := NewServer(mock, "test")

		result, err := server.handleCompleteTask(context.Background(), callRequest(map[string]interface{}{
			"name":         "desayuno",
			"food_quality": "sana",
		}))
		require.NoError(t, err)

		out := resultJSON(t, result)
		assert.Equal(t, "desayuno", mock.completedName)
		require.NotNil(t, mock.completedQuality)
		assert.Equal(t, domain.FoodHealthy, *mock.completedQuality)
		assert.Equal(t, float64(8), out["points"])
		assert.Equal(t, "sana", out["food_quality"])
		assert.Len(t, out["level_ups"], 1)
	})

	t.Run("missing name", func(t *testing.T) {
		server := NewServer(&mockStateProvider{}, "test")
		result, err := server.handleCompleteTask(context.Background(), callRequest(map[string]interface{}{}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("invalid quality", func(t *testing.T) {
		mock := &mockStateProvider{}
		server := NewServer(mock, "test")
		result, err := server.handleCompleteTask(context.Background(), callRequest(map[string]interface{}{
			"name":         "Cena",
			"food_quality": "deliciosa",
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Empty(t, mock.completedName)
	})

	t.Run("domain error becomes a tool error", func(t *testing.T) {
		mock := &mockStateProvider{completeErr: domain.ErrAlreadyCompleted}
		server := NewServer(mock, "test")
		result, err := server.handleCompleteTask(context.Background(), callRequest(map[string]interface{}{"name": "Ducha"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestServer_handleRewards(t *testing.T) {
	mock := &mockStateProvider{
		rewards: domain.DefaultCatalog(),
		summary: domain.Summary{Points: 25},
	}
	server := NewServer(mock, "test")

	result, err := server.handleListRewards(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Len(t, resultJSON(t, result)["rewards"], 3)

	result, err = server.handleRedeemReward(context.Background(), callRequest(map[string]interface{}{"name": "Comer un postre"}))
	require.NoError(t, err)
	out := resultJSON(t, result)
	assert.Equal(t, "Comer un postre", out["redeemed"])
	assert.Equal(t, float64(5), out["points"])

	mock.redeemErr = domain.ErrInsufficientPoints
	result, err = server.handleRedeemReward(context.Background(), callRequest(map[string]interface{}{"name": "Comer un postre"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_handleAddCustomTask(t *testing.T) {
	mock := &mockStateProvider{}
	server := NewServer(mock, "test")

	result, err := server.handleAddCustomTask(context.Background(), callRequest(map[string]interface{}{
		"time":    "08:30",
		"name":    "Meditar",
		"effort":  2.0,
		"is_meal": false,
	}))
	require.NoError(t, err)

	out := resultJSON(t, result)
	assert.Equal(t, "Meditar", out["name"])
	require.NotNil(t, mock.added)
	assert.Equal(t, 2, mock.added.Effort)

	result, err = server.handleAddCustomTask(context.Background(), callRequest(map[string]interface{}{
		"time":   "8am",
		"name":   "Meditar",
		"effort": 2.0,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = server.handleAddCustomTask(context.Background(), callRequest(map[string]interface{}{
		"name": "Meditar",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_handleGetCalendar(t *testing.T) {
	mock := &mockStateProvider{
		calendar: []domain.CalendarDay{
			{Date: "2026-03-12", Tasks: []string{"Ducha"}, Total: 1},
			{Date: "2026-03-10", Tasks: []string{"a", "b", "c", "d", "e"}, Total: 7, More: 2},
		},
	}
	server := NewServer(mock, "test")

	result, err := server.handleGetCalendar(context.Background(), callRequest(nil))
	require.NoError(t, err)

	out := resultJSON(t, result)
	assert.Equal(t, float64(2), out["total_days"])
}

func TestServer_Stop(t *testing.T) {
	server := NewServer(&mockStateProvider{}, "test")

	// Stop before Start should not panic
	err := server.Stop()
	if err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
