package services

import (
	"context"
	"errors"
	"sync"

	"github.com/xvierd/lifegame-cli/internal/domain"
	"github.com/xvierd/lifegame-cli/internal/ports"
)

// StateService implements the MCPStateProvider interface on top of the
// progression service. Long-lived callers such as the MCP server may span a
// month boundary, so every call applies the rollover first. Calls are
// serialized because the MCP server handles requests concurrently.
type StateService struct {
	mu          sync.Mutex
	progression *ProgressionService
}

// NewStateService creates a new state service.
func NewStateService(progression *ProgressionService) *StateService {
	return &StateService{progression: progression}
}

func (s *StateService) refresh(ctx context.Context) error {
	if s.progression == nil {
		return errors.New("progression service not configured")
	}
	_, err := s.progression.CheckRollover(ctx)
	return err
}

// GetSummary implements ports.MCPStateProvider.
func (s *StateService) GetSummary(ctx context.Context) (*domain.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	summary := s.progression.Summary()
	return &summary, nil
}

// TodayTasks implements ports.MCPStateProvider.
func (s *StateService) TodayTasks(ctx context.Context) ([]domain.DayTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.progression.TodayTasks(), nil
}

// CompleteTask implements ports.MCPStateProvider.
func (s *StateService) CompleteTask(ctx context.Context, name string, quality *domain.FoodQuality) (*domain.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.progression.CompleteTaskByName(ctx, name, quality)
}

// Rewards implements ports.MCPStateProvider.
func (s *StateService) Rewards(ctx context.Context) ([]domain.StoreItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.progression == nil {
		return nil, errors.New("progression service not configured")
	}
	return s.progression.Rewards(), nil
}

// Redeem implements ports.MCPStateProvider.
func (s *StateService) Redeem(ctx context.Context, name string) (*domain.StoreItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.progression.RedeemByName(ctx, name)
}

// AddCustomTask implements ports.MCPStateProvider.
func (s *StateService) AddCustomTask(ctx context.Context, hhmm, name string, effort int, isMeal bool) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.progression.AddCustomTask(ctx, hhmm, name, effort, isMeal)
}

// Calendar implements ports.MCPStateProvider.
func (s *StateService) Calendar(ctx context.Context) ([]domain.CalendarDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.progression.Calendar(), nil
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)
