// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/lifegame-cli/internal/domain"
	"github.com/xvierd/lifegame-cli/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, version string) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"lifegame",
		version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_state",
			mcp.WithDescription("Get points, level, XP and today's progress"),
		),
		s.handleGetState,
	)

	listTasksTool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List today's routine and custom tasks sorted by time"),
		mcp.WithString(
			"status",
			mcp.Description("Filter tasks by status: pending, completed"),
			mcp.Enum("pending", "completed"),
		),
	)
	s.server.AddTool(listTasksTool, s.handleListTasks)

	completeTaskTool := mcp.NewTool(
		"complete_task",
		mcp.WithDescription("Mark one of today's tasks as done. Meals need a food quality."),
		mcp.WithString(
			"name",
			mcp.Required(),
			mcp.Description("Task name; partial names are matched"),
		),
		mcp.WithString(
			"food_quality",
			mcp.Description("How healthy the meal was (meals only)"),
			mcp.Enum(string(domain.FoodHealthy), string(domain.FoodNeutral), string(domain.FoodUnhealthy)),
		),
	)
	s.server.AddTool(completeTaskTool, s.handleCompleteTask)

	s.server.AddTool(
		mcp.NewTool(
			"list_rewards",
			mcp.WithDescription("List the rewards that can be bought with points"),
		),
		s.handleListRewards,
	)

	redeemTool := mcp.NewTool(
		"redeem_reward",
		mcp.WithDescription("Spend points on a reward"),
		mcp.WithString(
			"name",
			mcp.Required(),
			mcp.Description("The reward name"),
		),
	)
	s.server.AddTool(redeemTool, s.handleRedeemReward)

	addCustomTaskTool := mcp.NewTool(
		"add_custom_task",
		mcp.WithDescription("Add a custom task to the daily routine"),
		mcp.WithString(
			"time",
			mcp.Required(),
			mcp.Description("Scheduled time as HH:MM (24-hour)"),
		),
		mcp.WithString(
			"name",
			mcp.Required(),
			mcp.Description("The task name"),
		),
		mcp.WithNumber(
			"effort",
			mcp.Required(),
			mcp.Description("Effort level from 1 (easy) to 3 (hard)"),
		),
		mcp.WithBoolean(
			"is_meal",
			mcp.Description("Whether the task is a meal rated by food quality"),
		),
	)
	s.server.AddTool(addCustomTaskTool, s.handleAddCustomTask)

	s.server.AddTool(
		mcp.NewTool(
			"get_calendar",
			mcp.WithDescription("Get this month's completion history, newest day first"),
		),
		s.handleGetCalendar,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// handleGetState handles the get_state tool.
func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := s.stateProvider.GetSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	result := map[string]interface{}{
		"date":              summary.Date,
		"points":            summary.Points,
		"level":             summary.Level,
		"xp":                summary.XP,
		"xp_for_next_level": summary.XPForNextLevel,
		"completed_today":   summary.Completed,
		"total_today":       summary.Total,
		"progress":          summary.Progress,
		"month_completed":   summary.MonthCompleted,
	}

	return jsonResult(result)
}

// handleListTasks handles the list_tasks tool.
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := request.GetString("status", "")

	tasks, err := s.stateProvider.TodayTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	filteredTasks := []map[string]interface{}{}
	for _, task := range tasks {
		if status == "pending" && task.Completed {
			continue
		}
		if status == "completed" && !task.Completed {
			continue
		}
		filteredTasks = append(filteredTasks, map[string]interface{}{
			"time":      task.Time,
			"name":      task.Name,
			"effort":    task.Effort,
			"is_meal":   task.IsMeal,
			"custom":    task.Custom,
			"completed": task.Completed,
			"points":    task.BasePoints(),
		})
	}

	result := map[string]interface{}{
		"tasks":       filteredTasks,
		"total_count": len(filteredTasks),
	}

	if status != "" {
		result["filter_status"] = status
	}

	return jsonResult(result)
}

// handleCompleteTask handles the complete_task tool.
func (s *Server) handleCompleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required: " + err.Error()), nil
	}

	var quality *domain.FoodQuality
	if raw := request.GetString("food_quality", ""); raw != "" {
		q, err := domain.ParseFoodQuality(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		quality = &q
	}

	completion, err := s.stateProvider.CompleteTask(ctx, name, quality)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete task: %v", err)), nil
	}

	levelUps := make([]map[string]interface{}, 0, len(completion.LevelUps))
	for _, up := range completion.LevelUps {
		levelUps = append(levelUps, map[string]interface{}{
			"level": up.Level,
			"bonus": up.Bonus,
		})
	}

	result := map[string]interface{}{
		"task":         completion.Task.Name,
		"points":       completion.Points,
		"xp":           completion.XP,
		"level":        completion.Level,
		"total_points": completion.TotalPoints,
		"level_ups":    levelUps,
	}
	if completion.Quality != "" {
		result["food_quality"] = string(completion.Quality)
	}

	return jsonResult(result)
}

// handleListRewards handles the list_rewards tool.
func (s *Server) handleListRewards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rewards, err := s.stateProvider.Rewards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}

	items := make([]map[string]interface{}, 0, len(rewards))
	for _, item := range rewards {
		items = append(items, map[string]interface{}{
			"name": item.Name,
			"cost": item.Cost,
		})
	}

	return jsonResult(map[string]interface{}{"rewards": items})
}

// handleRedeemReward handles the redeem_reward tool.
func (s *Server) handleRedeemReward(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required: " + err.Error()), nil
	}

	item, err := s.stateProvider.Redeem(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to redeem reward: %v", err)), nil
	}

	summary, err := s.stateProvider.GetSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	return jsonResult(map[string]interface{}{
		"redeemed": item.Name,
		"cost":     item.Cost,
		"points":   summary.Points,
	})
}

// handleAddCustomTask handles the add_custom_task tool.
func (s *Server) handleAddCustomTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hhmm, err := request.RequireString("time")
	if err != nil {
		return mcp.NewToolResultError("time is required: " + err.Error()), nil
	}

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required: " + err.Error()), nil
	}

	effort, err := request.RequireFloat("effort")
	if err != nil {
		return mcp.NewToolResultError("effort is required: " + err.Error()), nil
	}

	isMeal := request.GetBool("is_meal", false)

	task, err := s.stateProvider.AddCustomTask(ctx, hhmm, name, int(effort), isMeal)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add task: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"time":    task.Time,
		"name":    task.Name,
		"effort":  task.Effort,
		"is_meal": task.IsMeal,
	})
}

// handleGetCalendar handles the get_calendar tool.
func (s *Server) handleGetCalendar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days, err := s.stateProvider.Calendar(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}

	dayList := make([]map[string]interface{}, 0, len(days))
	for _, d := range days {
		dayList = append(dayList, map[string]interface{}{
			"date":  d.Date,
			"tasks": d.Tasks,
			"total": d.Total,
			"more":  d.More,
		})
	}

	return jsonResult(map[string]interface{}{
		"days":       dayList,
		"total_days": len(dayList),
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
