// Package tasks generates a themed, bounded task board from a business
// profile and recent conversation context.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/robin-app/ideation/advisor"
	"github.com/robin-app/ideation/advisor/profile"
	"github.com/robin-app/ideation/knowledge"
	"github.com/robin-app/ideation/normalize"
	"github.com/robin-app/ideation/prompts"
)

// maxTasks bounds one generated batch.
const maxTasks = 5

// generated mirrors the model's reply shape before IDs are assigned.
type generated struct {
	Theme    string `json:"theme"`
	Analysis string `json:"analysis"`
	Tasks    []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		Type        string `json:"type"`
	} `json:"tasks"`
}

// Task is one actionable item on the board.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Type        string `json:"type"`
	Theme       string `json:"theme,omitempty"`
}

// Board is the normalized result returned to the caller.
type Board struct {
	Tasks    []Task `json:"tasks"`
	Analysis string `json:"analysis"`
}

// Schema declares the target shape. The tasks array is the section that
// must exist; theme and analysis repair to defaults.
var Schema = &normalize.Schema{Sections: []normalize.Field{
	{Name: "theme", Aliases: []string{"focus", "sprint"}, Kind: normalize.String, Default: "General"},
	{Name: "analysis", Aliases: []string{"summary", "explanation"}, Kind: normalize.String},
	{
		Name: "tasks", Aliases: []string{"items", "todos"}, Kind: normalize.ObjectArray, Required: true, MaxItems: maxTasks,
		Fields: []normalize.Field{
			{Name: "title", Aliases: []string{"name"}, Kind: normalize.String, Default: "Untitled task"},
			{Name: "description", Aliases: []string{"details", "steps"}, Kind: normalize.String, Default: "No description"},
			{Name: "priority", Kind: normalize.Enum, Values: []string{"High", "Medium", "Low"}, Default: "Medium"},
			{Name: "type", Aliases: []string{"category"}, Kind: normalize.Enum,
				Values: []string{"Validation", "Acquisition", "Conversion", "Admin/Legal", "Product"}, Default: "Validation"},
		},
	},
}}

// Service generates task boards.
type Service struct {
	engine *advisor.Engine
	kb     *knowledge.Store
}

// NewService creates a task generation service over the engine.
func NewService(engine *advisor.Engine, kb *knowledge.Store) *Service {
	return &Service{engine: engine, kb: kb}
}

// Generate produces 3-5 themed tasks for the profile. currentTasks are the
// titles already on the user's board, used to avoid duplicates.
func (s *Service) Generate(ctx context.Context, p profile.BusinessProfile, history []prompts.ChatTurn, currentTasks []string) advisor.Outcome[Board] {
	profileJSON, err := json.Marshal(p)
	if err != nil {
		return advisor.Fail[Board]("encode profile: %s", err)
	}

	spec := advisor.Spec[generated]{
		Name:             "task-generation",
		SystemPrompt:     prompts.TasksSystemPrompt(s.kb.Base()),
		CorrectivePrompt: prompts.TasksCorrectivePrompt(),
		Temperature:      0.2,
		MaxTokens:        1024,
		Schema:           Schema,
	}

	outcome := advisor.Run(ctx, s.engine, spec, prompts.TasksUserPrompt(string(profileJSON), currentTasks, history))
	if !outcome.Success {
		return advisor.Fail[Board]("%s", outcome.Error)
	}

	plan := outcome.Data
	board := Board{
		Analysis: fmt.Sprintf("**Focus: %s**\n\n%s", plan.Theme, plan.Analysis),
		Tasks:    make([]Task, 0, len(plan.Tasks)),
	}
	for _, t := range plan.Tasks {
		board.Tasks = append(board.Tasks, Task{
			ID:          uuid.New().String(),
			Title:       t.Title,
			Description: t.Description,
			Status:      "todo",
			Priority:    t.Priority,
			Type:        t.Type,
			Theme:       plan.Theme,
		})
	}

	return advisor.Succeed(board)
}
