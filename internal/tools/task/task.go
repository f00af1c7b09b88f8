// Package task wires task_create/task_list/task_update/queue_push/
// queue_pop onto the store (C1).
package task

import (
	"context"
	"fmt"
	"strings"

	"jaybrain/internal/logging"
	"jaybrain/internal/store"
	"jaybrain/internal/tools"
)

var (
	st    *store.Store
	audit *logging.AuditLogger
)

// Init wires the package-level store and audit logger.
func Init(s *store.Store, a *logging.AuditLogger) {
	st = s
	audit = a
}

// TaskCreateTool returns a tool that creates a task.
func TaskCreateTool() *tools.Tool {
	return &tools.Tool{
		Name:        "task_create",
		Description: "Create a new task",
		Category:    tools.CategoryTask,
		Priority:    90,
		Execute:     executeTaskCreate,
		Schema: tools.ToolSchema{
			Required: []string{"title"},
			Properties: map[string]tools.Property{
				"title":       {Type: "string", Description: "Task title"},
				"description": {Type: "string", Description: "Task description"},
				"priority":    {Type: "string", Description: "low, medium, high, or critical", Default: store.PriorityMedium},
				"project":     {Type: "string", Description: "Project this task belongs to"},
				"tags":        {Type: "array", Description: "Tags", Items: &tools.PropertyItems{Type: "string"}},
			},
		},
	}
}

func executeTaskCreate(ctx context.Context, args map[string]any) (string, error) {
	title, _ := args["title"].(string)
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("title is required")
	}
	description, _ := args["description"].(string)
	priority, _ := args["priority"].(string)
	project, _ := args["project"].(string)
	tags := stringSlice(args["tags"])

	t, err := st.CreateTask(store.Task{
		Title:       title,
		Description: description,
		Priority:    priority,
		Project:     project,
		Tags:        tags,
	})
	if err != nil {
		return "", fmt.Errorf("task_create: %w", err)
	}

	if audit != nil {
		audit.TaskOp(logging.AuditTaskCreate, t.ID, true)
	}
	logging.Tools("task_create: %s", t.ID)
	return fmt.Sprintf("Created task %s: %s", t.ID, t.Title), nil
}

// TaskListTool returns a tool that lists tasks, optionally by status.
func TaskListTool() *tools.Tool {
	return &tools.Tool{
		Name:        "task_list",
		Description: "List tasks, optionally filtered by status",
		Category:    tools.CategoryTask,
		Priority:    85,
		Execute:     executeTaskList,
		Schema: tools.ToolSchema{
			Properties: map[string]tools.Property{
				"status": {Type: "string", Description: "todo, in_progress, blocked, done, or cancelled"},
			},
		},
	}
}

func executeTaskList(ctx context.Context, args map[string]any) (string, error) {
	status, _ := args["status"].(string)
	tasksList, err := st.ListTasks(status)
	if err != nil {
		return "", fmt.Errorf("task_list: %w", err)
	}
	if len(tasksList) == 0 {
		return "No tasks found", nil
	}
	var b strings.Builder
	for _, t := range tasksList {
		pos := ""
		if t.QueuePosition != nil {
			pos = fmt.Sprintf(" queue=%d", *t.QueuePosition)
		}
		fmt.Fprintf(&b, "[%s] %s (%s/%s)%s\n", t.ID, t.Title, t.Status, t.Priority, pos)
	}
	return b.String(), nil
}

// TaskUpdateTool returns a tool that updates a task's mutable fields.
func TaskUpdateTool() *tools.Tool {
	return &tools.Tool{
		Name:        "task_update",
		Description: "Update a task's status, priority, description, or title",
		Category:    tools.CategoryTask,
		Priority:    85,
		Execute:     executeTaskUpdate,
		Schema: tools.ToolSchema{
			Required: []string{"id"},
			Properties: map[string]tools.Property{
				"id":          {Type: "string", Description: "The task id"},
				"title":       {Type: "string", Description: "New title"},
				"description": {Type: "string", Description: "New description"},
				"status":      {Type: "string", Description: "New status"},
				"priority":    {Type: "string", Description: "New priority"},
			},
		},
	}
}

func executeTaskUpdate(ctx context.Context, args map[string]any) (string, error) {
	id, _ := args["id"].(string)
	if id == "" {
		return "", fmt.Errorf("id is required")
	}
	existing, err := st.GetTask(id)
	if err != nil {
		return "", fmt.Errorf("task_update: %w", err)
	}
	if existing == nil {
		return "", fmt.Errorf("task %s not found", id)
	}

	if v, ok := args["title"].(string); ok && v != "" {
		existing.Title = v
	}
	if v, ok := args["description"].(string); ok {
		existing.Description = v
	}
	if v, ok := args["status"].(string); ok && v != "" {
		existing.Status = v
	}
	if v, ok := args["priority"].(string); ok && v != "" {
		existing.Priority = v
	}

	if err := st.UpdateTask(*existing); err != nil {
		return "", fmt.Errorf("task_update: %w", err)
	}
	if audit != nil {
		audit.TaskOp(logging.AuditTaskUpdate, id, true)
	}
	logging.Tools("task_update: %s -> status=%s", id, existing.Status)
	return fmt.Sprintf("Updated task %s", id), nil
}

// QueuePushTool returns a tool that inserts a task into the work queue.
func QueuePushTool() *tools.Tool {
	return &tools.Tool{
		Name:        "queue_push",
		Description: "Insert a task into the work queue at a position",
		Category:    tools.CategoryTask,
		Priority:    70,
		Execute:     executeQueuePush,
		Schema: tools.ToolSchema{
			Required: []string{"task_id"},
			Properties: map[string]tools.Property{
				"task_id":  {Type: "string", Description: "The task id"},
				"position": {Type: "integer", Description: "1-indexed queue position, default 1 (the front of the queue)", Default: 1},
			},
		},
	}
}

func executeQueuePush(ctx context.Context, args map[string]any) (string, error) {
	taskID, _ := args["task_id"].(string)
	if taskID == "" {
		return "", fmt.Errorf("task_id is required")
	}
	position := intArg(args["position"], 1)

	if err := st.QueuePush(taskID, position); err != nil {
		return "", fmt.Errorf("queue_push: %w", err)
	}
	if audit != nil {
		audit.TaskOp(logging.AuditQueuePush, taskID, true)
	}
	return fmt.Sprintf("Queued task %s (requested position %d)", taskID, position), nil
}

// QueuePopTool returns a tool that dequeues the front task.
func QueuePopTool() *tools.Tool {
	return &tools.Tool{
		Name:        "queue_pop",
		Description: "Remove and return the task at the front of the work queue",
		Category:    tools.CategoryTask,
		Priority:    70,
		Execute:     executeQueuePop,
		Schema:      tools.ToolSchema{},
	}
}

func executeQueuePop(ctx context.Context, args map[string]any) (string, error) {
	t, err := st.QueuePop()
	if err != nil {
		return "", fmt.Errorf("queue_pop: %w", err)
	}
	if t == nil {
		return "Queue is empty", nil
	}
	if audit != nil {
		audit.TaskOp(logging.AuditQueuePop, t.ID, true)
	}
	return fmt.Sprintf("Popped task %s: %s", t.ID, t.Title), nil
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intArg(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}
