package feishu

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kart-io/feishukit/pkg/errors"
	"github.com/kart-io/feishukit/pkg/transport"
)

type taskBody struct {
	Summary     string  `json:"summary"`
	Description string  `json:"description,omitempty"`
	Extra       string  `json:"extra,omitempty"`
	Due         *Due    `json:"due,omitempty"`
	Origin      *Origin `json:"origin,omitempty"`
	CanEdit     bool    `json:"can_edit,omitempty"`
}

func taskPath(taskID string, suffix ...string) string {
	p := "/task/v1/tasks/" + url.PathEscape(taskID)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

// CreateTask creates a task and, when t.Collaborators names at least one
// collaborator, attaches them in a second request. The creation response must carry
// data.task.id.
func (c *Client) CreateTask(ctx context.Context, t TaskSpec) (*TaskCreation, error) {
	const op = "task.tasks.create"
	if err := required(op, "summary", t.Summary); err != nil {
		return nil, err
	}

	env, err := c.do(ctx, &transport.Request{
		Operation: op,
		Method:    http.MethodPost,
		Path:      "/task/v1/tasks",
		Params:    url.Values{"user_id_type": {IDTypeOpenID}},
		Body: taskBody{
			Summary:     t.Summary,
			Description: t.Description,
			Extra:       t.Extra,
			Due:         t.Due,
			Origin:      t.Origin,
			CanEdit:     t.CanEdit,
		},
	})
	if err != nil {
		return nil, err
	}

	var data struct {
		Task struct {
			ID string `json:"id"`
		} `json:"task"`
	}
	if err := env.Decode(&data); err != nil {
		return nil, wrapShape(err, op).WithAPICode(env.Code)
	}
	if data.Task.ID == "" {
		return nil, errors.New(errors.ErrMalformedEnvelope, "response has no data.task.id").
			WithOperation(op).WithAPICode(env.Code)
	}

	created := &TaskCreation{TaskID: data.Task.ID, Creation: env}
	if t.Collaborators == nil || t.Collaborators.Empty() {
		return created, nil
	}

	collab, err := c.AddTaskCollaborators(ctx, created.TaskID, *t.Collaborators)
	if err != nil {
		return nil, err
	}
	created.Collaborator = collab
	return created, nil
}

// GetTaskCollaborators returns the raw collaborator listing of a task.
func (c *Client) GetTaskCollaborators(ctx context.Context, taskID string) (*Envelope, error) {
	return c.taskCall(ctx, "task.collaborators.list", http.MethodGet, taskID, "collaborators", nil)
}

// AddTaskCollaborators attaches collaborators to a task.
func (c *Client) AddTaskCollaborators(ctx context.Context, taskID string, collaborators Collaborators) (*Envelope, error) {
	return c.taskCall(ctx, "task.collaborators.create", http.MethodPost, taskID, "collaborators", collaborators)
}

// RemoveTaskCollaborators detaches collaborators from a task.
func (c *Client) RemoveTaskCollaborators(ctx context.Context, taskID string, collaborators Collaborators) (*Envelope, error) {
	return c.taskCall(ctx, "task.collaborators.batch_delete", http.MethodPost, taskID, "batch_delete_collaborator", collaborators)
}

// UpdateTask patches the fields of task named in updateFields.
func (c *Client) UpdateTask(ctx context.Context, taskID string, updateFields []string, task Task) (*Envelope, error) {
	const op = "task.tasks.patch"
	if err := required(op, "task id", taskID); err != nil {
		return nil, err
	}
	return c.do(ctx, &transport.Request{
		Operation: op,
		Method:    http.MethodPatch,
		Path:      taskPath(taskID),
		Body: map[string]any{
			"task":          task,
			"update_fields": nonNil(updateFields),
		},
		Headers: map[string]string{"Content-Type": "application/json; charset=utf-8"},
	})
}

// CompleteTask marks a task complete. Repeating it repeats the request.
func (c *Client) CompleteTask(ctx context.Context, taskID string) (*Envelope, error) {
	return c.taskCall(ctx, "task.tasks.complete", http.MethodPost, taskID, "complete", nil)
}

// UncompleteTask reopens a completed task.
func (c *Client) UncompleteTask(ctx context.Context, taskID string) (*Envelope, error) {
	return c.taskCall(ctx, "task.tasks.uncomplete", http.MethodPost, taskID, "uncomplete", nil)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) (*Envelope, error) {
	return c.taskCall(ctx, "task.tasks.delete", http.MethodDelete, taskID, "", nil)
}

func (c *Client) taskCall(ctx context.Context, op, method, taskID, suffix string, body any) (*Envelope, error) {
	if err := required(op, "task id", taskID); err != nil {
		return nil, err
	}
	path := taskPath(taskID)
	if suffix != "" {
		path = taskPath(taskID, suffix)
	}
	return c.do(ctx, &transport.Request{
		Operation: op,
		Method:    method,
		Path:      path,
		Body:      body,
	})
}
