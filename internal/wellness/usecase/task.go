package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/wellness/entity"
)

var errTaskNotFound = goerror.NewBusiness("task not found", goerror.CodeNotFound)

func (s *Usecase) ListTasks(ctx context.Context) ([]entity.Task, error) {
	ctx, span := s.startSpan(ctx, "ListTasks")
	defer span.End()

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repoDB.ListTasks(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list tasks", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return tasks, nil
}

type CreateTaskInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Category    string `json:"category" validate:"max=50"`
	IsCompleted bool   `json:"is_completed"`
	Order       int    `json:"order" validate:"min=0"`
}

func (s *Usecase) CreateTask(ctx context.Context, in CreateTaskInput) (*entity.Task, error) {
	ctx, span := s.startSpan(ctx, "CreateTask")
	defer span.End()

	in.Title = strings.TrimSpace(in.Title)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	task := entity.Task{
		ID:          s.uid.Generate(),
		UserID:      userID,
		Title:       in.Title,
		Category:    strings.TrimSpace(in.Category),
		IsCompleted: in.IsCompleted,
		Order:       in.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repoDB.CreateTask(ctx, task); err != nil {
		slog.ErrorContext(ctx, "failed to repo create task", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &task, nil
}

type UpdateTaskInput struct {
	ID          int64   `json:"-" validate:"gt=0"`
	Title       *string `json:"title" validate:"omitnil,min=1,max=200"`
	Category    *string `json:"category" validate:"omitempty,max=50"`
	IsCompleted *bool   `json:"is_completed"`
	Order       *int    `json:"order" validate:"omitempty,min=0"`
}

func (s *Usecase) UpdateTask(ctx context.Context, in UpdateTaskInput) (*entity.Task, error) {
	ctx, span := s.startSpan(ctx, "UpdateTask")
	defer span.End()

	in.Title = trimPtr(in.Title)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.repoDB.GetTask(ctx, userID, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errTaskNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get task", "task_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	entity.TaskPatch{
		Title:       in.Title,
		Category:    trimPtr(in.Category),
		IsCompleted: in.IsCompleted,
		Order:       in.Order,
	}.Apply(task)
	task.UpdatedAt = s.clock.Now()

	err = s.repoDB.UpdateTask(ctx, *task)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errTaskNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update task", "task_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return task, nil
}

func (s *Usecase) DeleteTask(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "DeleteTask")
	defer span.End()

	userID, err := authUserID(ctx)
	if err != nil {
		return err
	}

	err = s.repoDB.DeleteTask(ctx, userID, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return errTaskNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete task", "task_id", id, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
