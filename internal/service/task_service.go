package service

import (
	"context"

	"bizledger/internal/model"
	"bizledger/internal/repository"
)

type CreateTaskRequest struct {
	Title    string `json:"title" binding:"required"`
	Assignee string `json:"assignee"`
	Status   string `json:"status" binding:"omitempty,oneof='To-Do' 'In Progress' Completed"`
	DueDate  string `json:"due_date" binding:"omitempty,isodate"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof='To-Do' 'In Progress' Completed"`
}

type TaskService interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, req CreateTaskRequest) (*model.Task, error)
	UpdateStatus(ctx context.Context, id string, req UpdateTaskStatusRequest) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	OpenCount(ctx context.Context) (int, error)
}

type taskService struct {
	tasks     repository.Collection[model.Task]
	txManager repository.TransactionManager
	now       Clock
}

func NewTaskService(tasks repository.Collection[model.Task], txManager repository.TransactionManager, now Clock) TaskService {
	return &taskService{tasks: tasks, txManager: txManager, now: orNow(now)}
}

func (s *taskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.tasks.All(ctx)
}

func (s *taskService) CreateTask(ctx context.Context, req CreateTaskRequest) (*model.Task, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = model.TaskToDo
	}

	task := &model.Task{
		TaskID:      model.NewID(model.PrefixTask),
		Title:       req.Title,
		Assignee:    req.Assignee,
		Status:      status,
		CreatedDate: model.Today(s.now()),
		DueDate:     req.DueDate,
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.tasks.Append(txCtx, task)
	}, model.TableTasks)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, id string, req UpdateTaskStatusRequest) (*model.Task, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	var out *model.Task
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.tasks.Update(txCtx, id, func(t *model.Task) error {
			t.Status = req.Status
			return nil
		})
		out = t
		return err
	}, model.TableTasks)
	return out, err
}

func (s *taskService) DeleteTask(ctx context.Context, id string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.tasks.Remove(txCtx, id)
	}, model.TableTasks)
}

// OpenCount counts tasks not yet completed
func (s *taskService) OpenCount(ctx context.Context) (int, error) {
	open, err := s.tasks.Find(ctx, func(t model.Task) bool { return t.Status != model.TaskCompleted })
	if err != nil {
		return 0, err
	}
	return len(open), nil
}
