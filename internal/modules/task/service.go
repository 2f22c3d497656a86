package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/fieldops-backend/internal/cache"
	"github.com/georgemunganga/fieldops-backend/internal/modules/settings"
	"github.com/georgemunganga/fieldops-backend/internal/modules/store"
	"github.com/georgemunganga/fieldops-backend/internal/table"
	"github.com/georgemunganga/fieldops-backend/internal/validation"
)

// Service defines task business logic.
type Service interface {
	Create(ctx context.Context, req TaskRequest) (*Task, error)
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context) ([]*Task, error)
	ListPaginated(ctx context.Context, page, limit int, status Status) (*table.Page[Task], error)
	ListUrgent(ctx context.Context, limit int) ([]*Task, error)
	ListByStore(ctx context.Context, storeID string) ([]*Task, error)
	Update(ctx context.Context, id string, req TaskRequest) (*Task, error)
	SetStatus(ctx context.Context, id string, status Status) (*Task, error)
	Delete(ctx context.Context, id string) error
}

// TaskRequest holds the editable fields of a task, for create and full update.
type TaskRequest struct {
	StoreID     string     `json:"store_id" validate:"required,uuid" msg:"Please select a store"`
	Cat         string     `json:"cat" validate:"required,max=60"`
	Sub         string     `json:"sub" validate:"max=60"`
	Priority    Priority   `json:"priority" validate:"omitempty,oneof=high medium low"`
	DueDate     *time.Time `json:"due_date"`
	Description string     `json:"description" validate:"max=1000"`
	Status      Status     `json:"status" validate:"omitempty,oneof=pending in_progress done"`
}

type statusRequest struct {
	Status Status `json:"status" validate:"required,oneof=pending in_progress done"`
}

// StoreLookup is the part of the store repository tasks need.
type StoreLookup interface {
	GetByID(ctx context.Context, id string) (*store.Store, error)
}

// SettingsReader supplies the configured task categories.
type SettingsReader interface {
	Get(ctx context.Context) (*settings.Settings, error)
}

type service struct {
	repo     Repository
	tasks    *cache.Cache[[]*Task]
	stores   StoreLookup
	settings SettingsReader
	log      logrus.FieldLogger
}

// NewService creates a task service.
func NewService(repo Repository, tasks *cache.Cache[[]*Task], stores StoreLookup, cfg SettingsReader, log logrus.FieldLogger) Service {
	return &service{repo: repo, tasks: tasks, stores: stores, settings: cfg, log: log}
}

func (s *service) Create(ctx context.Context, req TaskRequest) (*Task, error) {
	if err := s.check(ctx, req); err != nil {
		return nil, err
	}
	t := &Task{ID: uuid.New()}
	req.apply(t)
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, s.remote(err, "create task", logrus.Fields{"store_id": req.StoreID})
	}
	s.tasks.Invalidate()
	return t, nil
}

func (s *service) Get(ctx context.Context, id string) (*Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.remote(err, "get task", logrus.Fields{"task_id": id})
	}
	return t, nil
}

func (s *service) List(ctx context.Context) ([]*Task, error) {
	tasks, err := s.tasks.Get(ctx)
	if err != nil {
		return nil, s.remote(err, "load tasks", nil)
	}
	return tasks, nil
}

func (s *service) ListPaginated(ctx context.Context, page, limit int, status Status) (*table.Page[Task], error) {
	var filters []table.Filter
	if status != "" {
		filters = append(filters, table.Eq("status", status))
	}
	p, err := s.repo.GetPaginated(ctx, page, limit, filters...)
	if err != nil {
		return nil, s.remote(err, "list tasks", logrus.Fields{"page": page})
	}
	return p, nil
}

func (s *service) ListUrgent(ctx context.Context, limit int) ([]*Task, error) {
	tasks, err := s.repo.GetUrgent(ctx, limit)
	if err != nil {
		return nil, s.remote(err, "list urgent tasks", nil)
	}
	return tasks, nil
}

func (s *service) ListByStore(ctx context.Context, storeID string) ([]*Task, error) {
	tasks, err := s.repo.GetByStore(ctx, storeID)
	if err != nil {
		return nil, s.remote(err, "list store tasks", logrus.Fields{"store_id": storeID})
	}
	return tasks, nil
}

func (s *service) Update(ctx context.Context, id string, req TaskRequest) (*Task, error) {
	if err := s.check(ctx, req); err != nil {
		return nil, err
	}
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(t)
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, s.remote(err, "update task", logrus.Fields{"task_id": id})
	}
	s.tasks.Invalidate()
	return t, nil
}

// SetStatus moves a task to any allowed status; transitions are not restricted.
func (s *service) SetStatus(ctx context.Context, id string, status Status) (*Task, error) {
	if err := validation.Validate(statusRequest{Status: status}); err != nil {
		return nil, err
	}
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Status = status
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, s.remote(err, "set task status", logrus.Fields{"task_id": id, "status": status})
	}
	s.tasks.Invalidate()
	return t, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.remote(err, "delete task", logrus.Fields{"task_id": id})
	}
	s.tasks.Invalidate()
	return nil
}

// check validates req, then checks the store exists and the category is configured.
func (s *service) check(ctx context.Context, req TaskRequest) error {
	if err := validation.Validate(req); err != nil {
		return err
	}
	if _, err := s.stores.GetByID(ctx, req.StoreID); err != nil {
		if errors.Is(err, table.ErrNotFound) {
			return validation.Errors{"store_id": "Please select a store"}
		}
		return s.remote(err, "look up store", logrus.Fields{"store_id": req.StoreID})
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !cfg.AllowsTask(req.Cat, "") {
		return validation.Errors{"cat": "Unknown task category"}
	}
	if !cfg.AllowsTask(req.Cat, req.Sub) {
		return validation.Errors{"sub": "Unknown sub-task for " + req.Cat}
	}
	return nil
}

func (req TaskRequest) apply(t *Task) {
	t.StoreID = uuid.MustParse(req.StoreID)
	t.Cat = req.Cat
	t.Sub = req.Sub
	t.Priority = req.Priority
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	t.DueDate = req.DueDate
	t.Description = req.Description
	if req.Status != "" {
		t.Status = req.Status
	} else if t.Status == "" {
		t.Status = StatusPending
	}
}

func (s *service) remote(err error, msg string, fields logrus.Fields) error {
	var re *table.RemoteError
	if errors.As(err, &re) {
		s.log.WithError(err).WithFields(fields).Error(msg)
	}
	return err
}
