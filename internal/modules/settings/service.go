package settings

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/fieldops-backend/internal/cache"
	"github.com/georgemunganga/fieldops-backend/internal/validation"
)

// Service reads and replaces the settings record.
type Service interface {
	// Get returns the current settings. Callers must not modify the result.
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, req Settings) (*Settings, error)
}

type service struct {
	repo    Repository
	current *cache.Cache[*Settings]
	log     logrus.FieldLogger
}

// NewService creates a settings service backed by the given cache.
func NewService(repo Repository, current *cache.Cache[*Settings], log logrus.FieldLogger) Service {
	return &service{repo: repo, current: current, log: log}
}

func (s *service) Get(ctx context.Context) (*Settings, error) {
	cur, err := s.current.Get(ctx)
	if err != nil {
		s.log.WithError(err).Error("load settings")
		return nil, err
	}
	return cur, nil
}

func (s *service) Update(ctx context.Context, req Settings) (*Settings, error) {
	if errs := validation.SafeValidate(req); errs != nil {
		return nil, errs
	}
	next := req
	if err := s.repo.Save(ctx, &next); err != nil {
		s.log.WithError(err).Error("save settings")
		return nil, err
	}
	s.current.Invalidate()
	s.log.WithField("updated_at", next.UpdatedAt).Info("settings updated")
	return &next, nil
}
