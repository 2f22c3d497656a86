package visit

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/fieldops-backend/internal/cache"
	"github.com/georgemunganga/fieldops-backend/internal/modules/settings"
	"github.com/georgemunganga/fieldops-backend/internal/modules/store"
	"github.com/georgemunganga/fieldops-backend/internal/table"
	"github.com/georgemunganga/fieldops-backend/internal/validation"
)

// Service defines visit business logic.
type Service interface {
	ListVisits(ctx context.Context) ([]*Visit, error)
	ListUpcoming(ctx context.Context, limit int) ([]*Visit, error)
	ListByStore(ctx context.Context, storeID string) ([]*Visit, error)
	GetVisit(ctx context.Context, id string) (*Visit, error)
	GetPerformanceMetrics(ctx context.Context) (*Performance, error)
	Schedule(ctx context.Context, req ScheduleVisitRequest) (*Visit, error)
	Complete(ctx context.Context, id string, req CompleteVisitRequest) (*Visit, error)
	Reschedule(ctx context.Context, id string, req RescheduleRequest) (*Visit, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleVisitRequest holds data for planning a visit.
type ScheduleVisitRequest struct {
	StoreID string     `json:"store_id" validate:"required,uuid" msg:"Please select a store"`
	Date    *time.Time `json:"date" validate:"required"`
	Type    string     `json:"type" validate:"required,max=60"`
	Reason  string     `json:"reason" validate:"max=120"`
	Note    string     `json:"note" validate:"max=1000"`
}

// CompleteVisitRequest records the outcome of a visit.
type CompleteVisitRequest struct {
	IsEffective *bool  `json:"is_effective" validate:"required" msg:"Please say whether the visit was effective"`
	Note        string `json:"note" validate:"max=1000"`
}

// RescheduleRequest moves a scheduled visit. Empty fields are left unchanged.
type RescheduleRequest struct {
	Date   *time.Time `json:"date" validate:"required"`
	Type   string     `json:"type" validate:"max=60"`
	Reason string     `json:"reason" validate:"max=120"`
	Note   string     `json:"note" validate:"max=1000"`
}

// StoreLookup is the part of the store repository visits need.
type StoreLookup interface {
	GetByID(ctx context.Context, id string) (*store.Store, error)
	TouchLastVisit(ctx context.Context, id string, at time.Time) error
}

// SettingsReader supplies the configured visit types and reasons.
type SettingsReader interface {
	Get(ctx context.Context) (*settings.Settings, error)
}

type service struct {
	repo       Repository
	visits     *cache.Cache[[]*Visit]
	stores     StoreLookup
	storeCache cache.Invalidator
	settings   SettingsReader
	log        logrus.FieldLogger
	now        func() time.Time
}

// NewService creates a visit service. Completing a visit updates the store's
// last visit, so the store cache is invalidated as well.
func NewService(repo Repository, visits *cache.Cache[[]*Visit], stores StoreLookup, storeCache cache.Invalidator, cfg SettingsReader, log logrus.FieldLogger) Service {
	return &service{
		repo:       repo,
		visits:     visits,
		stores:     stores,
		storeCache: storeCache,
		settings:   cfg,
		log:        log,
		now:        time.Now,
	}
}

func (s *service) ListVisits(ctx context.Context) ([]*Visit, error) {
	visits, err := s.visits.Get(ctx)
	if err != nil {
		return nil, s.remote(err, "load visits", nil)
	}
	return visits, nil
}

func (s *service) ListUpcoming(ctx context.Context, limit int) ([]*Visit, error) {
	visits, err := s.repo.GetUpcoming(ctx, limit)
	if err != nil {
		return nil, s.remote(err, "list upcoming visits", nil)
	}
	return visits, nil
}

func (s *service) ListByStore(ctx context.Context, storeID string) ([]*Visit, error) {
	visits, err := s.repo.GetByStore(ctx, storeID)
	if err != nil {
		return nil, s.remote(err, "list store visits", logrus.Fields{"store_id": storeID})
	}
	return visits, nil
}

func (s *service) GetVisit(ctx context.Context, id string) (*Visit, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.remote(err, "get visit", logrus.Fields{"visit_id": id})
	}
	return v, nil
}

func (s *service) GetPerformanceMetrics(ctx context.Context) (*Performance, error) {
	since := s.now().Add(-PerformanceWindow)
	completed, err := s.repo.GetCompletedSince(ctx, since)
	if err != nil {
		return nil, s.remote(err, "load completed visits", nil)
	}
	p := &Performance{Total: len(completed), Since: since}
	for _, v := range completed {
		if v.IsEffective != nil && *v.IsEffective {
			p.Effective++
		}
	}
	p.Rate = PerformanceRate(p.Effective, p.Total)
	return p, nil
}

func (s *service) Schedule(ctx context.Context, req ScheduleVisitRequest) (*Visit, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.stores.GetByID(ctx, req.StoreID); err != nil {
		if errors.Is(err, table.ErrNotFound) {
			return nil, validation.Errors{"store_id": "Please select a store"}
		}
		return nil, s.remote(err, "look up store", logrus.Fields{"store_id": req.StoreID})
	}
	if err := s.checkType(ctx, req.Type, req.Reason); err != nil {
		return nil, err
	}

	v := &Visit{
		ID:      uuid.New(),
		StoreID: uuid.MustParse(req.StoreID),
		Date:    req.Date.UTC(),
		Type:    req.Type,
		Reason:  req.Reason,
		Note:    req.Note,
		Status:  StatusScheduled,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, s.remote(err, "schedule visit", logrus.Fields{"store_id": req.StoreID})
	}
	s.visits.Invalidate()
	return v, nil
}

func (s *service) Complete(ctx context.Context, id string, req CompleteVisitRequest) (*Visit, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	v, err := s.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}
	effective := *req.IsEffective
	v.Status = StatusCompleted
	v.IsEffective = &effective
	if req.Note != "" {
		v.Note = req.Note
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, s.remote(err, "complete visit", logrus.Fields{"visit_id": id})
	}
	s.visits.Invalidate()

	// The visit stays completed when the store touch fails.
	if err := s.stores.TouchLastVisit(ctx, v.StoreID.String(), s.now().UTC()); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"visit_id": id, "store_id": v.StoreID}).Warn("touch store last visit")
		return v, nil
	}
	s.storeCache.Invalidate()
	return v, nil
}

func (s *service) Reschedule(ctx context.Context, id string, req RescheduleRequest) (*Visit, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	v, err := s.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Status == StatusCompleted {
		return nil, validation.Errors{"status": "Completed visits cannot be rescheduled"}
	}
	if req.Type != "" {
		v.Type = req.Type
	}
	if req.Reason != "" {
		v.Reason = req.Reason
	}
	if err := s.checkType(ctx, v.Type, v.Reason); err != nil {
		return nil, err
	}
	v.Date = req.Date.UTC()
	if req.Note != "" {
		v.Note = req.Note
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, s.remote(err, "reschedule visit", logrus.Fields{"visit_id": id})
	}
	s.visits.Invalidate()
	return v, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.remote(err, "delete visit", logrus.Fields{"visit_id": id})
	}
	s.visits.Invalidate()
	return nil
}

// checkType validates typ and reason against the configured settings.
func (s *service) checkType(ctx context.Context, typ, reason string) error {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	errs := validation.Errors{}
	if !cfg.AllowsVisitType(typ) {
		errs.Add("type", "Unknown visit type")
	}
	if reasons := cfg.VisitReasons[typ]; reason != "" && len(reasons) > 0 && !slices.Contains(reasons, reason) {
		errs.Add("reason", "Unknown visit reason")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// remote logs backend failures once and hands err back unchanged.
func (s *service) remote(err error, msg string, fields logrus.Fields) error {
	var re *table.RemoteError
	if errors.As(err, &re) {
		s.log.WithError(err).WithFields(fields).Error(msg)
	}
	return err
}
