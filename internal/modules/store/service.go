package store

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/fieldops-backend/internal/cache"
	"github.com/georgemunganga/fieldops-backend/internal/table"
	"github.com/georgemunganga/fieldops-backend/internal/validation"
)

// Service defines store business logic.
type Service interface {
	GetStoreSummaries(ctx context.Context) ([]Summary, error)
	ListStores(ctx context.Context, page, limit int, zone string, status Status) (*table.Page[Store], error)
	ListUrgent(ctx context.Context) ([]Summary, error)
	GetStore(ctx context.Context, id string) (*Store, error)
	CreateStore(ctx context.Context, req StoreRequest) (*Store, error)
	UpdateStore(ctx context.Context, id string, req StoreRequest) (*Store, error)
	DeleteStore(ctx context.Context, id string) error
	PinNote(ctx context.Context, id, note string) (*Store, error)
}

// MaxPinnedNote is the longest pinned note, in characters.
const MaxPinnedNote = 500

// StoreRequest holds the editable fields of a store, for create and full update.
type StoreRequest struct {
	StoreCode  string     `json:"store_code" validate:"store_code"`
	Name       string     `json:"name" validate:"required,max=120"`
	Category   string     `json:"category" validate:"max=60"`
	Owner      string     `json:"owner" validate:"max=120"`
	Phone      string     `json:"phone" validate:"omitempty,phone"`
	Zone       string     `json:"zone" validate:"required,max=60"`
	AreaName   string     `json:"area_name" validate:"max=120"`
	Address    string     `json:"address" validate:"max=255"`
	MapLink    string     `json:"map_link" validate:"omitempty,url"`
	Status     Status     `json:"status" validate:"omitempty,oneof=Active Closed"`
	LastVisit  *time.Time `json:"last_visit"`
	Contacts   []Contact  `json:"contacts" validate:"dive"`
	HasPOS     bool       `json:"has_pos"`
	HasSIMCard bool       `json:"has_sim_card"`
}

func (req StoreRequest) apply(s *Store) {
	s.StoreCode = req.StoreCode
	s.Name = req.Name
	s.Category = req.Category
	s.Owner = req.Owner
	s.Phone = req.Phone
	s.Zone = req.Zone
	s.AreaName = req.AreaName
	s.Address = req.Address
	s.MapLink = req.MapLink
	if req.Status != "" {
		s.Status = req.Status
	}
	if s.Status == "" {
		s.Status = StatusActive
	}
	if req.LastVisit != nil {
		s.LastVisit = req.LastVisit
	}
	s.Contacts = Contacts(req.Contacts)
	s.HasPOS = req.HasPOS
	s.HasSIMCard = req.HasSIMCard
}

type service struct {
	repo      Repository
	stores    *cache.Cache[[]*Store]
	dependent []cache.Invalidator
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewService creates a store service. stores is the shared cache of the
// full store list; it is invalidated after every mutation. dependent caches
// hold rows that cascade with a store and are invalidated when one is deleted.
func NewService(repo Repository, stores *cache.Cache[[]*Store], log logrus.FieldLogger, dependent ...cache.Invalidator) Service {
	return &service{repo: repo, stores: stores, dependent: dependent, log: log, now: time.Now}
}

func (s *service) GetStoreSummaries(ctx context.Context) ([]Summary, error) {
	stores, err := s.stores.Get(ctx)
	if err != nil {
		return nil, s.remote(err, "load stores", nil)
	}
	now := s.now()
	out := make([]Summary, 0, len(stores))
	for _, st := range stores {
		out = append(out, Summarize(st, now))
	}
	return out, nil
}

func (s *service) ListStores(ctx context.Context, page, limit int, zone string, status Status) (*table.Page[Store], error) {
	var filters []table.Filter
	if zone != "" {
		filters = append(filters, table.Eq("zone", zone))
	}
	if status != "" {
		filters = append(filters, table.Eq("status", status))
	}
	p, err := s.repo.GetPaginated(ctx, page, limit, filters...)
	if err != nil {
		return nil, s.remote(err, "list stores", logrus.Fields{"page": page})
	}
	return p, nil
}

func (s *service) ListUrgent(ctx context.Context) ([]Summary, error) {
	now := s.now()
	stores, err := s.repo.GetUrgent(ctx, now)
	if err != nil {
		return nil, s.remote(err, "list urgent stores", nil)
	}
	out := make([]Summary, 0, len(stores))
	for _, st := range stores {
		out = append(out, Summarize(st, now))
	}
	return out, nil
}

func (s *service) GetStore(ctx context.Context, id string) (*Store, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.remote(err, "get store", logrus.Fields{"store_id": id})
	}
	return st, nil
}

func (s *service) CreateStore(ctx context.Context, req StoreRequest) (*Store, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	st := &Store{ID: uuid.New()}
	req.apply(st)
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, s.remote(err, "create store", logrus.Fields{"store_code": st.StoreCode})
	}
	s.stores.Invalidate()
	return st, nil
}

func (s *service) UpdateStore(ctx context.Context, id string, req StoreRequest) (*Store, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	st, err := s.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(st)
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, s.remote(err, "update store", logrus.Fields{"store_id": id})
	}
	s.stores.Invalidate()
	return st, nil
}

func (s *service) DeleteStore(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.remote(err, "delete store", logrus.Fields{"store_id": id})
	}
	s.stores.Invalidate()
	for _, c := range s.dependent {
		c.Invalidate()
	}
	return nil
}

func (s *service) PinNote(ctx context.Context, id, note string) (*Store, error) {
	if utf8.RuneCountInString(note) > MaxPinnedNote {
		return nil, validation.Errors{"pinned_note": "Pinned note must be at most 500 characters"}
	}
	st, err := s.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}
	st.PinnedNote = note
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, s.remote(err, "pin store note", logrus.Fields{"store_id": id})
	}
	s.stores.Invalidate()
	return st, nil
}

// remote logs backend failures once and hands err back unchanged.
func (s *service) remote(err error, msg string, fields logrus.Fields) error {
	var re *table.RemoteError
	if errors.As(err, &re) && !table.IsDuplicate(err) {
		s.log.WithError(err).WithFields(fields).Error(msg)
	}
	return err
}
