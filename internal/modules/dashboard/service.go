package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/fieldops-backend/internal/cache"
	"github.com/georgemunganga/fieldops-backend/internal/modules/store"
	"github.com/georgemunganga/fieldops-backend/internal/modules/task"
	"github.com/georgemunganga/fieldops-backend/internal/modules/visit"
)

// ListLimit caps each list on the dashboard.
const ListLimit = 5

// Dashboard is the home screen payload.
type Dashboard struct {
	Metrics        Metrics         `json:"metrics"`
	UpcomingVisits []*visit.Visit  `json:"upcoming_visits"`
	UrgentTasks    []*task.Task    `json:"urgent_tasks"`
	UrgentStores   []store.Summary `json:"urgent_stores"`
}

type Service interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
}

type service struct {
	stores *cache.Cache[[]*store.Store]
	visits *cache.Cache[[]*visit.Visit]
	tasks  *cache.Cache[[]*task.Task]
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewService builds the dashboard on the shared entity caches.
func NewService(stores *cache.Cache[[]*store.Store], visits *cache.Cache[[]*visit.Visit], tasks *cache.Cache[[]*task.Task], log logrus.FieldLogger) Service {
	return &service{stores: stores, visits: visits, tasks: tasks, log: log, now: time.Now}
}

func (s *service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	var (
		stores []*store.Store
		visits []*visit.Visit
		tasks  []*task.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stores, err = s.stores.Get(gctx)
		return err
	})
	g.Go(func() (err error) {
		visits, err = s.visits.Get(gctx)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.tasks.Get(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.WithError(err).Error("load dashboard")
		return nil, err
	}

	now := s.now()
	return &Dashboard{
		Metrics:        CalculateMetrics(stores, visits, tasks, now),
		UpcomingVisits: upcoming(visits, now),
		UrgentTasks:    urgentTasks(tasks),
		UrgentStores:   urgentStores(stores, now),
	}, nil
}

// upcoming returns the next scheduled visits from the start of today.
func upcoming(visits []*visit.Visit, now time.Time) []*visit.Visit {
	from := startOfDay(now)
	out := []*visit.Visit{}
	for _, v := range visits {
		if v.Status == visit.StatusScheduled && !v.Date.Before(from) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return capped(out)
}

func urgentTasks(tasks []*task.Task) []*task.Task {
	out := []*task.Task{}
	for _, t := range tasks {
		if t.IsUrgent() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.Before(*b)
	})
	return capped(out)
}

func urgentStores(stores []*store.Store, now time.Time) []store.Summary {
	out := []store.Summary{}
	for _, st := range stores {
		if st.IsUrgent(now) {
			out = append(out, store.Summarize(st, now))
		}
	}
	// Never visited first, then the longest gap.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastVisit, out[j].LastVisit
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		}
		return a.Before(*b)
	})
	return capped(out)
}

func capped[T any](items []T) []T {
	if len(items) > ListLimit {
		return items[:ListLimit]
	}
	return items
}
