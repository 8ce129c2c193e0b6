package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var (
	ErrInvalidDays = errors.New("days must be at least 1")
	ErrInvalidType = errors.New("unknown notification type")
)

// Service owns notification state. ChangeStatus is the only code path that
// mutates a status.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time

	// serializes read-transition-write so two callers cannot both pass the guard
	mu sync.Mutex
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Create stores a new notification in the Pending state.
func (s *Service) Create(ctx context.Context, n Notification) (Notification, error) {
	if !n.Type.Valid() {
		return Notification{}, fmt.Errorf("%w: %q", ErrInvalidType, n.Type)
	}
	n.ID = 0
	n.Status = StatusPending
	n.CreatedAt = s.now().UTC()
	n.ViewedAt, n.ResolvedAt, n.RejectionReason = nil, nil, nil
	if strings.TrimSpace(n.Title) == "" {
		n.Title = string(n.Type)
	}

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return Notification{}, fmt.Errorf("create notification: %w", err)
	}
	s.logger.Info("notification created", "id", created.ID, "type", created.Type)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int) (Notification, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Notification, error) {
	return s.repo.List(ctx, f)
}

// ChangeStatus applies the transition table to notification id.
func (s *Service) ChangeStatus(ctx context.Context, id int, to Status, reason string) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	next, err := Transition(n, to, reason, s.now().UTC())
	if err != nil {
		return n, err
	}
	if err := s.repo.SaveStatus(ctx, next); err != nil {
		return n, fmt.Errorf("save notification %d: %w", id, err)
	}
	s.logger.Info("notification status changed", "id", id, "from", n.Status, "to", next.Status)
	return next, nil
}

func (s *Service) MarkViewed(ctx context.Context, id int) (Notification, error) {
	return s.ChangeStatus(ctx, id, StatusViewed, "")
}

func (s *Service) MarkResolved(ctx context.Context, id int) (Notification, error) {
	return s.ChangeStatus(ctx, id, StatusResolved, "")
}

func (s *Service) Approve(ctx context.Context, id int) (Notification, error) {
	return s.ChangeStatus(ctx, id, StatusApproved, "")
}

func (s *Service) Reject(ctx context.Context, id int, reason string) (Notification, error) {
	return s.ChangeStatus(ctx, id, StatusRejected, reason)
}

// MarkAllViewed moves every pending notification to Viewed and returns how
// many changed.
func (s *Service) MarkAllViewed(ctx context.Context) (int, error) {
	pending, err := s.repo.List(ctx, Filter{Statuses: []Status{StatusPending}})
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, n := range pending {
		_, err := s.ChangeStatus(ctx, n.ID, StatusViewed, "")
		switch {
		case err == nil:
			changed++
		case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNotFound):
			// changed or removed since the listing
		default:
			return changed, err
		}
	}
	return changed, nil
}

// PurgeOlderThan deletes notifications created more than days ago, whatever
// their status.
func (s *Service) PurgeOlderThan(ctx context.Context, days int) (int, error) {
	if days < 1 {
		return 0, ErrInvalidDays
	}
	cutoff := s.now().UTC().AddDate(0, 0, -days)
	deleted, err := s.repo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	s.logger.Info("notifications purged", "days", days, "deleted", deleted)
	return deleted, nil
}

func (s *Service) PendingCount(ctx context.Context) (int, error) {
	return s.repo.CountByStatus(ctx, StatusPending)
}
