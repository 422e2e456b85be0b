package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ucontacts/contacts_app/internal/apperrors"
	"github.com/ucontacts/contacts_app/internal/core/domain"
	portsrepo "github.com/ucontacts/contacts_app/internal/core/ports/repositories"
	portssvc "github.com/ucontacts/contacts_app/internal/core/ports/services"
	"github.com/ucontacts/contacts_app/internal/dto"
	"github.com/ucontacts/contacts_app/internal/middleware"
)

// Result cache TTLs. Birthday pages change at most once a day so they keep a
// long TTL; plain list and detail reads use a short one. Mutations never
// invalidate entries, staleness is bounded by the TTL alone.
const (
	listCacheTTL     = 10 * time.Second
	detailCacheTTL   = 10 * time.Second
	birthdayCacheTTL = 3600 * time.Second
)

type ContactService struct {
	contactRepo portsrepo.ContactRepository
	cache       portssvc.Cache

	// now is the clock used to anchor birthday windows, replaceable in tests.
	now func() time.Time
}

func NewContactService(contactRepo portsrepo.ContactRepository, cache portssvc.Cache) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		cache:       cache,
		now:         time.Now,
	}
}

// NewContactServiceWithClock is like NewContactService but with a fixed
// clock, used by tests to pin the birthday window anchor date.
func NewContactServiceWithClock(contactRepo portsrepo.ContactRepository, cache portssvc.Cache, now func() time.Time) *ContactService {
	svc := NewContactService(contactRepo, cache)
	svc.now = now
	return svc
}

var _ portssvc.ContactSvcFacade = (*ContactService)(nil)

// Cache keys embed every input that shapes the result, so two requests share
// an entry only when they would get byte-identical responses.

func listCacheKey(userID, filter string, skip, limit int) string {
	return fmt.Sprintf("contacts:%s:%s:%d:%d", userID, filter, skip, limit)
}

func detailCacheKey(userID string, contactID int64) string {
	return fmt.Sprintf("contacts:one:%s:%d", userID, contactID)
}

func birthdayCacheKey(userID string, skip, limit, windowDays int) string {
	return fmt.Sprintf("contacts:birthday:%s:%d:%d:%d", userID, skip, limit, windowDays)
}

// cachedFetch runs the read path through the cache: serve a hit verbatim,
// otherwise load from the repository and repopulate. Any cache failure is
// logged and treated as a miss; it never fails the request.
func cachedFetch[T any](ctx context.Context, cache portssvc.Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var zero T
	if cache != nil {
		raw, found, err := cache.Get(ctx, key)
		if err != nil {
			logger.Warn("cache get failed, bypassing cache", "key", key, "error", err)
		} else if found {
			var cached T
			if err := json.Unmarshal(raw, &cached); err != nil {
				logger.Warn("cache entry undecodable, bypassing cache", "key", key, "error", err)
			} else {
				return cached, nil
			}
		}
	}

	result, err := load(ctx)
	if err != nil {
		return zero, err
	}

	if cache != nil {
		raw, err := json.Marshal(result)
		if err != nil {
			logger.Warn("failed to encode result for cache", "key", key, "error", err)
			return result, nil
		}
		if err := cache.Set(ctx, key, raw, ttl); err != nil {
			logger.Warn("cache set failed", "key", key, "error", err)
		}
	}
	return result, nil
}

func (s *ContactService) ListContacts(ctx context.Context, userID string, filter string, skip, limit int) ([]domain.Contact, error) {
	key := listCacheKey(userID, filter, skip, limit)
	return cachedFetch(ctx, s.cache, key, listCacheTTL, func(ctx context.Context) ([]domain.Contact, error) {
		return s.contactRepo.FindContacts(ctx, userID, filter, skip, limit)
	})
}

func (s *ContactService) GetContactByID(ctx context.Context, contactID int64, userID string) (*domain.Contact, error) {
	key := detailCacheKey(userID, contactID)
	return cachedFetch(ctx, s.cache, key, detailCacheTTL, func(ctx context.Context) (*domain.Contact, error) {
		return s.contactRepo.FindContactByID(ctx, contactID, userID)
	})
}

func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID string, skip, limit, windowDays int) ([]domain.Contact, error) {
	window, err := domain.NewBirthdayWindow(s.now().UTC(), windowDays)
	if err != nil {
		return nil, err
	}

	key := birthdayCacheKey(userID, skip, limit, windowDays)
	return cachedFetch(ctx, s.cache, key, birthdayCacheTTL, func(ctx context.Context) ([]domain.Contact, error) {
		return s.contactRepo.FindContactsWithUpcomingBirthday(ctx, userID, window, skip, limit)
	})
}

func (s *ContactService) CreateContact(ctx context.Context, userID string, req dto.ContactRequest) (*domain.Contact, error) {
	if _, err := s.contactRepo.FindContactByEmail(ctx, req.Email, userID); err == nil {
		return nil, fmt.Errorf("contact with email %s already exists: %w", req.Email, apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	contact := domain.Contact{
		UserID:      userID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Birthday:    req.Birthday.TimePtr(),
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.contactRepo.SaveContact(ctx, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *ContactService) UpdateContact(ctx context.Context, contactID int64, userID string, req dto.ContactRequest) (*domain.Contact, error) {
	existing, err := s.contactRepo.FindContactByID(ctx, contactID, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.contactRepo.FindContactByEmailExcluding(ctx, req.Email, contactID, userID); err == nil {
		return nil, fmt.Errorf("contact with email %s already exists: %w", req.Email, apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Birthday = req.Birthday.TimePtr()
	existing.Description = req.Description
	existing.UpdatedAt = time.Now()

	if err := s.contactRepo.UpdateContact(ctx, *existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *ContactService) DeleteContact(ctx context.Context, contactID int64, userID string) (*domain.Contact, error) {
	contact, err := s.contactRepo.FindContactByID(ctx, contactID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.contactRepo.DeleteContact(ctx, contactID, userID); err != nil {
		return nil, err
	}
	return contact, nil
}
