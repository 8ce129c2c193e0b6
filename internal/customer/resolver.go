package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/wichananm65/pet-shop-orders/internal/storage"
	"golang.org/x/sync/singleflight"
)

// ProfileKey is the storage key of the cached profile.
const ProfileKey = "customer.profile"

// Lookup fetches the canonical customer record linked to a user. It returns
// ErrNotFound when the user has no customer record.
type Lookup interface {
	FetchCustomer(ctx context.Context, token string, userID int) (Record, error)
}

// Resolver turns a session into the customer profile used for checkout. The
// cached profile is used as is when complete; otherwise the customer record is
// fetched once, merged over the cache and cached again.
type Resolver struct {
	cache  storage.Store
	lookup Lookup
	tokens TokenValidator
	logger *slog.Logger
	sfg    singleflight.Group
}

func NewResolver(cache storage.Store, lookup Lookup, tokens TokenValidator, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cache: cache, lookup: lookup, tokens: tokens, logger: logger}
}

// Resolve returns nil for guests, ErrSessionExpired when the session token is
// not valid and ErrIdentityLinkMissing when no customer record exists.
func (r *Resolver) Resolve(ctx context.Context, s *Session) (*Profile, error) {
	if s == nil {
		return nil, nil
	}
	userID, err := r.tokens.Validate(s.Token)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	cached, err := r.Cached(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cached.Complete() {
		return &cached, nil
	}

	v, err, _ := r.sfg.Do(strconv.Itoa(userID), func() (interface{}, error) {
		return r.lookup.FetchCustomer(ctx, s.Token, userID)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrIdentityLinkMissing
	}
	if err != nil {
		return nil, fmt.Errorf("fetch customer %d: %w", userID, err)
	}

	merged := cached.Merge(v.(Record).Profile())
	merged.UserID = userID
	if merged.CustomerID <= 0 {
		return nil, ErrIdentityLinkMissing
	}
	if err := storage.SaveJSON(ctx, r.cache, ProfileKey, merged); err != nil {
		// the profile is still usable for this checkout
		r.logger.Warn("profile cache write failed", "user_id", userID, "error", err)
	}
	return &merged, nil
}

// Cached returns the cached profile for userID, or an empty profile when the
// cache is empty, malformed or belongs to another user.
func (r *Resolver) Cached(ctx context.Context, userID int) (Profile, error) {
	var p Profile
	ok, err := storage.LoadJSON(ctx, r.cache, ProfileKey, &p)
	if err != nil {
		return Profile{}, err
	}
	if !ok || p.UserID != userID {
		return Profile{UserID: userID}, nil
	}
	return p, nil
}

// Remember caches p, typically after the shopper edits their details.
func (r *Resolver) Remember(ctx context.Context, p Profile) error {
	return storage.SaveJSON(ctx, r.cache, ProfileKey, p)
}
