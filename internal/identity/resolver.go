// Package identity maps an authenticated principal (issued by the
// external auth provider) to the profile record that drives authorization.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/errdefs"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/store"
	"github.com/nazmulrahman/young-star-app/pkg/logging"
)

// Principal is the opaque authenticated identity prior to role resolution.
type Principal struct {
	ID    string
	Email string
}

type Profile struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

type Resolver struct {
	store        store.DocumentStore
	cache        Cache
	cacheTTL     time.Duration
	fallbackRole model.Role
	log          *logging.Logger
}

// NewResolver builds a resolver. fallbackRole is the role synthesized for
// an authenticated principal with no profile document; pass "" to disable
// the fallback and surface ErrProfileNotFound instead.
func NewResolver(st store.DocumentStore, cache Cache, cacheTTL time.Duration, fallbackRole model.Role, log *logging.Logger) *Resolver {
	return &Resolver{
		store:        st,
		cache:        cache,
		cacheTTL:     cacheTTL,
		fallbackRole: fallbackRole,
		log:          log,
	}
}

func (r *Resolver) Resolve(ctx context.Context, p Principal) (Profile, error) {
	key := cacheKey(p.ID)
	if data, ok := r.cache.Get(ctx, key); ok {
		var prof Profile
		if err := json.Unmarshal(data, &prof); err == nil {
			return prof, nil
		}
		r.cache.Delete(ctx, key)
	}

	doc, err := r.store.Get(ctx, model.CollectionUsers, p.ID)
	switch {
	case err == nil:
		user := model.UserFromDocument(doc)
		prof := Profile{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
		r.cacheSet(ctx, key, prof)
		return prof, nil

	case errors.Is(err, errdefs.ErrNotFound):
		// Document absent is not a transport failure. The synthesized
		// default keeps an under-provisioned account usable but can mask
		// a provisioning bug, so it is configurable and always logged.
		if r.fallbackRole == "" {
			return Profile{}, fmt.Errorf("%w: principal %s", errdefs.ErrProfileNotFound, p.ID)
		}
		prof := Profile{
			ID:    p.ID,
			Name:  nameFromEmail(p.Email),
			Email: p.Email,
			Role:  r.fallbackRole,
		}
		r.log.Warn(ctx, "no profile document for principal, synthesizing default",
			zap.String("principal", p.ID),
			zap.String("fallback_role", r.fallbackRole.String()),
		)
		return prof, nil

	default:
		return Profile{}, fmt.Errorf("%w: %v", errdefs.ErrProfileFetch, err)
	}
}

// Invalidate drops the cached profile; called after role-changing
// mutations so the next request resolves fresh.
func (r *Resolver) Invalidate(ctx context.Context, principalID string) {
	r.cache.Delete(ctx, cacheKey(principalID))
}

func (r *Resolver) cacheSet(ctx context.Context, key string, prof Profile) {
	data, err := json.Marshal(prof)
	if err != nil {
		return
	}
	r.cache.Set(ctx, key, data, r.cacheTTL)
}

func cacheKey(principalID string) string {
	return "profile:" + principalID
}

func nameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
