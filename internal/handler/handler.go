// Package handler is the HTTP surface of the portal: thin chi handlers
// over the mutation coordinator for writes and over the per-session sync
// engine for reads.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nazmulrahman/young-star-app/internal/authz"
	"github.com/nazmulrahman/young-star-app/internal/identity"
	"github.com/nazmulrahman/young-star-app/internal/service"
	"github.com/nazmulrahman/young-star-app/internal/session"
	syncengine "github.com/nazmulrahman/young-star-app/internal/sync"
	"github.com/nazmulrahman/young-star-app/pkg/logging"
)

type principalKey struct{}
type profileKey struct{}

type Portal struct {
	coordinator    *service.Coordinator
	sessions       *session.Registry
	resolver       *identity.Resolver
	secret         string
	issuer         string
	sessionTTL     time.Duration
	providerSecret string
	log            *logging.Logger
}

func NewPortal(coordinator *service.Coordinator, sessions *session.Registry, resolver *identity.Resolver, secret, issuer string, sessionTTL time.Duration, providerSecret string, log *logging.Logger) *Portal {
	return &Portal{
		coordinator:    coordinator,
		sessions:       sessions,
		resolver:       resolver,
		secret:         secret,
		issuer:         issuer,
		sessionTTL:     sessionTTL,
		providerSecret: providerSecret,
		log:            log,
	}
}

func (p *Portal) RegisterRoutes(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Session minting stands in for the external auth provider callback:
	// the provider has already authenticated the principal, this endpoint
	// exchanges the asserted identity for a signed session token. Only the
	// provider may call it; it proves itself with a shared secret.
	r.Post("/auth/session", p.mintSession)

	// Profile bootstrap needs only a valid principal token; the profile
	// document may not exist yet.
	r.Group(func(r chi.Router) {
		r.Use(p.requirePrincipal)
		r.Post("/profile/register", p.register)
		r.Post("/profile/apply-instructor", p.applyInstructor)
	})

	r.Group(func(r chi.Router) {
		r.Use(p.requirePrincipal, p.requireProfile)

		r.Get("/me", p.me)
		r.Post("/logout", p.logout)
		r.Get("/events", p.events)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", p.listUsers)
			r.Get("/students", p.listStudents)
			r.Post("/students", p.addStudent)
			r.Delete("/{id}", p.deleteStudent)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", p.listTasks)
			r.Post("/", p.createTask)
			r.Put("/{id}", p.updateTask)
			r.Post("/{id}/submissions", p.addSubmission)
		})

		r.Route("/submissions", func(r chi.Router) {
			r.Get("/", p.listSubmissions)
			r.Put("/{id}/grade", p.gradeSubmission)
		})

		r.Route("/meetings", func(r chi.Router) {
			r.Get("/", p.listMeetings)
			r.Post("/", p.scheduleMeeting)
		})

		r.Route("/announcements", func(r chi.Router) {
			r.Get("/", p.listAnnouncements)
			r.Post("/", p.postAnnouncement)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", p.listMessages)
			r.Post("/", p.sendMessage)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", p.listNotes)
			r.Post("/", p.addNote)
			r.Delete("/{id}", p.deleteNote)
		})

		r.Route("/applications", func(r chi.Router) {
			r.Get("/", p.listApplications)
			r.Post("/{id}/approve", p.approveApplication)
			r.Post("/{id}/reject", p.rejectApplication)
		})
	})
}

func principalFrom(ctx context.Context) (identity.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(identity.Principal)
	return p, ok
}

func profileFrom(ctx context.Context) (identity.Profile, bool) {
	p, ok := ctx.Value(profileKey{}).(identity.Profile)
	return p, ok
}

func identityFrom(ctx context.Context) (authz.Identity, bool) {
	prof, ok := profileFrom(ctx)
	if !ok {
		return authz.Identity{}, false
	}
	return authz.Identity{ID: prof.ID, Role: prof.Role}, true
}

func (p *Portal) engine(w http.ResponseWriter, req *http.Request) (*syncengine.Engine, authz.Identity, bool) {
	ident, ok := identityFrom(req.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return nil, authz.Identity{}, false
	}
	engine, err := p.sessions.Engine(req.Context(), ident)
	if err != nil {
		writeError(w, req, p.log, err)
		return nil, authz.Identity{}, false
	}
	return engine, ident, true
}
