package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"hilltop/internal/metrics"
	"hilltop/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/sirupsen/logrus"
)

type CategoryStore interface {
	Categories(ctx context.Context) ([]*types.Category, error)
	Category(ctx context.Context, id int64) (*types.Category, error)
	CreateCategory(ctx context.Context, input *types.CategoryInput) (*types.Category, error)
	UpdateCategory(ctx context.Context, id int64, input *types.CategoryInput) (*types.Category, error)
	DeleteCategory(ctx context.Context, id int64) (bool, error)
}

type ResourceStore interface {
	Resources(ctx context.Context, filter types.ResourceFilter) ([]*types.ResourceWithCategory, error)
	FeaturedResources(ctx context.Context, limit int) ([]*types.ResourceWithCategory, error)
	Resource(ctx context.Context, id int64) (*types.ResourceWithCategory, error)
	CreateResource(ctx context.Context, input *types.ResourceInput) (*types.ResourceWithCategory, error)
	UpdateResource(ctx context.Context, id int64, input *types.ResourceInput) (*types.ResourceWithCategory, error)
	DeleteResource(ctx context.Context, id int64) (bool, error)
}

type ContactStore interface {
	CreateContact(ctx context.Context, input *types.ContactInput) (*types.Contact, error)
	Contacts(ctx context.Context) ([]*types.Contact, error)
}

type Service struct {
	logger  *logrus.Logger
	config  *types.Config
	metrics metrics.Recorder

	categories CategoryStore
	resources  ResourceStore
	contacts   ContactStore

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	recorder metrics.Recorder,
	categories CategoryStore,
	resources ResourceStore,
	contacts ContactStore,
) *Service {
	mux := flow.New()

	if recorder == nil {
		recorder = metrics.Nop{}
	}

	s := &Service{
		logger:  logger,
		config:  config,
		metrics: recorder,

		categories: categories,
		resources:  resources,
		contacts:   contacts,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.NotFound = http.HandlerFunc(s.handleNotFound)

	r.Use(s.RequestIDMiddleware)
	r.Use(s.LoggingMiddleware)
	r.Use(s.RecoverMiddleware)
	r.Use(s.StripTrailingSlash)

	s.route(r, "/health", s.handleHealth, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.HandleCORS)
		r.Use(s.NoStore)

		s.route(r, "/api/health", s.handleAPIHealth, http.MethodGet)

		s.route(r, "/api/categories", s.handleListCategories, http.MethodGet)
		s.route(r, "/api/categories", s.handleCreateCategory, http.MethodPost)
		s.route(r, "/api/categories/:id", s.handleGetCategory, http.MethodGet)
		s.route(r, "/api/categories/:id", s.handleUpdateCategory, http.MethodPut)
		s.route(r, "/api/categories/:id", s.handleDeleteCategory, http.MethodDelete)

		s.route(r, "/api/resources", s.handleListResources, http.MethodGet)
		s.route(r, "/api/resources", s.handleCreateResource, http.MethodPost)
		// registered ahead of /:id, flow matches in order
		s.route(r, "/api/resources/featured", s.handleFeaturedResources, http.MethodGet)
		s.route(r, "/api/resources/:id", s.handleGetResource, http.MethodGet)
		s.route(r, "/api/resources/:id", s.handleUpdateResource, http.MethodPut)
		s.route(r, "/api/resources/:id", s.handleDeleteResource, http.MethodDelete)

		s.route(r, "/api/contact", s.handleCreateContact, http.MethodPost)
		s.route(r, "/api/contacts", s.handleListContacts, http.MethodGet)

		s.route(r, "/api/...", s.handleAPINotFound)
	})

	if s.config.MetricsEnabled {
		r.Handle("/metrics", s.metrics.Handler(), http.MethodGet)
	}

	s.route(r, "/...", s.staticHandler().ServeHTTP, http.MethodGet)
}

// route registers fn with request metrics labelled by pattern, which keeps the
// route label bounded.
func (s *Service) route(r *flow.Mux, pattern string, fn http.HandlerFunc, methods ...string) {
	r.Handle(pattern, s.instrument(pattern, fn), methods...)
}
