package sitedir

import (
	"context"
	"errors"
	"log/slog"

	"emanifest/pkg/domain"
	pkgerrors "emanifest/pkg/errors"
	"emanifest/pkg/platform/sentinel"
)

// Service answers site directory lookups and registrations.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a site directory Service.
func NewService(store Store, logger *slog.Logger) *Service {
	if store == nil {
		panic("sitedir: store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Get looks up one site by EPA ID.
func (s *Service) Get(ctx context.Context, id domain.EPASiteID) (*Site, error) {
	if !id.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "malformed EPA site ID: "+id.String())
	}
	site, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "site not registered: "+id.String())
		}
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "site lookup failed")
	}
	return site, nil
}

// Register adds or replaces a site in the directory.
func (s *Service) Register(ctx context.Context, site *Site) (*Site, error) {
	if site == nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "site is required")
	}
	if !site.EPASiteID.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "malformed EPA site ID: "+site.EPASiteID.String())
	}
	if site.Handler.EPASiteID == "" {
		site.Handler.EPASiteID = site.EPASiteID
	}
	if site.Handler.EPASiteID != site.EPASiteID {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "handler EPA ID does not match site EPA ID")
	}
	if err := s.store.Put(ctx, site); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "site registration failed")
	}
	s.logger.InfoContext(ctx, "site registered", "epa_site_id", site.EPASiteID.String(), "site_type", string(site.SiteType))
	return site, nil
}

// List returns every registered site.
func (s *Service) List(ctx context.Context) ([]Site, error) {
	sites, err := s.store.List(ctx)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "site listing failed")
	}
	return sites, nil
}
