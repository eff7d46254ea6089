package wastecode

import (
	"context"
	"errors"
	"log/slog"

	pkgerrors "emanifest/pkg/errors"
	"emanifest/pkg/platform/sentinel"
)

// Service answers waste code list lookups.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a waste code Service.
func NewService(store Store, logger *slog.Logger) *Service {
	if store == nil {
		panic("wastecode: store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// List returns the entries of one published code list.
func (s *Service) List(ctx context.Context, t ListType) ([]Code, error) {
	if !t.Known() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "unknown waste code list: "+string(t))
	}
	codes, err := s.store.List(ctx, t)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "waste code list not loaded: "+string(t))
		}
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "waste code lookup failed")
	}
	return codes, nil
}
