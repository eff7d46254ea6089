package wastecode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	pkgerrors "emanifest/pkg/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type WasteCodeSuite struct {
	suite.Suite
	service *Service
	ctx     context.Context
}

func (s *WasteCodeSuite) SetupTest() {
	s.service = NewService(NewSeededStore(), nil)
	s.ctx = context.Background()
}

func TestWasteCodeSuite(t *testing.T) {
	suite.Run(t, new(WasteCodeSuite))
}

func (s *WasteCodeSuite) TestList() {
	s.Run("federal list is sorted and populated", func() {
		codes, err := s.service.List(s.ctx, ListFederal)
		s.Require().NoError(err)
		s.Require().NotEmpty(codes)
		for i := 1; i < len(codes); i++ {
			s.LessOrEqual(codes[i-1].Code, codes[i].Code)
		}
	})

	s.Run("state entries carry their locality", func() {
		codes, err := s.service.List(s.ctx, ListState)
		s.Require().NoError(err)
		for _, c := range codes {
			s.NotEmpty(c.State, "state code %s", c.Code)
		}
	})

	s.Run("unknown list type is a bad request", func() {
		_, err := s.service.List(s.ctx, ListType("galactic"))
		s.Require().Error(err)
		s.Equal(pkgerrors.CodeBadRequest, pkgerrors.CodeOf(err))
	})

	s.Run("unloaded list is not found", func() {
		svc := NewService(NewInMemoryStore(), nil)
		_, err := svc.List(s.ctx, ListFederal)
		s.Require().Error(err)
		s.Equal(pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	})
}

func (s *WasteCodeSuite) TestStoreIsolation() {
	store := NewSeededStore()
	codes, err := store.List(s.ctx, ListFederal)
	s.Require().NoError(err)
	codes[0].Code = "HACKED"

	again, err := store.List(s.ctx, ListFederal)
	s.Require().NoError(err)
	s.NotEqual("HACKED", again[0].Code)
}

func (s *WasteCodeSuite) TestHandler() {
	router := chi.NewRouter()
	NewHandler(s.service).Register(router)

	s.Run("serves a known list", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/codes/waste/federal", nil))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("rejects an unknown list", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/codes/waste/galactic", nil))
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
