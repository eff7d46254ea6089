package sitedir

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"emanifest/internal/manifest"
	"emanifest/pkg/domain"
	pkgerrors "emanifest/pkg/errors"
)

type SiteDirSuite struct {
	suite.Suite
	service *Service
	ctx     context.Context
}

func (s *SiteDirSuite) SetupTest() {
	s.service = NewService(NewInMemoryStore(), nil)
	s.ctx = context.Background()
}

func TestSiteDirSuite(t *testing.T) {
	suite.Run(t, new(SiteDirSuite))
}

func (s *SiteDirSuite) newSite(epaID string, t SiteType) *Site {
	return &Site{
		EPASiteID: domain.EPASiteID(epaID),
		SiteType:  t,
		Handler: manifest.Handler{
			EPASiteID: domain.EPASiteID(epaID),
			Name:      "Site " + epaID,
			SiteAddress: manifest.Address{
				Address1: "Main St", City: "Springfield", State: "VA", Zip: "22150",
			},
			Registered: true,
		},
	}
}

func (s *SiteDirSuite) TestRegisterAndGet() {
	s.Run("round-trips a site", func() {
		_, err := s.service.Register(s.ctx, s.newSite("VAD000001234", SiteGenerator))
		s.Require().NoError(err)

		found, err := s.service.Get(s.ctx, "VAD000001234")
		s.Require().NoError(err)
		s.Equal(SiteGenerator, found.SiteType)
		s.Equal("Site VAD000001234", found.Handler.Name)
	})

	s.Run("fills the handler EPA ID when omitted", func() {
		site := s.newSite("TXR000009876", SiteTsdf)
		site.Handler.EPASiteID = ""
		registered, err := s.service.Register(s.ctx, site)
		s.Require().NoError(err)
		s.Equal(site.EPASiteID, registered.Handler.EPASiteID)
	})

	s.Run("rejects a mismatched handler EPA ID", func() {
		site := s.newSite("OHD000005555", SiteTransporter)
		site.Handler.EPASiteID = "OHD000009999"
		_, err := s.service.Register(s.ctx, site)
		s.Require().Error(err)
		s.Equal(pkgerrors.CodeBadRequest, pkgerrors.CodeOf(err))
	})
}

func (s *SiteDirSuite) TestLookupFailures() {
	s.Run("malformed EPA ID is a bad request", func() {
		_, err := s.service.Get(s.ctx, "bogus id")
		s.Require().Error(err)
		s.Equal(pkgerrors.CodeBadRequest, pkgerrors.CodeOf(err))
	})

	s.Run("unregistered site is not found", func() {
		_, err := s.service.Get(s.ctx, "VAD000000000")
		s.Require().Error(err)
		s.Equal(pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	})
}

func (s *SiteDirSuite) TestList() {
	_, err := s.service.Register(s.ctx, s.newSite("VAD000001234", SiteGenerator))
	s.Require().NoError(err)
	_, err = s.service.Register(s.ctx, s.newSite("OHD000005555", SiteTransporter))
	s.Require().NoError(err)

	sites, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(sites, 2)
	s.Equal(domain.EPASiteID("OHD000005555"), sites[0].EPASiteID, "ordered by EPA ID")
}
