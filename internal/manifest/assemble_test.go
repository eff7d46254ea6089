package manifest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	pkgerrors "emanifest/pkg/errors"
)

type AssembleSuite struct {
	suite.Suite
	today time.Time
}

func (s *AssembleSuite) SetupTest() {
	s.today = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
}

func TestAssembleSuite(t *testing.T) {
	suite.Run(t, new(AssembleSuite))
}

// submittable returns a draft that passes a full assembly pass.
func (s *AssembleSuite) submittable() *Manifest {
	return &Manifest{
		Status:             StatusPending,
		TrackingNumber:     "012345678ELC",
		Generator:          completeHandler("VAD000001234", "Acme Generating"),
		DesignatedFacility: completeHandler("TXR000009876", "Lone Star TSDF"),
		Transporters:       []Handler{*completeHandler("OHD000005555", "Haul-It")},
		PotentialShipDate:  s.today.AddDate(0, 0, 7),
		Wastes:             []WasteLine{{LineNumber: 1, WasteCodes: []string{"D001"}, Quantity: 55, Unit: "G"}},
	}
}

func (s *AssembleSuite) TestSuccess() {
	doc, res, err := Assemble(s.submittable(), StatusPending, s.today)
	s.Require().NoError(err)
	s.True(res.Valid())
	s.Require().NotNil(doc)
	s.Equal(StatusPending, doc.Status)
}

func (s *AssembleSuite) TestSubmissionLevelRules() {
	s.Run("no waste lines blocks submission", func() {
		m := s.submittable()
		m.Wastes = nil
		doc, res, err := Assemble(m, StatusPending, s.today)
		s.Require().NoError(err)
		s.Nil(doc)
		s.Len(res.Failures, 1)
		s.Equal("wastes", res.Failures[0].Field)
	})

	s.Run("shipped manifest without transporters blocks submission", func() {
		m := s.submittable()
		m.Status = StatusInTransit
		m.Transporters = nil
		doc, res, err := Assemble(m, StatusInTransit, s.today)
		s.Require().NoError(err)
		s.Nil(doc)
		s.Contains(s.fieldsOf(res), "transporters")
	})

	s.Run("pre-shipment draft may have no transporters yet", func() {
		m := s.submittable()
		m.Transporters = nil
		doc, res, err := Assemble(m, StatusPending, s.today)
		s.Require().NoError(err)
		s.True(res.Valid())
		s.NotNil(doc)
	})
}

func (s *AssembleSuite) TestStatusChangeGate() {
	s.Run("illegal requested transition comes back as a failure", func() {
		m := s.submittable()
		m.Status = StatusSigned
		doc, res, err := Assemble(m, StatusPending, s.today)
		s.Require().NoError(err)
		s.Nil(doc)
		s.Contains(s.fieldsOf(res), "status")
	})

	s.Run("legal requested transition passes", func() {
		m := s.submittable()
		m.Status = StatusScheduled
		doc, res, err := Assemble(m, StatusPending, s.today)
		s.Require().NoError(err)
		s.True(res.Valid(), "failures: %v", res.Failures)
		s.Equal(StatusScheduled, doc.Status)
	})
}

func (s *AssembleSuite) TestDocumentNormalization() {
	s.Run("address policy is applied to every handler", func() {
		m := s.submittable()
		m.Generator.MailingAddress = Address{Address1: "stale"}
		doc, _, err := Assemble(m, StatusPending, s.today)
		s.Require().NoError(err)
		s.Equal(doc.Generator.SiteAddress, doc.Generator.MailingAddress)
	})

	s.Run("carry-over flag is derived from waste lines", func() {
		m := s.submittable()
		m.Wastes[0].Residue = true
		m.ContainsPreviousRejectOrResidue = false
		doc, _, err := Assemble(m, StatusPending, s.today)
		s.Require().NoError(err)
		s.True(doc.ContainsPreviousRejectOrResidue)
	})

	s.Run("empty status defaults to NotAssigned", func() {
		m := s.submittable()
		m.Status = ""
		m.TrackingNumber = ""
		doc, _, err := Assemble(m, StatusNotAssigned, s.today)
		s.Require().NoError(err)
		s.Equal(StatusNotAssigned, doc.Status)
	})

	s.Run("input draft is never mutated", func() {
		m := s.submittable()
		m.Generator.MailingAddress = Address{Address1: "stale"}
		_, _, err := Assemble(m, StatusPending, s.today)
		s.Require().NoError(err)
		s.Equal("stale", m.Generator.MailingAddress.Address1)
	})
}

func (s *AssembleSuite) TestNilDraftIsInvariantViolation() {
	_, _, err := Assemble(nil, StatusPending, s.today)
	s.Require().Error(err)
	s.Equal(pkgerrors.CodeInvariant, pkgerrors.CodeOf(err))
}

func (s *AssembleSuite) fieldsOf(res ValidationResult) []string {
	fields := make([]string, 0, len(res.Failures))
	for _, f := range res.Failures {
		fields = append(fields, f.Field)
	}
	return fields
}
