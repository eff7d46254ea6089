package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type IDsSuite struct {
	suite.Suite
}

func TestIDsSuite(t *testing.T) {
	suite.Run(t, new(IDsSuite))
}

func (s *IDsSuite) TestManifestID() {
	s.Run("round-trips through text", func() {
		id := NewManifestID()
		parsed, err := ParseManifestID(id.String())
		s.Require().NoError(err)
		s.Equal(id, parsed)
	})

	s.Run("encodes as a canonical UUID string in JSON", func() {
		id := NewManifestID()
		b, err := json.Marshal(id)
		s.Require().NoError(err)
		s.JSONEq(`"`+id.String()+`"`, string(b))

		var back ManifestID
		s.Require().NoError(json.Unmarshal(b, &back))
		s.Equal(id, back)
	})

	s.Run("zero value reports IsZero", func() {
		s.True(ManifestID{}.IsZero())
		s.False(NewManifestID().IsZero())
	})

	s.Run("rejects malformed input", func() {
		_, err := ParseManifestID("not-a-uuid")
		s.Error(err)
	})
}

func (s *IDsSuite) TestTrackingNumber() {
	valid := []string{"012345678ELC", "999999999JJK", "000000000AAA"}
	for _, v := range valid {
		tn, err := NewTrackingNumber(v)
		s.Require().NoError(err, v)
		s.Equal(v, tn.String())
		s.True(ValidTrackingNumber(v))
	}

	invalid := []string{
		"",
		"12345678ELC",   // eight digits
		"0123456789ELC", // ten digits
		"012345678EL",   // two letters
		"012345678elc",  // lowercase suffix
		"012345678EL1",  // digit in suffix
		"A12345678ELC",  // letter in the digit block
		" 012345678ELC", // leading space
		"012345678ELC ", // trailing space
	}
	for _, v := range invalid {
		_, err := NewTrackingNumber(v)
		s.Require().ErrorIs(err, ErrInvalidTrackingNumber, "%q", v)
		s.False(ValidTrackingNumber(v), "%q", v)
	}

	s.Run("zero value reports IsZero", func() {
		s.True(TrackingNumber{}.IsZero())
		s.False(MustTrackingNumber("012345678ELC").IsZero())
	})

	s.Run("Must panics on invalid input", func() {
		s.Panics(func() { MustTrackingNumber("nope") })
	})
}

func (s *IDsSuite) TestEPASiteID() {
	for _, v := range []string{"VAD000001234", "TX1234567890", "CA12345", "OH5"} {
		s.True(EPASiteID(v).Valid(), v)
	}
	for _, v := range []string{"", "V", "VA", "vad000001234", "1AD000001234", "VAD0000012345678"} {
		s.False(EPASiteID(v).Valid(), v)
	}
}
