// Package manifest contains the hazardous waste manifest core: the document
// model, its conditional validation rules, the address mirroring policy, the
// lifecycle state machine, and the assembly contract that gates submission.
//
// Domain purity: this package does no I/O, holds no clocks, and never calls
// time.Now(). "Today" is always received as a parameter so validation is
// deterministic and reproducible.
package manifest

import (
	"time"

	"emanifest/pkg/domain"
)

// Status enumerates the manifest lifecycle states. Transitions between them
// are governed by the table in lifecycle.go; everything else in this package
// treats the status as data.
type Status string

const (
	StatusNotAssigned         Status = "NotAssigned"
	StatusPending             Status = "Pending"
	StatusScheduled           Status = "Scheduled"
	StatusInTransit           Status = "InTransit"
	StatusReadyForSignature   Status = "ReadyForSignature"
	StatusSigned              Status = "Signed"
	StatusCorrected           Status = "Corrected"
	StatusUnderCorrection     Status = "UnderCorrection"
	StatusMtnValidationFailed Status = "MtnValidationFailed"
)

// Known reports whether s is one of the defined lifecycle states.
func (s Status) Known() bool {
	switch s {
	case StatusNotAssigned, StatusPending, StatusScheduled, StatusInTransit,
		StatusReadyForSignature, StatusSigned, StatusCorrected,
		StatusUnderCorrection, StatusMtnValidationFailed:
		return true
	}
	return false
}

// SubmissionType categorizes how a manifest is submitted to EPA.
type SubmissionType string

const (
	SubmissionFullElectronic SubmissionType = "FullElectronic"
	SubmissionDataImage5Copy SubmissionType = "DataImage5Copy"
	SubmissionHybrid         SubmissionType = "Hybrid"
	SubmissionImage          SubmissionType = "Image"
)

// OriginType specifies how the manifest was created. Mail is a legacy option
// from when EPA accepted mailed paper manifests.
type OriginType string

const (
	OriginWeb     OriginType = "Web"
	OriginService OriginType = "Service"
	OriginMail    OriginType = "Mail"
)

// LockReason names the external process that holds a lock on a manifest.
// Only that process may modify the document until the lock clears.
type LockReason string

const (
	LockAsyncSign       LockReason = "AsyncSign"
	LockEpaChangeBiller LockReason = "EpaChangeBiller"
	LockEpaCorrection   LockReason = "EpaCorrection"
)

// Address is a postal address. Every field is optional at the type level so
// drafts can be edited incrementally; completeness is enforced per handler
// role during validation.
type Address struct {
	StreetNumber string `json:"streetNumber,omitempty"`
	Address1     string `json:"address1,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Zip          string `json:"zip,omitempty"`
	Country      string `json:"country,omitempty"`
}

// IsZero reports whether no field of the address is populated.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Signer is the certifier identity captured at the moment of certification.
// Once the manifest's certifiedDate is set the signer is frozen.
type Signer struct {
	UserID    string `json:"userId,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Handler is a party in the shipment chain: generator, transporter,
// designated facility, or broker. The shape is shared across roles; the
// validation rules differ per role.
type Handler struct {
	EPASiteID      domain.EPASiteID `json:"epaSiteId,omitempty"`
	Name           string           `json:"name,omitempty"`
	SiteAddress    Address          `json:"siteAddress"`
	MailingAddress Address          `json:"mailingAddress"`

	// MailCheck is true when the handler opted into a mailing address
	// distinct from the site address. While false, the mailing address is a
	// mirror of the site address (see address.go).
	MailCheck bool `json:"mailCheck,omitempty"`

	// Registered is true when the handler record was looked up from the site
	// directory rather than entered by hand. Registered transporters carry
	// their address of record, so address completeness is only enforced on
	// newly created records.
	Registered bool `json:"registered,omitempty"`

	// Signatures records custody-exchange signatures captured for this
	// handler, in the order they were collected.
	Signatures []Signer `json:"electronicSignaturesInfo,omitempty"`
}

// WasteLine is one line item on the manifest describing a waste stream.
// Ordering within Manifest.Wastes is preserved; the line number is the
// printed position on the paper form.
type WasteLine struct {
	LineNumber  int      `json:"lineNumber"`
	WasteCodes  []string `json:"wasteCodes,omitempty"`
	Quantity    float64  `json:"quantity,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Description string   `json:"description,omitempty"`

	// Residue marks waste carried forward from a prior shipment.
	Residue bool `json:"residue,omitempty"`
}

// RejectionInfo carries the details required when the designated facility
// rejects the waste. Present iff Manifest.Rejection is true.
type RejectionInfo struct {
	RejectionType     string   `json:"rejectionType,omitempty"` // FullReject or PartialReject
	AlternateFacility *Handler `json:"alternateDesignatedFacility,omitempty"`
	Comments          string   `json:"rejectionComments,omitempty"`
}

// PortOfEntry locates where imported waste entered the country.
type PortOfEntry struct {
	State    string `json:"state,omitempty"`
	CityPort string `json:"cityPort,omitempty"`
}

// ImportInfo carries the details required when the shipment was imported
// from a foreign country. Present iff Manifest.Import is true.
type ImportInfo struct {
	ImportGenerator *Handler    `json:"importGenerator,omitempty"`
	PortOfEntry     PortOfEntry `json:"portOfEntry"`
}

// CorrectionRequest initiates a post-signature amendment of the manifest.
type CorrectionRequest struct {
	ID          string     `json:"id,omitempty"`
	RequestedBy string     `json:"requestedBy,omitempty"`
	RequestedAt time.Time  `json:"requestedAt,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	Resolved    bool       `json:"resolved,omitempty"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
}

// CorrectionInfo summarizes the version history once a manifest has been
// corrected at least once.
type CorrectionInfo struct {
	VersionNumber int    `json:"versionNumber,omitempty"`
	Active        bool   `json:"active,omitempty"`
	Note          string `json:"note,omitempty"`

	// ResidueCarriedOver marks corrections that moved leftover waste onto a
	// follow-on manifest.
	ResidueCarriedOver bool `json:"residueCarriedOver,omitempty"`
}

// Comment is a labeled free-text remark attached to the manifest.
type Comment struct {
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	HandlerID   string `json:"handlerId,omitempty"`
}

// AdditionalInfo holds supplementary detail that does not fit the printed
// form fields.
type AdditionalInfo struct {
	OriginalTrackingNumbers []string  `json:"originalManifestTrackingNumbers,omitempty"`
	NewDestination          string    `json:"newDestination,omitempty"`
	Comments                []Comment `json:"comments,omitempty"`
}

// MtnDetails is the listing projection: just enough to display, navigate, and
// group manifests without loading full documents.
type MtnDetails struct {
	ManifestTrackingNumber string `json:"manifestTrackingNumber"`
	Status                 Status `json:"status"`
}

// Manifest is the regulated document tracking one hazardous waste shipment
// from a generating site through one or more transporters to a designated
// receiving facility.
//
// Most fields are optional so a draft can be edited incrementally. What a
// complete document must contain depends on status and party roles; those
// rules live in validate.go and are enforced at assembly, never silently
// during editing.
type Manifest struct {
	ID domain.ManifestID `json:"id,omitempty"`

	// TrackingNumber is assigned exclusively by an external authority and is
	// immutable once set. Format: nine digits plus three uppercase letters.
	TrackingNumber string `json:"manifestTrackingNumber,omitempty"`

	Status          Status         `json:"status,omitempty"`
	SubmissionType  SubmissionType `json:"submissionType,omitempty"`
	OriginType      OriginType     `json:"originType,omitempty"`
	SignatureStatus bool           `json:"signatureStatus,omitempty"`

	CreatedDate time.Time `json:"createdDate,omitempty"`
	UpdatedDate time.Time `json:"updatedDate,omitempty"`

	PotentialShipDate time.Time  `json:"potentialShipDate,omitempty"`
	ShippedDate       *time.Time `json:"shippedDate,omitempty"`
	ReceivedDate      *time.Time `json:"receivedDate,omitempty"`
	CertifiedDate     *time.Time `json:"certifiedDate,omitempty"`
	CertifiedBy       *Signer    `json:"certifiedBy,omitempty"`

	Generator          *Handler  `json:"generator,omitempty"`
	Transporters       []Handler `json:"transporters,omitempty"`
	DesignatedFacility *Handler  `json:"designatedFacility,omitempty"`
	Broker             *Handler  `json:"broker,omitempty"`

	Wastes []WasteLine `json:"wastes,omitempty"`

	Rejection     bool           `json:"rejection"`
	RejectionInfo *RejectionInfo `json:"rejectionInfo,omitempty"`

	Discrepancy bool `json:"discrepancy,omitempty"`

	Residue                   bool     `json:"residue,omitempty"`
	ResidueNewTrackingNumbers []string `json:"residueNewManifestTrackingNumber,omitempty"`

	Import     bool        `json:"import,omitempty"`
	ImportInfo *ImportInfo `json:"importInfo,omitempty"`

	CorrectionRequests []CorrectionRequest `json:"correctionRequests,omitempty"`
	CorrectionInfo     *CorrectionInfo     `json:"correctionInfo,omitempty"`

	AdditionalInfo *AdditionalInfo `json:"additionalInfo,omitempty"`

	// ContainsPreviousRejectOrResidue is derived, never set by callers; see
	// DeriveCarryOver.
	ContainsPreviousRejectOrResidue bool `json:"containsPreviousRejectOrResidue"`

	// PPCStatus is informational only: the transcription state at EPA's Paper
	// Processing Center. It is not part of the lifecycle machine.
	PPCStatus string `json:"ppcStatus,omitempty"`

	Locked     bool       `json:"locked"`
	LockReason LockReason `json:"lockReason,omitempty"`

	// Revision supports optimistic concurrency in the persistence layer. The
	// core never touches it.
	Revision int `json:"revision,omitempty"`
}

// DeriveCarryOver computes the containsPreviousRejectOrResidue flag: true iff
// any waste line or a prior correction indicates carry-over waste.
func (m *Manifest) DeriveCarryOver() bool {
	for _, w := range m.Wastes {
		if w.Residue {
			return true
		}
	}
	return m.CorrectionInfo != nil && m.CorrectionInfo.ResidueCarriedOver
}

// Details returns the listing projection for this manifest.
func (m *Manifest) Details() MtnDetails {
	return MtnDetails{ManifestTrackingNumber: m.TrackingNumber, Status: m.Status}
}

// OpenCorrectionRequests reports whether any correction request is still
// unresolved.
func (m *Manifest) OpenCorrectionRequests() bool {
	for _, cr := range m.CorrectionRequests {
		if !cr.Resolved {
			return true
		}
	}
	return false
}
