package manifest

import (
	"fmt"
	"time"

	"emanifest/pkg/domain"
)

// FieldError is one field-scoped validation failure. Field is a JSON-style
// path into the document ("generator.siteAddress.zip", "transporters[1]").
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult accumulates every violation found in one pass. Failures
// are deliberately not short-circuited: the caller gets the full set so the
// user can fix everything at once instead of discovering problems serially.
type ValidationResult struct {
	Failures []FieldError `json:"failures,omitempty"`
}

// Valid reports whether the document passed with no failures.
func (r ValidationResult) Valid() bool {
	return len(r.Failures) == 0
}

func (r *ValidationResult) add(field, message string) {
	r.Failures = append(r.Failures, FieldError{Field: field, Message: message})
}

// addf is add with formatting, for messages naming the missing sub-field.
func (r *ValidationResult) addf(field, format string, args ...any) {
	r.add(field, fmt.Sprintf(format, args...))
}

// Validate runs every field rule against the draft and returns the
// accumulated result. Rules are functions of the whole document because most
// constraints are cross-field (an info record is required exactly when its
// flag is set, residue tracking numbers are only legal on residue manifests,
// and so on).
//
// Validate never mutates the draft: calling it twice on an unchanged document
// yields an identical failure set. Date comparisons use today's calendar
// date, passed in by the caller, never a hidden clock.
//
// Submission-only requirements (at least one waste line, at least one
// transporter for a shipped document) are enforced by Assemble, not here, so
// a half-built draft can be checked without drowning the user in failures
// about sections not yet started.
func Validate(m *Manifest, today time.Time) ValidationResult {
	var res ValidationResult

	validateRequiredHandler(&res, "generator", m.Generator)
	validateRequiredHandler(&res, "designatedFacility", m.DesignatedFacility)

	for i := range m.Transporters {
		validateTransporter(&res, fmt.Sprintf("transporters[%d]", i), &m.Transporters[i])
	}
	if m.Broker != nil {
		validateParty(&res, "broker", m.Broker)
	}

	validateShipDate(&res, m.PotentialShipDate, today)

	// Presence coupling: each info record exists iff its flag is set. The
	// failure is reported against the flag's field path, both directions.
	if m.Rejection != (m.RejectionInfo != nil) {
		res.add("rejection", "rejectionInfo must be present exactly when rejection is true")
	}
	if m.Import != (m.ImportInfo != nil) {
		res.add("import", "importInfo must be present exactly when import is true")
	}
	if m.Locked != (m.LockReason != "") {
		res.add("locked", "lockReason must be present exactly when locked is true")
	}
	if (m.CertifiedDate != nil) != (m.CertifiedBy != nil) {
		res.add("certifiedDate", "certifiedDate and certifiedBy must be set together")
	}

	validateResidue(&res, m)
	validateImportInfo(&res, m.ImportInfo)

	if m.TrackingNumber != "" && !domain.ValidTrackingNumber(m.TrackingNumber) {
		res.add("manifestTrackingNumber", "tracking number must be 9 digits followed by 3 uppercase letters")
	}
	if m.Status != "" && !m.Status.Known() {
		res.addf("status", "unknown status %q", m.Status)
	}

	return res
}

// validateRequiredHandler checks a generator or designated facility: the
// party itself, its regulatory ID, name, and a complete site address.
func validateRequiredHandler(res *ValidationResult, path string, h *Handler) {
	if h == nil {
		res.addf(path, "%s is required", path)
		return
	}
	validateParty(res, path, h)
	validateAddress(res, path+".siteAddress", h.SiteAddress)
}

// validateTransporter checks one transporter entry. Transporters looked up
// from the site directory carry their address of record, so the address rule
// only applies to newly created records.
func validateTransporter(res *ValidationResult, path string, h *Handler) {
	validateParty(res, path, h)
	if !h.Registered {
		validateAddress(res, path+".siteAddress", h.SiteAddress)
	}
}

func validateParty(res *ValidationResult, path string, h *Handler) {
	if h.EPASiteID == "" {
		res.add(path+".epaSiteId", "EPA site ID is required")
	}
	if h.Name == "" {
		res.add(path+".name", "site name is required")
	}
}

// validateAddress enforces the submittable minimum: address1, city, state,
// and zip populated. Each missing sub-field is named so the failure points at
// the exact input to fix.
func validateAddress(res *ValidationResult, path string, a Address) {
	if a.Address1 == "" {
		res.add(path+".address1", "street address is required")
	}
	if a.City == "" {
		res.add(path+".city", "city is required")
	}
	if a.State == "" {
		res.add(path+".state", "state is required")
	}
	if a.Zip == "" {
		res.add(path+".zip", "zip is required")
	}
}

// validateShipDate enforces potentialShipDate >= today by calendar date, not
// timestamp, so a draft saved at 23:50 does not fail at 00:10. The failure is
// always recoverable by changing the date.
func validateShipDate(res *ValidationResult, shipDate, today time.Time) {
	if shipDate.IsZero() {
		res.add("potentialShipDate", "potential ship date is required")
		return
	}
	if dayOf(shipDate).Before(dayOf(today)) {
		res.add("potentialShipDate", "potential ship date cannot be in the past")
	}
}

// dayOf truncates a timestamp to its calendar date in its own location.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// validateResidue ties the follow-on tracking numbers to the residue flag and
// checks each entry against the MTN format.
func validateResidue(res *ValidationResult, m *Manifest) {
	if len(m.ResidueNewTrackingNumbers) > 0 && !m.Residue {
		res.add("residueNewManifestTrackingNumber", "follow-on tracking numbers are only valid when residue is true")
	}
	for i, tn := range m.ResidueNewTrackingNumbers {
		if !domain.ValidTrackingNumber(tn) {
			res.addf(fmt.Sprintf("residueNewManifestTrackingNumber[%d]", i),
				"%q is not a valid tracking number", tn)
		}
	}
}

// validateImportInfo checks the sub-fields required once an import record is
// present. The flag coupling itself is handled in Validate.
func validateImportInfo(res *ValidationResult, info *ImportInfo) {
	if info == nil {
		return
	}
	if info.ImportGenerator == nil {
		res.add("importInfo.importGenerator", "import generator is required")
	} else {
		validateParty(res, "importInfo.importGenerator", info.ImportGenerator)
	}
	if info.PortOfEntry.State == "" {
		res.add("importInfo.portOfEntry.state", "port of entry state is required")
	}
	if info.PortOfEntry.CityPort == "" {
		res.add("importInfo.portOfEntry.cityPort", "port of entry city is required")
	}
}
