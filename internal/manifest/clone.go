package manifest

import "time"

// Clone returns a deep copy of the manifest. Validation and transitions
// operate on snapshots, and stores hand out copies, so no caller can mutate
// shared state through an aliased slice or pointer.
func (m *Manifest) Clone() *Manifest {
	if m == nil {
		return nil
	}
	out := *m
	out.Generator = m.Generator.clone()
	out.DesignatedFacility = m.DesignatedFacility.clone()
	out.Broker = m.Broker.clone()
	if m.Transporters != nil {
		out.Transporters = make([]Handler, len(m.Transporters))
		for i := range m.Transporters {
			out.Transporters[i] = *m.Transporters[i].clone()
		}
	}
	if m.Wastes != nil {
		out.Wastes = make([]WasteLine, len(m.Wastes))
		for i, w := range m.Wastes {
			out.Wastes[i] = w
			out.Wastes[i].WasteCodes = cloneStrings(w.WasteCodes)
		}
	}
	out.ResidueNewTrackingNumbers = cloneStrings(m.ResidueNewTrackingNumbers)
	out.ShippedDate = cloneTime(m.ShippedDate)
	out.ReceivedDate = cloneTime(m.ReceivedDate)
	out.CertifiedDate = cloneTime(m.CertifiedDate)
	if m.CertifiedBy != nil {
		s := *m.CertifiedBy
		out.CertifiedBy = &s
	}
	if m.RejectionInfo != nil {
		ri := *m.RejectionInfo
		ri.AlternateFacility = m.RejectionInfo.AlternateFacility.clone()
		out.RejectionInfo = &ri
	}
	if m.ImportInfo != nil {
		ii := *m.ImportInfo
		ii.ImportGenerator = m.ImportInfo.ImportGenerator.clone()
		out.ImportInfo = &ii
	}
	if m.CorrectionRequests != nil {
		out.CorrectionRequests = make([]CorrectionRequest, len(m.CorrectionRequests))
		for i, cr := range m.CorrectionRequests {
			out.CorrectionRequests[i] = cr
			out.CorrectionRequests[i].ResolvedAt = cloneTime(cr.ResolvedAt)
		}
	}
	if m.CorrectionInfo != nil {
		ci := *m.CorrectionInfo
		out.CorrectionInfo = &ci
	}
	if m.AdditionalInfo != nil {
		ai := *m.AdditionalInfo
		ai.OriginalTrackingNumbers = cloneStrings(m.AdditionalInfo.OriginalTrackingNumbers)
		ai.Comments = append([]Comment(nil), m.AdditionalInfo.Comments...)
		out.AdditionalInfo = &ai
	}
	return &out
}

func (h *Handler) clone() *Handler {
	if h == nil {
		return nil
	}
	out := *h
	out.Signatures = append([]Signer(nil), h.Signatures...)
	return &out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
