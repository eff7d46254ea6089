// Package wastecode serves the regulatory waste code lists referenced by
// manifest waste lines: federal hazardous waste codes, state-specific codes,
// and the density and form codes used on the printed document.
package wastecode

// ListType names one of the published code lists.
type ListType string

const (
	ListFederal ListType = "federal"
	ListState   ListType = "state"
	ListForm    ListType = "form"
	ListDensity ListType = "density"
)

// Known reports whether the list type is one this service publishes.
func (t ListType) Known() bool {
	switch t {
	case ListFederal, ListState, ListForm, ListDensity:
		return true
	}
	return false
}

// Code is a single entry in a waste code list.
type Code struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	// State is set only for state list entries (two-letter locality).
	State string `json:"state,omitempty"`
}
