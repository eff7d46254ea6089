package manifest

// Address mirroring: until a handler opts into a separate mailing address,
// the mailing address is kept identical to the site address. The mirror is
// one-way (site to mailing, never back) and a full replace, not a merge.

// mirrorTriggers lists the site-address sub-fields whose change re-propagates
// the mirror. Zip is deliberately outside the set: it rides along on a full
// replace but a zip-only edit does not trigger one.
func mirrorTriggers(a Address) [5]string {
	return [5]string{a.StreetNumber, a.Address1, a.Country, a.City, a.State}
}

// SyncMailingAddress resolves a handler's effective mailing address. When the
// mail check is off the site address wins outright; when it is on the stored
// mailing address stands on its own.
func SyncMailingAddress(site, mailing Address, mailCheckEnabled bool) Address {
	if mailCheckEnabled {
		return mailing
	}
	return site
}

// ApplyAddressPolicy normalizes a handler in place so the stored document
// always satisfies the mirror invariant, regardless of what the caller sent.
func ApplyAddressPolicy(h *Handler) {
	if h == nil {
		return
	}
	h.MailingAddress = SyncMailingAddress(h.SiteAddress, h.MailingAddress, h.MailCheck)
}

// AddressMirror models the interactive editing session for one handler's
// address pair. It exists so the toggle semantics live in one place:
//
//   - detached=false: every tracked site-address change mirrors into the
//     mailing address; mailing edits are ignored.
//   - detached=true: the mirror suspends; the mailing address starts from the
//     last mirrored value and is edited independently.
//   - re-attaching resumes the mirror from the current site address,
//     discarding manual mailing edits. Last write wins toward the site.
type AddressMirror struct {
	site     Address
	mailing  Address
	detached bool
}

// NewAddressMirror starts a mirror session with the mailing address synced to
// the site address.
func NewAddressMirror(site Address) *AddressMirror {
	return &AddressMirror{site: site, mailing: site}
}

// SetSite replaces the site address. While attached, a change to any tracked
// sub-field re-propagates the full address into the mailing copy.
func (a *AddressMirror) SetSite(site Address) {
	triggered := mirrorTriggers(a.site) != mirrorTriggers(site)
	a.site = site
	if !a.detached && triggered {
		a.mailing = site
	}
}

// SetMailing updates the mailing address. It only takes effect while
// detached; while the mirror is active the mailing address is derived and
// direct writes are dropped.
func (a *AddressMirror) SetMailing(mailing Address) {
	if a.detached {
		a.mailing = mailing
	}
}

// SetDetached toggles the separate-mailing-address mode. Re-attaching resumes
// the mirror from the current site address, discarding any manual edits made
// while detached.
func (a *AddressMirror) SetDetached(detached bool) {
	if a.detached && !detached {
		a.mailing = a.site
	}
	a.detached = detached
}

// Site returns the current site address.
func (a *AddressMirror) Site() Address {
	return a.site
}

// Mailing returns the effective mailing address.
func (a *AddressMirror) Mailing() Address {
	return a.mailing
}

// Detached reports whether the handler opted into a separate mailing address.
func (a *AddressMirror) Detached() bool {
	return a.detached
}
