// Package sitedir is the site directory: the lookup of registered handler
// sites by EPA ID. Manifest validation treats the directory as the authority
// on which site IDs exist; the core only checks formats.
package sitedir

import (
	"emanifest/internal/manifest"
	"emanifest/pkg/domain"
)

// SiteType classifies the role a site plays on manifests.
type SiteType string

const (
	SiteGenerator   SiteType = "Generator"
	SiteTransporter SiteType = "Transporter"
	SiteTsdf        SiteType = "Tsdf"
	SiteBroker      SiteType = "Broker"
)

// Site is one registered handler site.
type Site struct {
	EPASiteID domain.EPASiteID `json:"epaSiteId"`
	SiteType  SiteType         `json:"siteType"`
	Handler   manifest.Handler `json:"handler"`
}
