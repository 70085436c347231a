// internal/service/storefront/site.go
package storefront

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"storefront-service/internal/domain/settings"
	"storefront-service/internal/domain/storefront"
)

const (
	DefaultSiteName        = "Euro Plast"
	DefaultSiteDescription = "Euro Plast manufactures homeware and kitchenware for retail and wholesale customers."
)

// SiteContext returns the meta and branding shared by every page. A failed
// settings read leaves the brand image empty rather than failing the page.
func (s *StorefrontService) SiteContext(ctx context.Context, path string) storefront.Site {
	brand, err := s.settings.Get(ctx, settings.BrandImage)
	if err != nil {
		s.logger.Warn("failed to read brand image", zap.Error(err))
		brand = ""
	}

	name := s.site.Name
	if name == "" {
		name = DefaultSiteName
	}
	description := s.site.Description
	if description == "" {
		description = DefaultSiteDescription
	}

	schema, _ := json.Marshal(map[string]string{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
		"url":      s.absoluteURL("/"),
		"logo":     brand,
	})

	if path == "" {
		path = "/"
	}
	return storefront.Site{
		BrandImage:      brand,
		MetaTitle:       name,
		MetaDescription: description,
		MetaImage:       brand,
		MetaURL:         s.absoluteURL(path),
		SchemaJSON:      string(schema),
	}
}

func (s *StorefrontService) absoluteURL(path string) string {
	base := strings.TrimRight(s.site.URL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
