// internal/service/branding.go
package service

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/candraczapansky/salon-notify/internal/config"
	"github.com/candraczapansky/salon-notify/internal/model"
	"github.com/candraczapansky/salon-notify/internal/repository"
)

// Branding is the location identity injected into templates for one send.
type Branding struct {
	Name    string
	Phone   string
	Address string
}

// legacy tag convention: "[location:7]" or "@location:Downtown" embedded in
// a rule's name or subject. Kept only as a back-compat shim; new rules and
// campaigns carry a structured location_id.
var locationTagPattern = regexp.MustCompile(`(?i)(?:\[location:([^\]]+)\]|@location:(\S+))`)

// BrandingResolver decides which location's name, phone and address go into
// a message. Location rows are cached briefly; they are near-static
// reference data.
type BrandingResolver struct {
	Locations repository.LocationRepositoryInterface
	Defaults  config.BrandingConfig

	cache *gocache.Cache
}

func NewBrandingResolver(locations repository.LocationRepositoryInterface, defaults config.BrandingConfig) *BrandingResolver {
	ttl := defaults.LocationCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BrandingResolver{
		Locations: locations,
		Defaults:  defaults,
		cache:     gocache.New(ttl, 2*ttl),
	}
}

// Default returns the global business branding.
func (b *BrandingResolver) Default() Branding {
	return Branding{
		Name:    b.Defaults.DefaultName,
		Phone:   b.Defaults.DefaultPhone,
		Address: b.Defaults.DefaultAddress,
	}
}

// Resolve picks the branding for one send. Precedence, highest first: the
// explicit location id from the triggering context, the structured scope on
// the rule or campaign, a legacy tag in the given free-text fields, then the
// global default. The result only affects this send.
func (b *BrandingResolver) Resolve(explicitLocationID, scopeLocationID *int, legacyText ...string) Branding {
	if explicitLocationID != nil {
		if loc := b.lookupByID(*explicitLocationID); loc != nil {
			return brandingFrom(loc)
		}
	}
	if scopeLocationID != nil {
		if loc := b.lookupByID(*scopeLocationID); loc != nil {
			return brandingFrom(loc)
		}
	}
	for _, text := range legacyText {
		if loc := b.lookupByTag(text); loc != nil {
			return brandingFrom(loc)
		}
	}
	return b.Default()
}

// ScopeLocationID returns the location id a rule is scoped to, or nil for a
// globally-scoped rule. The structured column wins; the tag shim only
// applies to rules that predate it.
func (b *BrandingResolver) ScopeLocationID(rule *model.Rule) *int {
	if rule.LocationID != nil {
		return rule.LocationID
	}
	for _, text := range []string{rule.Name, rule.Subject} {
		if loc := b.lookupByTag(text); loc != nil {
			id := loc.ID
			return &id
		}
	}
	return nil
}

func (b *BrandingResolver) lookupByTag(text string) *model.Location {
	m := locationTagPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	ref := m[1]
	if ref == "" {
		ref = m[2]
	}

	if id, err := strconv.Atoi(ref); err == nil {
		if loc := b.lookupByID(id); loc != nil {
			return loc
		}
	}
	return b.lookupByName(ref)
}

func (b *BrandingResolver) lookupByID(id int) *model.Location {
	key := fmt.Sprintf("id:%d", id)
	if cached, ok := b.cache.Get(key); ok {
		if cached == nil {
			return nil
		}
		return cached.(*model.Location)
	}
	loc, err := b.Locations.GetByID(id)
	if err != nil {
		return nil
	}
	b.cache.SetDefault(key, loc)
	return loc
}

func (b *BrandingResolver) lookupByName(name string) *model.Location {
	key := "name:" + name
	if cached, ok := b.cache.Get(key); ok {
		if cached == nil {
			return nil
		}
		return cached.(*model.Location)
	}
	loc, err := b.Locations.GetByName(name)
	if err != nil {
		return nil
	}
	b.cache.SetDefault(key, loc)
	return loc
}

func brandingFrom(loc *model.Location) Branding {
	return Branding{
		Name:    loc.Name,
		Phone:   loc.Phone,
		Address: loc.FullAddress(),
	}
}
