package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sellermetrics/leadstack-go/internal/domain/session"
)

func TestSelectVariant_FallbackKeys(t *testing.T) {
	svc := NewPersonalizationService(nil, newTestLogger(t))

	t.Run("nil segment gets default low variant", func(t *testing.T) {
		variant := svc.SelectVariant(nil)
		assert.Equal(t, DefaultVariantCatalog()[VariantKeyDefault][session.EngagementLow], variant)
	})

	t.Run("fresh segment gets default low variant", func(t *testing.T) {
		segment := session.NewVisitorSegment("s1")
		variant := svc.SelectVariant(segment)
		assert.Equal(t, DefaultVariantCatalog()[VariantKeyDefault][session.EngagementLow], variant)
	})

	t.Run("engaged anonymous visitor falls back to returning", func(t *testing.T) {
		segment := session.NewVisitorSegment("s2")
		segment.EngagementLevel = session.EngagementMedium
		variant := svc.SelectVariant(segment)
		assert.Equal(t, DefaultVariantCatalog()[VariantKeyReturning][session.EngagementMedium], variant)
	})
}

func TestSelectVariant_PersonaLookup(t *testing.T) {
	catalog := VariantCatalog{
		"fba-seller": {
			session.EngagementHigh: {Headline: "Scale your FBA empire", CallToAction: "Book a call"},
		},
	}
	svc := NewPersonalizationService(catalog, newTestLogger(t))

	persona := "fba-seller"
	segment := session.NewVisitorSegment("s3")
	segment.DeterminedPersonaID = &persona
	segment.EngagementLevel = session.EngagementHigh

	variant := svc.SelectVariant(segment)
	assert.Equal(t, "Scale your FBA empire", variant.Headline)
}

func TestSelectVariant_UnknownPersonaNeverErrors(t *testing.T) {
	svc := NewPersonalizationService(nil, newTestLogger(t))

	persona := "nonexistent"
	segment := session.NewVisitorSegment("s4")
	segment.DeterminedPersonaID = &persona
	segment.EngagementLevel = session.EngagementHigh

	variant := svc.SelectVariant(segment)
	assert.NotEmpty(t, variant.Headline)
	assert.Equal(t, DefaultVariantCatalog()[VariantKeyReturning][session.EngagementHigh], variant)
}

func TestSelectVariant_MissingEngagementTierFallsBack(t *testing.T) {
	catalog := VariantCatalog{
		"sparse": {
			session.EngagementLow: {Headline: "Only tier", CallToAction: "Go"},
		},
	}
	svc := NewPersonalizationService(catalog, newTestLogger(t))

	persona := "sparse"
	segment := session.NewVisitorSegment("s5")
	segment.DeterminedPersonaID = &persona
	segment.EngagementLevel = session.EngagementHigh

	variant := svc.SelectVariant(segment)
	assert.Equal(t, "Only tier", variant.Headline)
}
