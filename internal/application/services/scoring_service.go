// Package services provides application services for the lead funnel.
package services

import (
	"time"

	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/performance"
)

// Calculator types the scorer recognizes.
const (
	CalculatorFBAProfit       = "fba-profit"
	CalculatorProductResearch = "product-research"
	CalculatorPPCOptimization = "ppc-optimization"
	CalculatorBusinessHealth  = "business-health"
)

// ScoringService computes a 0-100 lead quality score from raw calculator
// results. Scoring never fails: unknown calculator types, empty results,
// and unparseable fields all contribute 0 so the funnel keeps rendering.
type ScoringService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewScoringService creates a new scoring service.
func NewScoringService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ScoringService {
	return &ScoringService{
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// ComputeScore maps calculator results onto a score band for the given
// calculator type. The result is always within [0, 100].
func (s *ScoringService) ComputeScore(calculatorType string, results map[string]any) int {
	start := time.Now()

	var marker *performance.Marker
	if s.perfTracker != nil {
		marker = s.perfTracker.StartOperation("funnel:score_computation")
		marker.AddMetadata("calculatorType", calculatorType)
	}

	var score int
	if len(results) > 0 {
		switch calculatorType {
		case CalculatorFBAProfit:
			score = scoreFBAProfit(results)
		case CalculatorProductResearch:
			score = scoreProductResearch(results)
		case CalculatorPPCOptimization:
			score = scorePPCOptimization(results)
		case CalculatorBusinessHealth:
			score = scoreBusinessHealth(results)
		default:
			score = 0
		}
	}

	if score > 100 {
		score = 100
	}

	if marker != nil {
		marker.SetSuccess(true)
		marker.AddMetadata("score", score)
		s.perfTracker.CompleteOperation(marker)
	}

	if s.logger != nil {
		s.logger.Funnel().Debug("Score computed", "calculatorType", calculatorType, "score", score, "duration", time.Since(start))
	}
	return score
}

// scoreFBAProfit bands the profit margin of a prospective FBA product.
func scoreFBAProfit(results map[string]any) int {
	sellingPrice, ok := numField(results, "sellingPrice")
	if !ok || sellingPrice <= 0 {
		return 0
	}
	productCost, _ := numField(results, "productCost")
	shippingCost, _ := numField(results, "shippingCost")
	amazonFees, _ := numField(results, "amazonFees")

	profit := sellingPrice - productCost - shippingCost - amazonFees
	margin := profit / sellingPrice

	switch {
	case margin >= 0.8:
		return 100
	case margin >= 0.6:
		return 90
	case margin >= 0.35:
		return 80
	case margin >= 0.2:
		return 65
	case margin >= 0.1:
		return 50
	case margin > 0:
		return 30
	default:
		return 10
	}
}

// scoreProductResearch sums point values for three categorical signals.
func scoreProductResearch(results map[string]any) int {
	score := 0

	switch strField(results, "competition") {
	case "low":
		score += 30
	case "medium":
		score += 20
	case "high":
		score += 5
	}

	switch strField(results, "demand") {
	case "high":
		score += 30
	case "medium":
		score += 20
	case "low":
		score += 5
	}

	switch strField(results, "profitPotential") {
	case "high":
		score += 25
	case "medium":
		score += 15
	case "low":
		score += 5
	}

	return score
}

// scorePPCOptimization rewards low ACoS and high conversion/click rates.
func scorePPCOptimization(results map[string]any) int {
	score := 0

	if acos, ok := numField(results, "acos"); ok {
		switch {
		case acos <= 10:
			score += 45
		case acos <= 20:
			score += 30
		case acos <= 30:
			score += 20
		case acos <= 40:
			score += 10
		default:
			score += 5
		}
	}

	if conversionRate, ok := numField(results, "conversionRate"); ok && conversionRate > 0 {
		switch {
		case conversionRate >= 0.15:
			score += 30
		case conversionRate >= 0.1:
			score += 25
		case conversionRate >= 0.05:
			score += 15
		default:
			score += 5
		}
	}

	if ctr, ok := numField(results, "ctr"); ok && ctr > 0 {
		switch {
		case ctr >= 0.05:
			score += 25
		case ctr >= 0.03:
			score += 15
		default:
			score += 5
		}
	}

	return score
}

// scoreBusinessHealth bands revenue scale, profitability, and growth.
func scoreBusinessHealth(results map[string]any) int {
	score := 0

	if revenue, ok := numField(results, "revenue"); ok && revenue > 0 {
		switch {
		case revenue >= 500000:
			score += 40
		case revenue >= 100000:
			score += 35
		case revenue >= 50000:
			score += 25
		case revenue >= 10000:
			score += 15
		default:
			score += 5
		}
	}

	if profitMargin, ok := numField(results, "profitMargin"); ok && profitMargin > 0 {
		switch {
		case profitMargin >= 0.3:
			score += 30
		case profitMargin >= 0.2:
			score += 25
		case profitMargin >= 0.1:
			score += 15
		default:
			score += 5
		}
	}

	if growthRate, ok := numField(results, "growthRate"); ok && growthRate > 0 {
		switch {
		case growthRate >= 0.3:
			score += 30
		case growthRate >= 0.2:
			score += 20
		case growthRate >= 0.1:
			score += 10
		default:
			score += 5
		}
	}

	return score
}

// numField reads a numeric field that may arrive as any JSON number type.
func numField(results map[string]any, key string) (float64, bool) {
	v, exists := results[key]
	if !exists {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// strField reads a string field, returning "" for anything else.
func strField(results map[string]any, key string) string {
	if s, ok := results[key].(string); ok {
		return s
	}
	return ""
}
