package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestScoringService() *ScoringService {
	return NewScoringService(nil, nil)
}

func TestComputeScore_UnknownCalculatorType(t *testing.T) {
	svc := newTestScoringService()

	score := svc.ComputeScore("mystery-calculator", map[string]any{"anything": 1})
	assert.Equal(t, 0, score)
}

func TestComputeScore_EmptyResults(t *testing.T) {
	svc := newTestScoringService()

	for _, calculatorType := range []string{
		CalculatorFBAProfit,
		CalculatorProductResearch,
		CalculatorPPCOptimization,
		CalculatorBusinessHealth,
	} {
		t.Run(calculatorType, func(t *testing.T) {
			assert.Equal(t, 0, svc.ComputeScore(calculatorType, nil))
			assert.Equal(t, 0, svc.ComputeScore(calculatorType, map[string]any{}))
		})
	}
}

func TestComputeScore_FBAProfit(t *testing.T) {
	svc := newTestScoringService()

	t.Run("high margin", func(t *testing.T) {
		score := svc.ComputeScore(CalculatorFBAProfit, map[string]any{
			"productCost":  10.0,
			"shippingCost": 5.0,
			"amazonFees":   15.0,
			"sellingPrice": 100.0,
		})
		assert.Equal(t, 90, score)
	})

	t.Run("moderate margin", func(t *testing.T) {
		score := svc.ComputeScore(CalculatorFBAProfit, map[string]any{
			"productCost":  10.0,
			"shippingCost": 5.0,
			"amazonFees":   15.0,
			"sellingPrice": 50.0,
		})
		assert.Equal(t, 80, score)
	})

	t.Run("missing selling price", func(t *testing.T) {
		score := svc.ComputeScore(CalculatorFBAProfit, map[string]any{
			"productCost": 10.0,
		})
		assert.Equal(t, 0, score)
	})

	t.Run("negative margin floors at band minimum", func(t *testing.T) {
		score := svc.ComputeScore(CalculatorFBAProfit, map[string]any{
			"productCost":  60.0,
			"shippingCost": 5.0,
			"amazonFees":   15.0,
			"sellingPrice": 50.0,
		})
		assert.Equal(t, 10, score)
	})
}

func TestComputeScore_ProductResearch(t *testing.T) {
	svc := newTestScoringService()

	score := svc.ComputeScore(CalculatorProductResearch, map[string]any{
		"competition":     "low",
		"demand":          "high",
		"profitPotential": "high",
	})
	assert.Equal(t, 85, score)

	t.Run("unrecognized categories contribute zero", func(t *testing.T) {
		score := svc.ComputeScore(CalculatorProductResearch, map[string]any{
			"competition":     "unknown",
			"demand":          "high",
			"profitPotential": 42,
		})
		assert.Equal(t, 30, score)
	})
}

func TestComputeScore_PPCOptimization(t *testing.T) {
	svc := newTestScoringService()

	score := svc.ComputeScore(CalculatorPPCOptimization, map[string]any{
		"acos":           15.0,
		"conversionRate": 0.1,
		"ctr":            0.05,
	})
	assert.Equal(t, 80, score)

	t.Run("absent fields contribute zero", func(t *testing.T) {
		score := svc.ComputeScore(CalculatorPPCOptimization, map[string]any{
			"acos": 15.0,
		})
		assert.Equal(t, 30, score)
	})

	t.Run("excellent campaign", func(t *testing.T) {
		score := svc.ComputeScore(CalculatorPPCOptimization, map[string]any{
			"acos":           8.0,
			"conversionRate": 0.2,
			"ctr":            0.06,
		})
		assert.Equal(t, 100, score)
	})
}

func TestComputeScore_BusinessHealth(t *testing.T) {
	svc := newTestScoringService()

	score := svc.ComputeScore(CalculatorBusinessHealth, map[string]any{
		"revenue":      100000.0,
		"profitMargin": 0.3,
		"growthRate":   0.2,
	})
	assert.Equal(t, 85, score)

	t.Run("capped at 100", func(t *testing.T) {
		score := svc.ComputeScore(CalculatorBusinessHealth, map[string]any{
			"revenue":      750000.0,
			"profitMargin": 0.4,
			"growthRate":   0.5,
		})
		assert.Equal(t, 100, score)
	})
}

func TestComputeScore_IntegerInputsAccepted(t *testing.T) {
	svc := newTestScoringService()

	score := svc.ComputeScore(CalculatorFBAProfit, map[string]any{
		"productCost":  10,
		"shippingCost": 5,
		"amazonFees":   15,
		"sellingPrice": 100,
	})
	assert.Equal(t, 90, score)
}
