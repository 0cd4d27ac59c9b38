// Package pricing computes estimate ranges from a tenant's per-foot
// price bands and add-on costs.
package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/openfence/fence-quote-api/internal/tenant"
)

// Input describes one estimate request.
type Input struct {
	FenceType      string
	LinearFeet     float64
	WalkGatesQty   int
	DoubleGatesQty int
	RemoveOldFence bool
}

// Estimate is a low/high price range in whole dollars.
type Estimate struct {
	Min float64
	Max float64
}

// EstimateRange computes the price range for in against cfg's tables.
// The range is per-foot band times footage plus gate add-ons, with
// per-foot removal cost when the old fence comes out.
func EstimateRange(cfg *tenant.Config, in Input) (Estimate, error) {
	if in.LinearFeet <= 0 {
		return Estimate{}, fmt.Errorf("pricing: linear feet must be greater than 0")
	}

	band, ok := cfg.PricingPerFt[strings.ToLower(strings.TrimSpace(in.FenceType))]
	if !ok {
		return Estimate{}, fmt.Errorf("pricing: unknown fence type %q", in.FenceType)
	}

	addOns := float64(in.WalkGatesQty)*cfg.AddOns.WalkGate + float64(in.DoubleGatesQty)*cfg.AddOns.DoubleGate
	if in.RemoveOldFence {
		addOns += in.LinearFeet * cfg.AddOns.RemovalPerFt
	}

	return Estimate{
		Min: math.Round(in.LinearFeet*band.Low + addOns),
		Max: math.Round(in.LinearFeet*band.High + addOns),
	}, nil
}
