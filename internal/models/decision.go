package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type QualityTier string
type FeatureTier string
type BrandPositioning string
type PriceStrategy string
type DistributionCoverage string
type Channel string

const (
	QualityBasic   QualityTier = "basic"
	QualityMedium  QualityTier = "medium"
	QualityPremium QualityTier = "premium"
)

const (
	FeaturesBasic        FeatureTier = "basic"
	FeaturesIntermediate FeatureTier = "intermediate"
	FeaturesComplete     FeatureTier = "complete"
)

const (
	PositioningQuality    BrandPositioning = "quality"
	PositioningPrice      BrandPositioning = "price"
	PositioningInnovation BrandPositioning = "innovation"
)

const (
	PricePenetration PriceStrategy = "penetration"
	PriceCompetitive PriceStrategy = "competitive"
	PriceSkimming    PriceStrategy = "skimming"
	PriceValue       PriceStrategy = "value"
)

const (
	CoverageLocal         DistributionCoverage = "local"
	CoverageRegional      DistributionCoverage = "regional"
	CoverageNational      DistributionCoverage = "national"
	CoverageInternational DistributionCoverage = "international"
)

const (
	ChannelRetail      Channel = "retail"
	ChannelOnline      Channel = "online"
	ChannelDistributor Channel = "distributor"
	ChannelDirect      Channel = "direct"
)

// BudgetMap maps a media channel id to its promotion budget. Stored as jsonb.
type BudgetMap map[string]float64

func (b BudgetMap) Value() (driver.Value, error) {
	if b == nil {
		return json.Marshal(BudgetMap{})
	}
	return json.Marshal(b)
}

func (b *BudgetMap) Scan(src any) error {
	if src == nil {
		*b = BudgetMap{}
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into BudgetMap", src)
	}
	return json.Unmarshal(raw, b)
}

// ProductDecision holds one team's marketing decisions for one product in
// one round. Once SubmittedAt is set the record is immutable until the round
// transitions; an external reset clears the timestamp.
type ProductDecision struct {
	ID           int                  `db:"id" json:"-"`
	TeamID       int                  `db:"team_id" json:"-"`
	RoundID      int                  `db:"round_id" json:"-"`
	ProductID    string               `db:"product_id" json:"productId"`
	Quality      QualityTier          `db:"quality" json:"quality"`
	Features     FeatureTier          `db:"features" json:"features"`
	Positioning  BrandPositioning     `db:"positioning" json:"positioning"`
	PriceStrategy PriceStrategy       `db:"price_strategy" json:"priceStrategy"`
	UnitPrice    float64              `db:"unit_price" json:"unitPrice"`
	Channels     pq.StringArray       `db:"channels" json:"channels"`
	Coverage     DistributionCoverage `db:"coverage" json:"coverage"`
	PromotionMix pq.StringArray       `db:"promotion_mix" json:"promotionMix"`
	Budgets      BudgetMap            `db:"budgets" json:"budgets"`
	SubmittedAt  *time.Time           `db:"submitted_at" json:"submittedAt,omitempty"`
	CreatedAt    time.Time            `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time            `db:"updated_at" json:"-"`
}

// Submitted reports whether the decision is frozen.
func (d *ProductDecision) Submitted() bool {
	return d != nil && d.SubmittedAt != nil
}

// DefaultDecision returns the record a team sees before it has touched a
// product: mid-tier product, competitive pricing, minimal footprint.
func DefaultDecision(teamID, roundID int, productID string) *ProductDecision {
	return &ProductDecision{
		TeamID:        teamID,
		RoundID:       roundID,
		ProductID:     productID,
		Quality:       QualityMedium,
		Features:      FeaturesIntermediate,
		Positioning:   PositioningQuality,
		PriceStrategy: PriceCompetitive,
		UnitPrice:     0,
		Channels:      pq.StringArray{},
		Coverage:      CoverageLocal,
		PromotionMix:  pq.StringArray{},
		Budgets:       BudgetMap{},
	}
}

// DecisionFields is a partial update for a draft decision. Nil fields are
// left unchanged by a merge.
type DecisionFields struct {
	Quality       *QualityTier          `json:"quality,omitempty"`
	Features      *FeatureTier          `json:"features,omitempty"`
	Positioning   *BrandPositioning     `json:"positioning,omitempty"`
	PriceStrategy *PriceStrategy        `json:"priceStrategy,omitempty"`
	UnitPrice     *float64              `json:"unitPrice,omitempty"`
	Channels      *[]string             `json:"channels,omitempty"`
	Coverage      *DistributionCoverage `json:"coverage,omitempty"`
	PromotionMix  *[]string             `json:"promotionMix,omitempty"`
	Budgets       *map[string]float64   `json:"budgets,omitempty"`
}
