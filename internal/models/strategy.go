package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type BCGQuadrant string

const (
	QuadrantStar         BCGQuadrant = "star"
	QuadrantCashCow      BCGQuadrant = "cash_cow"
	QuadrantQuestionMark BCGQuadrant = "question_mark"
	QuadrantDog          BCGQuadrant = "dog"
)

// SWOTAnalysis holds the four SWOT lists. Stored as jsonb.
type SWOTAnalysis struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// ForceAssessment is one of Porter's five forces: an intensity score 1-10
// and a free-text rationale.
type ForceAssessment struct {
	Score int    `json:"score"`
	Notes string `json:"notes"`
}

// PorterAnalysis holds the five-forces assessment. Stored as jsonb.
type PorterAnalysis struct {
	NewEntrants   ForceAssessment `json:"newEntrants"`
	SupplierPower ForceAssessment `json:"supplierPower"`
	BuyerPower    ForceAssessment `json:"buyerPower"`
	Substitutes   ForceAssessment `json:"substitutes"`
	Rivalry       ForceAssessment `json:"rivalry"`
}

// Forces returns the five assessments in a fixed order.
func (p PorterAnalysis) Forces() []ForceAssessment {
	return []ForceAssessment{p.NewEntrants, p.SupplierPower, p.BuyerPower, p.Substitutes, p.Rivalry}
}

// BCGEntry classifies one product into a growth-share quadrant.
type BCGEntry struct {
	ProductID string      `json:"productId"`
	Quadrant  BCGQuadrant `json:"quadrant"`
}

// BCGMatrix is the list of product classifications. Stored as jsonb.
type BCGMatrix []BCGEntry

// PESTELAnalysis holds the six macro-environment lists. Stored as jsonb.
type PESTELAnalysis struct {
	Political     []string `json:"political"`
	Economic      []string `json:"economic"`
	Social        []string `json:"social"`
	Technological []string `json:"technological"`
	Environmental []string `json:"environmental"`
	Legal         []string `json:"legal"`
}

// Lists returns the six PESTEL lists in a fixed order.
func (p PESTELAnalysis) Lists() [][]string {
	return [][]string{p.Political, p.Economic, p.Social, p.Technological, p.Environmental, p.Legal}
}

// StrategicToolSet is one team's strategic-analysis work for one round. The
// four artifacts gate decision submission.
type StrategicToolSet struct {
	ID        int            `db:"id" json:"-"`
	TeamID    int            `db:"team_id" json:"-"`
	RoundID   int            `db:"round_id" json:"-"`
	SWOT      SWOTAnalysis   `db:"swot" json:"swot"`
	Porter    PorterAnalysis `db:"porter" json:"porter"`
	BCG       BCGMatrix      `db:"bcg" json:"bcg"`
	PESTEL    PESTELAnalysis `db:"pestel" json:"pestel"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"-"`
}

func (s SWOTAnalysis) Value() (driver.Value, error)   { return json.Marshal(s) }
func (p PorterAnalysis) Value() (driver.Value, error) { return json.Marshal(p) }
func (m BCGMatrix) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(BCGMatrix{})
	}
	return json.Marshal(m)
}
func (p PESTELAnalysis) Value() (driver.Value, error) { return json.Marshal(p) }

func (s *SWOTAnalysis) Scan(src any) error   { return scanJSON(src, s) }
func (p *PorterAnalysis) Scan(src any) error { return scanJSON(src, p) }
func (m *BCGMatrix) Scan(src any) error      { return scanJSON(src, m) }
func (p *PESTELAnalysis) Scan(src any) error { return scanJSON(src, p) }

func scanJSON(src, dst any) error {
	if src == nil {
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T as jsonb", src)
	}
	return json.Unmarshal(raw, dst)
}
