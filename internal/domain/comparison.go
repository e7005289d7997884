package domain

import "github.com/shopspring/decimal"

// MaxComparisonProducts is the upper bound of the staged comparison set
const MaxComparisonProducts = 4

// ComparisonSlotKey is the storage key holding the persisted comparison set
const ComparisonSlotKey = "comparison_list"

// Verdict is the backend's binary buy recommendation
type Verdict string

const (
	VerdictBuy    Verdict = "BUY"
	VerdictNotBuy Verdict = "NOT_BUY"
)

// Confidence is the backend's confidence in a verdict
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Scores holds the 0-100 sub-scores of an analysis
type Scores struct {
	Overall          int `json:"overall" validate:"min=0,max=100"`
	Sentiment        int `json:"sentiment" validate:"min=0,max=100"`
	FeatureQuality   int `json:"featureQuality" validate:"min=0,max=100"`
	BrandReliability int `json:"brandReliability" validate:"min=0,max=100"`
	RatingReview     int `json:"ratingReview" validate:"min=0,max=100"`
	Consistency      int `json:"consistency" validate:"min=0,max=100"`
}

// Insights holds the positive and negative review takeaways
type Insights struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// ComparisonProduct is a snapshot of one analyzed product staged for comparison
type ComparisonProduct struct {
	AnalysisID string          `json:"analysisId" validate:"required"`
	ProductID  string          `json:"id"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   string          `json:"imageUrl"`
	Category   string          `json:"category,omitempty"`
	Scores     Scores          `json:"scores"`
	Verdict    Verdict         `json:"verdict" validate:"oneof=BUY NOT_BUY"`
	Confidence Confidence      `json:"confidence,omitempty" validate:"omitempty,oneof=Low Medium High"`
	Summary    string          `json:"summary,omitempty"`
	Insights   *Insights       `json:"insights,omitempty"`
}

// AvailableProduct is a candidate from the user's analysis history
type AvailableProduct struct {
	AnalysisID string          `json:"analysisId" validate:"required"`
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   string          `json:"imageUrl"`
	Score      int             `json:"score" validate:"min=0,max=100"`
	Verdict    string          `json:"verdict"`
}

// CompareRequest is the body of the backend compare endpoint
type CompareRequest struct {
	AnalysisIDs []string `json:"analysisIds"`
}

// CompareResponse is the backend compare endpoint's response.
// comparedAt is ignored; the backend serializes it as epoch millis.
type CompareResponse struct {
	Products []ComparisonProduct `json:"products"`
}
