package usecase

import "github.com/buysmart/comparison/internal/domain"

// ScoreBand buckets a 0-100 score for display
type ScoreBand string

const (
	ScoreBandHigh   ScoreBand = "high"
	ScoreBandMedium ScoreBand = "medium"
	ScoreBandLow    ScoreBand = "low"
)

// PickBest returns the product with the highest overall score.
// The first product wins ties. It returns false for an empty slice.
func PickBest(products []domain.ComparisonProduct) (domain.ComparisonProduct, bool) {
	if len(products) == 0 {
		return domain.ComparisonProduct{}, false
	}

	best := 0
	for i := 1; i < len(products); i++ {
		if products[i].Scores.Overall > products[best].Scores.Overall {
			best = i
		}
	}
	return products[best], true
}

// BandFor returns the display band of score
func BandFor(score int) ScoreBand {
	switch {
	case score >= 75:
		return ScoreBandHigh
	case score >= 50:
		return ScoreBandMedium
	default:
		return ScoreBandLow
	}
}

// ScoreBands holds the display band of each score of a product
type ScoreBands struct {
	Overall          ScoreBand `json:"overall"`
	Sentiment        ScoreBand `json:"sentiment"`
	FeatureQuality   ScoreBand `json:"featureQuality"`
	BrandReliability ScoreBand `json:"brandReliability"`
	RatingReview     ScoreBand `json:"ratingReview"`
	Consistency      ScoreBand `json:"consistency"`
}

// BandsFor bands every score in s
func BandsFor(s domain.Scores) ScoreBands {
	return ScoreBands{
		Overall:          BandFor(s.Overall),
		Sentiment:        BandFor(s.Sentiment),
		FeatureQuality:   BandFor(s.FeatureQuality),
		BrandReliability: BandFor(s.BrandReliability),
		RatingReview:     BandFor(s.RatingReview),
		Consistency:      BandFor(s.Consistency),
	}
}

// ShowBestBanner reports whether a "best choice" highlight applies to a set of n products
func ShowBestBanner(n int) bool {
	return n >= 2
}
