package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/buysmart/comparison/internal/domain"
	"github.com/buysmart/comparison/internal/logging"
	"github.com/buysmart/comparison/internal/metrics"
)

// ComparisonFetcher resolves an analysis id to a full product and stages it
type ComparisonFetcher struct {
	api     domain.ComparisonAPI
	store   *ComparisonStore
	logger  *logging.Logger
	metrics *metrics.ComparisonMetrics
}

// NewComparisonFetcher creates a fetcher writing into store
func NewComparisonFetcher(api domain.ComparisonAPI, store *ComparisonStore, logger *logging.Logger, m *metrics.ComparisonMetrics) *ComparisonFetcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ComparisonFetcher{
		api:     api,
		store:   store,
		logger:  logger.Component("comparison-fetcher"),
		metrics: m,
	}
}

// AddByAnalysisID fetches the comparison snapshot for analysisID and hands it to the store.
// Capacity and duplicate checks are left to the store, which ignores such adds.
func (f *ComparisonFetcher) AddByAnalysisID(ctx context.Context, analysisID string) (domain.ComparisonProduct, AddOutcome, error) {
	analysisID = strings.TrimSpace(analysisID)
	if analysisID == "" {
		return domain.ComparisonProduct{}, "", fmt.Errorf("%w: analysisId is required", domain.ErrInvalidRequest)
	}

	products, err := f.api.Compare(ctx, []string{analysisID})
	if err != nil {
		return domain.ComparisonProduct{}, "", f.fail(ctx, analysisID, err)
	}

	// The caller may have gone away while the request was in flight
	if ctxErr := ctx.Err(); ctxErr != nil {
		f.logger.Debug(ctx, "discarding comparison result", "analysis_id", analysisID)
		return domain.ComparisonProduct{}, "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, ctxErr)
	}

	product, ok := pickByAnalysisID(products, analysisID)
	if !ok {
		return domain.ComparisonProduct{}, "", f.fail(ctx, analysisID, errors.New("response does not contain the requested analysis"))
	}
	if err := product.Validate(); err != nil {
		return domain.ComparisonProduct{}, "", f.fail(ctx, analysisID, err)
	}

	outcome := f.store.Add(ctx, product)
	f.logger.Info(ctx, "comparison product resolved", "analysis_id", analysisID, "outcome", string(outcome))
	return product, outcome, nil
}

// pickByAnalysisID prefers the entry matching id and falls back to a lone entry
func pickByAnalysisID(products []domain.ComparisonProduct, id string) (domain.ComparisonProduct, bool) {
	for _, p := range products {
		if p.AnalysisID == id {
			return p, true
		}
	}
	if len(products) == 1 {
		return products[0], true
	}
	return domain.ComparisonProduct{}, false
}

func (f *ComparisonFetcher) fail(ctx context.Context, analysisID string, err error) error {
	f.metrics.IncFetchFailure("compare")
	f.logger.Error(ctx, "failed to fetch comparison product", err, "analysis_id", analysisID)

	if errors.Is(err, domain.ErrFetchFailed) || errors.Is(err, domain.ErrUnauthorized) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
}
