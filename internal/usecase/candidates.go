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

const loadProductsFailedMessage = "Failed to load products"

// CandidateLoader lists the user's previously analyzed products
type CandidateLoader struct {
	api      domain.ComparisonAPI
	notifier domain.Notifier
	logger   *logging.Logger
	metrics  *metrics.ComparisonMetrics
}

// NewCandidateLoader creates a loader backed by the comparison API
func NewCandidateLoader(api domain.ComparisonAPI, notifier domain.Notifier, logger *logging.Logger, m *metrics.ComparisonMetrics) *CandidateLoader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &CandidateLoader{
		api:      api,
		notifier: notifier,
		logger:   logger.Component("candidates"),
		metrics:  m,
	}
}

// FetchAvailable returns every candidate. On failure it notifies the user and
// returns an empty slice with an error wrapping domain.ErrFetchFailed.
func (l *CandidateLoader) FetchAvailable(ctx context.Context) ([]domain.AvailableProduct, error) {
	products, err := l.api.AvailableProducts(ctx)
	if err != nil {
		return l.fail(ctx, "available-products", err)
	}
	return nonNil(products), nil
}

// SearchRemote asks the backend to search the user's history for query.
// A blank query falls back to FetchAvailable.
func (l *CandidateLoader) SearchRemote(ctx context.Context, query string) ([]domain.AvailableProduct, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return l.FetchAvailable(ctx)
	}

	products, err := l.api.SearchProducts(ctx, query)
	if err != nil {
		return l.fail(ctx, "search", err)
	}
	return nonNil(products), nil
}

func (l *CandidateLoader) fail(ctx context.Context, operation string, err error) ([]domain.AvailableProduct, error) {
	l.metrics.IncFetchFailure(operation)
	l.logger.Error(ctx, "failed to load candidates", err, "operation", operation)
	notify(ctx, l.notifier, loadProductsFailedMessage, domain.SeverityError)

	if !errors.Is(err, domain.ErrFetchFailed) {
		err = fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	return []domain.AvailableProduct{}, err
}

// FilterCandidates keeps candidates whose name or brand contains query, ignoring case.
// A blank query returns candidates unchanged.
func FilterCandidates(candidates []domain.AvailableProduct, query string) []domain.AvailableProduct {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return candidates
	}

	out := make([]domain.AvailableProduct, 0, len(candidates))
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Brand), needle) {
			out = append(out, c)
		}
	}
	return out
}

func nonNil(products []domain.AvailableProduct) []domain.AvailableProduct {
	if products == nil {
		return []domain.AvailableProduct{}
	}
	return products
}

func notify(ctx context.Context, notifier domain.Notifier, message string, severity domain.Severity) {
	if notifier == nil {
		return
	}
	notifier.Notify(ctx, domain.Notification{Message: message, Severity: severity})
}
