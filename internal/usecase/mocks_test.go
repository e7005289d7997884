package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/buysmart/comparison/internal/domain"
	"github.com/shopspring/decimal"
)

// MockSlotStorage is a mock implementation of domain.SlotStorage
type MockSlotStorage struct {
	mutex    sync.Mutex
	data     map[string][]byte
	getError error
	putError error
	puts     int
}

func NewMockSlotStorage() *MockSlotStorage {
	return &MockSlotStorage{data: make(map[string][]byte)}
}

func (m *MockSlotStorage) Get(ctx context.Context, key string) ([]byte, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	value, ok := m.data[key]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *MockSlotStorage) Put(ctx context.Context, key string, value []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.puts++
	if m.putError != nil {
		return m.putError
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MockSlotStorage) raw(key string) string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return string(m.data[key])
}

func (m *MockSlotStorage) putCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.puts
}

// MockComparisonAPI is a mock implementation of domain.ComparisonAPI
type MockComparisonAPI struct {
	available    []domain.AvailableProduct
	availableErr error
	search       []domain.AvailableProduct
	searchErr    error
	lastQuery    string

	compare      map[string]domain.ComparisonProduct
	compareErr   error
	compareCalls int
	onCompare    func()
}

func NewMockComparisonAPI() *MockComparisonAPI {
	return &MockComparisonAPI{compare: make(map[string]domain.ComparisonProduct)}
}

func (m *MockComparisonAPI) AvailableProducts(ctx context.Context) ([]domain.AvailableProduct, error) {
	if m.availableErr != nil {
		return nil, m.availableErr
	}
	return m.available, nil
}

func (m *MockComparisonAPI) SearchProducts(ctx context.Context, query string) ([]domain.AvailableProduct, error) {
	m.lastQuery = query
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.search, nil
}

func (m *MockComparisonAPI) Compare(ctx context.Context, analysisIDs []string) ([]domain.ComparisonProduct, error) {
	m.compareCalls++
	if m.onCompare != nil {
		m.onCompare()
	}
	if m.compareErr != nil {
		return nil, m.compareErr
	}
	products := make([]domain.ComparisonProduct, 0, len(analysisIDs))
	for _, id := range analysisIDs {
		p, ok := m.compare[id]
		if !ok {
			return nil, errors.New("analysis not found")
		}
		products = append(products, p)
	}
	return products, nil
}

// MockNotifier records notifications
type MockNotifier struct {
	mutex         sync.Mutex
	notifications []domain.Notification
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.notifications = append(m.notifications, n)
}

func (m *MockNotifier) last() (domain.Notification, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if len(m.notifications) == 0 {
		return domain.Notification{}, false
	}
	return m.notifications[len(m.notifications)-1], true
}

func (m *MockNotifier) count() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.notifications)
}

func newProduct(id string, overall int) domain.ComparisonProduct {
	return domain.ComparisonProduct{
		AnalysisID: id,
		ProductID:  "prod-" + id,
		Name:       "Product " + id,
		Brand:      "Brand",
		Price:      decimal.RequireFromString("199.99"),
		ImageURL:   "https://img.example.com/" + id + ".png",
		Scores: domain.Scores{
			Overall:          overall,
			Sentiment:        70,
			FeatureQuality:   65,
			BrandReliability: 80,
			RatingReview:     75,
			Consistency:      60,
		},
		Verdict:    domain.VerdictBuy,
		Confidence: domain.ConfidenceHigh,
		Summary:    "Solid choice",
		Insights: &domain.Insights{
			Positive: []string{"battery life"},
			Negative: []string{"weight"},
		},
	}
}
