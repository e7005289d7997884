package domain

import "context"

// SlotStorage is a durable string-keyed store, one value per key
type SlotStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// ComparisonAPI defines the backend endpoints the comparison feature consumes
type ComparisonAPI interface {
	AvailableProducts(ctx context.Context) ([]AvailableProduct, error)
	SearchProducts(ctx context.Context, query string) ([]AvailableProduct, error)
	Compare(ctx context.Context, analysisIDs []string) ([]ComparisonProduct, error)
}

// Severity classifies a user-facing notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a user-facing message
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier delivers user-facing notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
