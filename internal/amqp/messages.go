package amqp

import (
	"encoding/json"
	"time"
)

// Alert kinds published on the alert queue.
const (
	AlertCategoryCap     = "category_cap"
	AlertWishlist        = "wishlist_affordable"
	AlertBudget          = "budget_health"
	AlertOverspend       = "category_overspend"
	AlertSubscriptionDue = "subscription_due"
)

// Alert severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// ExpenseSyncMessage asks the mirror worker to copy one expense to the
// hosted ledger. It carries only the ID; the worker reads the full record
// from the database so a stale message can never overwrite newer data.
type ExpenseSyncMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseSyncMessage(id string) *ExpenseSyncMessage {
	return &ExpenseSyncMessage{ID: id, Timestamp: time.Now()}
}

func (m *ExpenseSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseSyncMessageFromJSON(data []byte) (*ExpenseSyncMessage, error) {
	var msg ExpenseSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// AlertMessage is one threshold-crossing fact, ready for whatever notifier
// consumes the alert queue. Fields carries kind-specific details (category,
// percent used, days until, ...) as strings so consumers need no schema.
type AlertMessage struct {
	Kind      string            `json:"kind"`
	Severity  string            `json:"severity"`
	Subject   string            `json:"subject"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func NewAlertMessage(kind, severity, subject string, fields map[string]string) *AlertMessage {
	return &AlertMessage{
		Kind:      kind,
		Severity:  severity,
		Subject:   subject,
		Fields:    fields,
		Timestamp: time.Now(),
	}
}

func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
