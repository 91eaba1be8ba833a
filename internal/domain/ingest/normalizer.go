package ingest

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fdogov/ordersync/internal/entity"
)

// rawOrderEvent — проволочный формат события заказа из фида.
// Регион может приходить вложенным (customer.region) или плоским полем.
type rawOrderEvent struct {
	EventID        string          `json:"event_id"`
	EventSeq       int64           `json:"event_seq"`
	OrderID        string          `json:"order_id"`
	Status         string          `json:"status"`
	Date           string          `json:"date"`
	Amount         json.RawMessage `json:"amount"`
	CustomerRegion string          `json:"customer_region"`
	Customer       *struct {
		Region string `json:"region"`
	} `json:"customer"`
}

// dateLayouts — принимаемые форматы бизнес-даты, от строгого к свободному
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer validates and canonicalizes raw feed payloads into OrderEvent.
// It is pure: no I/O, no state.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer instance
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize разбирает и проверяет сырое событие.
// Любое нарушение контракта возвращается как *entity.ValidationError.
func (n *Normalizer) Normalize(raw []byte) (*entity.OrderEvent, error) {
	var event rawOrderEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, entity.NewValidationError("payload", "malformed json: "+err.Error())
	}

	if event.OrderID == "" {
		return nil, entity.NewValidationError("order_id", "is empty")
	}
	if event.EventID == "" {
		return nil, entity.NewValidationError("event_id", "is empty")
	}
	if event.EventSeq <= 0 {
		return nil, entity.NewValidationError("event_seq", "must be positive")
	}

	status, ok := entity.ParseOrderStatus(event.Status)
	if !ok {
		return nil, entity.NewValidationError("status", "unknown status: "+event.Status)
	}

	date, err := parseDate(event.Date)
	if err != nil {
		return nil, entity.NewValidationError("date", "invalid timestamp: "+event.Date)
	}

	amount, err := parseAmount(event.Amount)
	if err != nil {
		return nil, entity.NewValidationError("amount", err.Error())
	}

	region := event.CustomerRegion
	if event.Customer != nil && event.Customer.Region != "" {
		region = event.Customer.Region
	}
	if region == "" {
		return nil, entity.NewValidationError("customer_region", "is empty")
	}

	return &entity.OrderEvent{
		EventID:        event.EventID,
		Seq:            event.EventSeq,
		OrderID:        event.OrderID,
		Status:         status,
		Date:           date,
		Amount:         amount,
		CustomerRegion: region,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseAmount разбирает сумму без прохода через float: исходный текст
// (числовой литерал или строка) парсится decimal-ом точно.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	value := string(raw)
	if value == "" || value == "null" {
		return decimal.Decimal{}, errors.New("is empty")
	}

	if value[0] == '"' {
		if err := json.Unmarshal(raw, &value); err != nil {
			return decimal.Decimal{}, errors.New("invalid fixed-point value")
		}
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, errors.New("invalid fixed-point value")
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, errors.New("must be non-negative")
	}
	return amount, nil
}
