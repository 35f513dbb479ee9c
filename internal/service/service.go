package service

import (
	"time"

	"bizledger/internal/apperr"
	"bizledger/internal/model"
	"bizledger/pkg/validator"

	"github.com/shopspring/decimal"
)

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// EventPublisher pushes live events to connected dashboards. Publishing must not block.
type EventPublisher interface {
	Publish(event string, data any)
}

// Live event names
const (
	EventStockChanged     = "stock_changed"
	EventSaleRecorded     = "sale_recorded"
	EventPurchaseRecorded = "purchase_recorded"
	EventLedgerReconciled = "ledger_reconciled"
)

func publish(p EventPublisher, event string, data any) {
	if p != nil {
		p.Publish(event, data)
	}
}

func orNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// validate checks the binding rules of a request struct outside of gin
func validate(req any) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperr.Validation("%s", validator.Message(errs))
	}
	return nil
}

func requireNonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return apperr.Validation("%s must not be negative", field)
	}
	return nil
}

func requirePositive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return apperr.Validation("%s must be greater than zero", field)
	}
	return nil
}

// dateOrToday returns date, or today's date when it is empty
func dateOrToday(date string, now Clock) (string, error) {
	if date == "" {
		return model.Today(now()), nil
	}
	if !model.ValidDate(date) {
		return "", apperr.Validation("date %q is not a YYYY-MM-DD calendar date", date)
	}
	return date, nil
}

func keyOrNew(key, prefix string) string {
	if key != "" {
		return key
	}
	return model.NewID(prefix)
}
