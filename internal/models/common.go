package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency represents supported currencies
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyLRD Currency = "LRD"
)

// ValidCurrency reports whether c is one of the supported currencies
func ValidCurrency(c Currency) bool {
	return c == CurrencyUSD || c == CurrencyLRD
}

var oneHundred = decimal.NewFromInt(100)

// Round2 rounds a monetary amount to two decimal places. Rounding is applied
// at every derived-field boundary, not only at the end, so floating error
// cannot compound across fields.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PercentOf returns round2(amount × percent / 100)
func PercentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(percent).Div(oneHundred))
}

// UUIDList is a list of UUID references persisted as a JSONB array
type UUIDList []uuid.UUID

// Value implements driver.Valuer
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		return jsonValue([]uuid.UUID{})
	}
	return jsonValue([]uuid.UUID(l))
}

// Scan implements sql.Scanner
func (l *UUIDList) Scan(src interface{}) error {
	return jsonScan(src, l)
}

// Document is a free-form pass-through JSONB object
type Document map[string]interface{}

// Value implements driver.Valuer
func (d Document) Value() (driver.Value, error) {
	if d == nil {
		return jsonValue(Document{})
	}
	return jsonValue(map[string]interface{}(d))
}

// Scan implements sql.Scanner
func (d *Document) Scan(src interface{}) error {
	return jsonScan(src, d)
}

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb value: %w", err)
	}
	return b, nil
}

func jsonScan(src interface{}, dst interface{}) error {
	if src == nil {
		return nil
	}

	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("unsupported jsonb source type")
	}

	if len(b) == 0 {
		return nil
	}

	return json.Unmarshal(b, dst)
}
