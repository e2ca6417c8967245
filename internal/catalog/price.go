package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Price is a product price in the form the storefront received it: either a
// plain number or a currency-formatted string such as "$5.00". The original
// form is kept so persisted records marshal back unchanged.
type Price struct {
	amount decimal.Decimal
	text   string
	isText bool
}

// NewPrice returns a numeric price.
func NewPrice(amount float64) Price {
	return Price{amount: decimal.NewFromFloat(amount)}
}

// TextPrice returns a price that arrived as formatted text.
func TextPrice(text string) Price {
	return Price{text: text, isText: true}
}

// IsText reports whether the price arrived as a string.
func (p Price) IsText() bool {
	return p.isText
}

// Amount returns the numeric value of the price. Text prices drop one leading
// currency symbol and parse as a decimal; text that does not parse counts as
// zero.
func (p Price) Amount() decimal.Decimal {
	if !p.isText {
		return p.amount
	}
	return parseAmount(p.text)
}

// String renders the price for display.
func (p Price) String() string {
	if p.isText {
		return strings.TrimSpace(p.text)
	}
	return FormatMoney(p.amount)
}

// MarshalJSON writes numeric prices as JSON numbers and text prices as strings.
func (p Price) MarshalJSON() ([]byte, error) {
	if p.isText {
		return json.Marshal(p.text)
	}
	return []byte(p.amount.String()), nil
}

// UnmarshalJSON accepts a JSON number or string.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}
	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("decode price text: %w", err)
		}
		*p = TextPrice(text)
		return nil
	}
	amount, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("decode price %s: %w", data, err)
	}
	*p = Price{amount: amount}
	return nil
}

// FormatMoney renders an amount as dollars with two decimals.
func FormatMoney(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

func parseAmount(text string) decimal.Decimal {
	trimmed := strings.TrimSpace(text)
	if r, size := utf8.DecodeRuneInString(trimmed); size > 0 && unicode.Is(unicode.Sc, r) {
		trimmed = strings.TrimSpace(trimmed[size:])
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return amount
}
