// internal/domain/checkout/dto.go
package checkout

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront-service/internal/domain/customer"
	"storefront-service/internal/pkg/jsonflag"
)

const DefaultPaymentMethod = "Cash"

type CartLine struct {
	ItemCode string          `json:"item_code"`
	Qty      decimal.Decimal `json:"qty"`
	Rate     decimal.Decimal `json:"rate"`
}

// UnmarshalJSON reads an empty or null qty/rate as zero, so form-encoded
// carts with blank cells still decode.
func (l *CartLine) UnmarshalJSON(data []byte) error {
	var raw struct {
		ItemCode string          `json:"item_code"`
		Qty      json.RawMessage `json:"qty"`
		Rate     json.RawMessage `json:"rate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	qty, err := looseDecimal(raw.Qty)
	if err != nil {
		return fmt.Errorf("qty: %w", err)
	}
	rate, err := looseDecimal(raw.Rate)
	if err != nil {
		return fmt.Errorf("rate: %w", err)
	}
	*l = CartLine{ItemCode: raw.ItemCode, Qty: qty, Rate: rate}
	return nil
}

func looseDecimal(data json.RawMessage) (decimal.Decimal, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		return decimal.Zero, nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// CartItems accepts either a JSON array of lines or a JSON string that
// itself encodes such an array.
type CartItems []CartLine

func (c *CartItems) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = nil
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode cart items: %w", err)
		}
		if raw == "" {
			*c = nil
			return nil
		}
		data = []byte(raw)
	}
	var lines []CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("decode cart items: %w", err)
	}
	*c = lines
	return nil
}

type PlaceOrderRequest struct {
	FullName      string        `json:"full_name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	AddressLine1  string        `json:"address_line1"`
	City          string        `json:"city"`
	Country       string        `json:"country"`
	Items         CartItems     `json:"items"`
	Notes         string        `json:"notes"`
	PaymentMethod string        `json:"payment_method"`
	UpdateProfile jsonflag.Bool `json:"update_profile"`
	UpdateAddress jsonflag.Bool `json:"update_address"`
}

type PlaceOrderResult struct {
	OK        bool   `json:"ok"`
	Order     string `json:"order"`
	Finalized bool   `json:"finalized"`
	Warning   string `json:"warning,omitempty"`
}

// Profile is what the checkout form is pre-filled with.
type Profile struct {
	FullName string            `json:"full_name"`
	Email    string            `json:"email"`
	Phone    string            `json:"phone"`
	Address  *customer.Address `json:"address,omitempty"`
}
