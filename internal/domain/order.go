package domain

import (
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderTypeMerchant is the only order type the direct order API accepts
const OrderTypeMerchant = "MERCHANT"

// OrderDetails describes a PostPesapalDirectOrderV4 order.
// No field has a default; unset fields serialize as empty attribute values.
// A zero Amount counts as unset.
type OrderDetails struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Reference   string          `json:"reference"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phonenumber"`
	Currency    string          `json:"currency"`
}

// AmountString renders the amount without thousands separators, or "" if
// unset. The scale the amount was parsed with is kept, so 1000.50 stays 1000.50.
func (o *OrderDetails) AmountString() string {
	if o.Amount.IsZero() {
		return ""
	}
	if exp := o.Amount.Exponent(); exp < 0 {
		return o.Amount.StringFixed(-exp)
	}
	return o.Amount.String()
}

// Validate checks the fields the gateway needs to accept an order.
// It is opt-in: the gateway client does not call it unless configured to.
func (o *OrderDetails) Validate() error {
	if o.Amount.IsZero() {
		return ErrValidationMissingField.withField("amount")
	}
	if !o.Amount.IsPositive() {
		return ErrValidationAmountInvalid.withField("amount")
	}
	required := []struct {
		name  string
		value string
	}{
		{"description", o.Description},
		{"type", o.Type},
		{"reference", o.Reference},
		{"currency", o.Currency},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return ErrValidationMissingField.withField(f.name)
		}
	}
	if o.Email == "" && o.PhoneNumber == "" {
		return ErrValidationMissingField.withField("email")
	}
	if o.Email != "" {
		if _, err := mail.ParseAddress(o.Email); err != nil {
			return WrapError(ErrorCodeValidationFailed, "invalid email", err).WithDetail("field", "email")
		}
	}
	if len(o.Currency) != 3 {
		return NewDomainError(ErrorCodeValidationFailed, "currency must be an ISO 4217 code").WithDetail("field", "currency")
	}
	return nil
}
