package service

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"paydesk/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	amountMaxDigits     = 10
	amountDecimalPlaces = 2
)

const (
	msgRequired     = "This field is required."
	msgInvalidEmail = "Enter a valid email address."
	msgInvalidNum   = "A valid number is required."
	msgNotPositive  = "Amount must be greater than zero."
)

type paymentFields struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,max=254,email"`
}

// ValidPayment is creation input that passed validation.
type ValidPayment struct {
	Name   string
	Email  string
	Amount decimal.Decimal
}

type PaymentValidator struct {
	validate *validator.Validate
}

func NewPaymentValidator() *PaymentValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &PaymentValidator{validate: v}
}

// Validate checks every field and reports all problems at once.
func (v *PaymentValidator) Validate(in CreatePaymentInput) (*ValidPayment, error) {
	verr := domain.NewValidationError()

	fields := paymentFields{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
	}
	if err := v.validate.Struct(fields); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), fieldMessage(fe))
		}
	}

	amount, msg := parseAmount(in.Amount)
	if msg != "" {
		verr.Add("amount", msg)
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return &ValidPayment{Name: fields.Name, Email: fields.Email, Amount: amount}, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "email":
		return msgInvalidEmail
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	}
	return fmt.Sprintf("Invalid value (%s).", fe.Tag())
}

// parseAmount applies the decimal(10,2) field rules, then the positivity
// rule. It returns the first message that applies.
func parseAmount(raw string) (decimal.Decimal, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, msgRequired
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, msgInvalidNum
	}

	n := len(new(big.Int).Abs(d.Coefficient()).String())
	exp := int(d.Exponent())
	digits, decimals := n+exp, 0
	if exp < 0 {
		decimals = -exp
		digits = max(n, decimals)
	}

	switch {
	case digits > amountMaxDigits:
		return d, fmt.Sprintf("Ensure that there are no more than %d digits in total.", amountMaxDigits)
	case decimals > amountDecimalPlaces:
		return d, fmt.Sprintf("Ensure that there are no more than %d decimal places.", amountDecimalPlaces)
	case digits-decimals > amountMaxDigits-amountDecimalPlaces:
		return d, fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", amountMaxDigits-amountDecimalPlaces)
	case d.Sign() <= 0:
		return d, msgNotPositive
	}
	return d, ""
}
