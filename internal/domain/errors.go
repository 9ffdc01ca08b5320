package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidAction   = errors.New("invalid payment action")
	ErrInvalidFilter   = errors.New("invalid payment filter")
)

// ValidationError carries field level messages for rejected input. Nothing
// has been persisted when it is returned.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IllegalTransitionError is returned when a payment has already left pending.
type IllegalTransitionError struct {
	Current Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("Payment is already %s", e.Current)
}

// Stage names the step of the side-effect pipeline that failed.
type Stage string

const (
	StagePersist Stage = "persist"
	StageRender  Stage = "render"
	StageNotify  Stage = "notify"
)

// InfrastructureError wraps a persistence, rendering or delivery failure.
// Applied reports whether the payment was already written when the failure
// happened; the engine never rolls such writes back.
type InfrastructureError struct {
	Stage     Stage
	PaymentID string
	Status    Status
	Applied   bool
	Err       error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// DeliveryError is returned by the notifier when the transport rejects a message.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("send to %s: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
