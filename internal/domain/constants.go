package domain

// Status is the lifecycle state of a payment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusReturned  Status = "returned"
	StatusCanceled  Status = "canceled"
)

// Statuses lists every valid status, initial state first.
var Statuses = []Status{StatusPending, StatusCompleted, StatusReturned, StatusCanceled}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusReturned, StatusCanceled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusReturned || s == StatusCanceled
}

// Action is a transition request made against a pending payment.
type Action string

const (
	ActionComplete Action = "complete"
	ActionReturn   Action = "return"
	ActionCancel   Action = "cancel"
)

var Actions = []Action{ActionComplete, ActionReturn, ActionCancel}

// Target returns the terminal status an action moves a pending payment to.
func (a Action) Target() (Status, bool) {
	switch a {
	case ActionComplete:
		return StatusCompleted, true
	case ActionReturn:
		return StatusReturned, true
	case ActionCancel:
		return StatusCanceled, true
	}
	return "", false
}

// NotificationKind selects the e-mail template sent for a lifecycle event.
type NotificationKind string

const (
	KindCreated   NotificationKind = "created"
	KindCompleted NotificationKind = "completed"
	KindReturned  NotificationKind = "returned"
	KindCanceled  NotificationKind = "canceled"
)

// KindFor maps a status reached by the engine to the notification announcing it.
func KindFor(s Status) NotificationKind {
	switch s {
	case StatusCompleted:
		return KindCompleted
	case StatusReturned:
		return KindReturned
	case StatusCanceled:
		return KindCanceled
	}
	return KindCreated
}

const (
	NotificationSent   = "SENT"
	NotificationFailed = "FAILED"
)

const (
	AuditPaymentCreated  = "payment_created"
	AuditResourcePayment = "payment"
)

// AuditActionFor names the audit action recorded for a transition.
func AuditActionFor(s Status) string {
	return "payment_" + string(s)
}
