package models

import "time"

type ReconciliationKind string

const (
	ReconciliationCaptureFailed      ReconciliationKind = "CAPTURE_FAILED"
	ReconciliationRefundFailed       ReconciliationKind = "REFUND_FAILED"
	ReconciliationAuthorizeUncertain ReconciliationKind = "AUTHORIZE_UNCERTAIN"
)

type ReconciliationAlert struct {
	Kind          ReconciliationKind `json:"kind"`
	AppointmentID string             `json:"appointmentId"`
	HoldID        string             `json:"holdId"`
	// IdempotencyKey locates a hold whose authorize response never arrived.
	IdempotencyKey string    `json:"idempotencyKey,omitempty"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	Reason         string    `json:"reason"`
	OccurredAt     time.Time `json:"occurredAt"`
}
