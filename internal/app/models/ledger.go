package models

import "time"

type LedgerEntryType string

const (
	LedgerBookingFee LedgerEntryType = "BOOKING_FEE"
	LedgerRefund     LedgerEntryType = "REFUND"
)

type LedgerEntryStatus string

const (
	LedgerStatusPaid         LedgerEntryStatus = "PAID"
	LedgerStatusRefunded     LedgerEntryStatus = "REFUNDED"
	LedgerStatusRefundFailed LedgerEntryStatus = "REFUND_FAILED"
)

// LedgerEntry amounts are signed minor units; refunds are negative.
type LedgerEntry struct {
	BillID           string            `json:"billId" bson:"_id"`
	ReferenceID      string            `json:"referenceId" bson:"referenceId"`
	PatientID        string            `json:"patientId" bson:"patientId"`
	DoctorID         string            `json:"doctorId" bson:"doctorId"`
	Type             LedgerEntryType   `json:"type" bson:"type"`
	Amount           int64             `json:"amount" bson:"amount"`
	Currency         string            `json:"currency" bson:"currency"`
	Status           LedgerEntryStatus `json:"status" bson:"status"`
	GatewayReference string            `json:"gatewayReference,omitempty" bson:"gatewayReference,omitempty"`
	CreatedAt        time.Time         `json:"createdAt" bson:"createdAt"`
}
