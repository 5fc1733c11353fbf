package models

import (
	"mediconnect-service/internal/pkg/constvars"
	"time"
)

type SlotLockStatus string

const (
	SlotLockLocked SlotLockStatus = "LOCKED"
	SlotLockBooked SlotLockStatus = "BOOKED"
)

// SlotLock is the exclusivity record over one doctor and one normalized slot.
// A BOOKED lock has no expiry.
type SlotLock struct {
	Key           string         `json:"lockKey" bson:"_id"`
	HolderID      string         `json:"holderId" bson:"holderId"`
	Status        SlotLockStatus `json:"status" bson:"status"`
	AppointmentID string         `json:"appointmentId,omitempty" bson:"appointmentId,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
	ExpiresAt     *time.Time     `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
}

func BuildSlotLockKey(doctorID, normalizedSlot string) string {
	return doctorID + constvars.SlotLockKeySeparator + normalizedSlot
}

// IsReleasable reports whether a later acquire may take the lock over.
func (l *SlotLock) IsReleasable(now time.Time) bool {
	if l.Status != SlotLockLocked || l.ExpiresAt == nil {
		return false
	}
	return !now.Before(*l.ExpiresAt)
}
