package models

import "time"

type AppointmentEvent struct {
	Type          string            `json:"type"`
	AppointmentID string            `json:"appointmentId"`
	PatientID     string            `json:"patientId"`
	DoctorID      string            `json:"doctorId"`
	TimeSlot      string            `json:"timeSlot"`
	Status        AppointmentStatus `json:"status"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	OccurredAt    time.Time         `json:"occurredAt"`
}

func NewAppointmentEvent(eventType string, appointment *Appointment, now time.Time) *AppointmentEvent {
	return &AppointmentEvent{
		Type:          eventType,
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		TimeSlot:      appointment.TimeSlot,
		Status:        appointment.Status,
		Amount:        appointment.AmountCharged,
		Currency:      appointment.Currency,
		OccurredAt:    now,
	}
}
