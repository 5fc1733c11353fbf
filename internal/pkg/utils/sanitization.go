package utils

import (
	"mediconnect-service/internal/pkg/dto/requests"
	"strings"
	"unicode"
)

func capitalize(input string) string {
	if len(input) == 0 {
		return input
	}
	runes := []rune(input)
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

func SanitizeCreateAppointmentRequest(input *requests.CreateAppointment) {
	input.DoctorID = strings.TrimSpace(input.DoctorID)
	input.TimeSlot = strings.TrimSpace(input.TimeSlot)
	input.PaymentMethodToken = strings.TrimSpace(input.PaymentMethodToken)
	input.Reason = strings.TrimSpace(input.Reason)
	input.Priority = capitalize(strings.TrimSpace(input.Priority))
}

func SanitizeCancelAppointmentRequest(input *requests.CancelAppointment) {
	input.AppointmentID = strings.TrimSpace(input.AppointmentID)
}
