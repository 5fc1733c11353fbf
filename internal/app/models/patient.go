package models

type PatientProfile struct {
	ID          string `json:"patientId" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	DateOfBirth string `json:"dob,omitempty" bson:"dob,omitempty"`
	Avatar      string `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// PatientSummary is the denormalized display data copied onto an appointment.
type PatientSummary struct {
	Age    *int
	Avatar string
}
