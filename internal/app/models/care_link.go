package models

import (
	"mediconnect-service/internal/pkg/constvars"
	"time"
)

type CareLink struct {
	PK           string    `json:"pk" bson:"pk"`
	SK           string    `json:"sk" bson:"sk"`
	Relationship string    `json:"relationship" bson:"relationship"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// BuildCareTeamLinks returns both directions of the patient/doctor edge.
func BuildCareTeamLinks(patientID, doctorID string, now time.Time) []CareLink {
	patientKey := constvars.CareLinkPatientPrefix + patientID
	doctorKey := constvars.CareLinkDoctorPrefix + doctorID
	return []CareLink{
		{PK: patientKey, SK: doctorKey, Relationship: constvars.CareLinkRelationship, CreatedAt: now},
		{PK: doctorKey, SK: patientKey, Relationship: constvars.CareLinkRelationship, CreatedAt: now},
	}
}
