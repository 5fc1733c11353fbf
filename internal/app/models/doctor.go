package models

type Doctor struct {
	ID              string `json:"doctorId" bson:"_id"`
	Name            string `json:"name" bson:"name"`
	Specialization  string `json:"specialization,omitempty" bson:"specialization,omitempty"`
	ConsultationFee *int64 `json:"consultationFee,omitempty" bson:"consultationFee,omitempty"`
}
