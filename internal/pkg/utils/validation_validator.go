package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("iso_timestamp", validateISOTimestamp)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateISOTimestamp(fl validator.FieldLevel) bool {
	_, _, err := NormalizeTimeSlot(fl.Field().String())
	return err == nil
}
