package model

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// SlotDate validates the "2006-01-02" date key format on binding tags.
func SlotDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(SlotDateFormat, fl.Field().String())
	return err == nil
}

// SlotTime validates the "15:04" time key format on binding tags.
func SlotTime(fl validator.FieldLevel) bool {
	_, err := time.Parse(SlotTimeFormat, fl.Field().String())
	return err == nil
}
