package config

import (
	"reflect"
	"strings"

	"taskhub/internal/models"

	"github.com/go-playground/validator/v10"
)

// Validate adalah validator global yang dipakai di seluruh aplikasi.
// Nama field pada error memakai nama tag json.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		return models.ValidStatus(fl.Field().String())
	})
	return v
}
