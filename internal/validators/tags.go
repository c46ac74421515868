// Package validators registra as tags de validação usadas nos DTOs.
package validators

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register adiciona hhmm (HH:MM) e ymd (YYYY-MM-DD) ao validator do gin.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("hhmm", layout("15:04")); err != nil {
		return err
	}
	return v.RegisterValidation("ymd", layout("2006-01-02"))
}

func layout(l string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true // required cuida do vazio
		}
		_, err := time.Parse(l, s)
		return err == nil && len(s) == len(l)
	}
}
