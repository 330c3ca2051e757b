package validator

import (
	"log"
	"strings"

	"file_integrity_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные функции валидации.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'check-type': upload, download или manual
	mustRegister("check-type", validateCheckType)

	// 'not-blank': строка не состоит из одних пробелов
	mustRegister("not-blank", validateNotBlank)
}

func validateCheckType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения обрабатывает 'required'
	}
	return models.CheckType(value).IsValid()
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
