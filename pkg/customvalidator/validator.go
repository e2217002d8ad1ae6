package customvalidator

import (
	"reflect"
	"regexp"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations enregistre les règles de validation propres au
// domaine sur l'instance de validateur partagée.
func RegisterCustomValidations(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(unwrapNullable, null.String{}, null.Int{}, null.Uint64{})

	if err := v.RegisterValidation("month_year", isMonthYear); err != nil {
		return err
	}
	if err := v.RegisterValidation("operational_status", isOperationalStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("book_category", isBookCategory); err != nil {
		return err
	}
	return nil
}

// unwrapNullable expose la valeur portée par les types null.* au
// validateur, pour que omitempty et les règles de format s'appliquent à
// la valeur elle-même.
func unwrapNullable(field reflect.Value) interface{} {
	switch v := field.Interface().(type) {
	case null.String:
		if v.Valid {
			return v.String
		}
	case null.Int:
		if v.Valid {
			return v.Int
		}
	case null.Uint64:
		if v.Valid {
			return v.Uint64
		}
	}
	return nil
}

// Format attendu : MM/YYYY (ex : 12/2023). Champ optionnel, le vide passe.
var monthYearRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])\/\d{4}$`)

func isMonthYear(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return monthYearRegex.MatchString(s)
}

var operationalStatuses = map[string]bool{
	"excellent":    true,
	"bon":          true,
	"acceptable":   true,
	"hors_service": true,
}

func isOperationalStatus(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return operationalStatuses[s]
}

var bookCategories = map[string]bool{
	"carte topographique": true,
	"topo randonnée":      true,
	"topo escalade":       true,
	"topo alpinisme":      true,
	"manuel technique":    true,
	"beau livre":          true,
	"roman":               true,
}

func isBookCategory(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return bookCategories[s]
}
