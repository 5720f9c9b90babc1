package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"savoria/internal/domain"
)

// ValidationError is field-scoped so the UI can point at the offending
// input.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateDeliveryForm(form domain.DeliveryForm) error {
	if err := validateFullName(form.FullName); err != nil {
		return err
	}
	if err := validateEmail(form.Email); err != nil {
		return err
	}
	if err := validatePhone(form.Phone); err != nil {
		return err
	}
	return validateAddress(form.Address)
}

func validateFullName(name string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return ValidationError{
			Field:   "full_name",
			Message: "full name must be at least 2 characters",
		}
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return ValidationError{
			Field:   "email",
			Message: "email address is not valid",
		}
	}
	return nil
}

func validatePhone(phone string) error {
	if len(strings.TrimSpace(phone)) < 10 {
		return ValidationError{
			Field:   "phone",
			Message: "phone number must be at least 10 characters",
		}
	}
	return nil
}

func validateAddress(address string) error {
	if len(strings.TrimSpace(address)) < 10 {
		return ValidationError{
			Field:   "address",
			Message: "delivery address must be at least 10 characters",
		}
	}
	return nil
}
