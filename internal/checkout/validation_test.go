package checkout

import (
	"errors"
	"testing"

	"savoria/internal/domain"

	"github.com/stretchr/testify/assert"
)

func validForm() domain.DeliveryForm {
	return domain.DeliveryForm{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Phone:    "+1 555 0100 99",
		Address:  "12 Analytical Engine Way",
	}
}

func TestValidateDeliveryForm(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.DeliveryForm)
		wantField string
	}{
		{name: "valid form", mutate: func(f *domain.DeliveryForm) {}},
		{
			name:      "name too short",
			mutate:    func(f *domain.DeliveryForm) { f.FullName = "A" },
			wantField: "full_name",
		},
		{
			name:      "name of only whitespace",
			mutate:    func(f *domain.DeliveryForm) { f.FullName = "    " },
			wantField: "full_name",
		},
		{
			name:      "missing email",
			mutate:    func(f *domain.DeliveryForm) { f.Email = "" },
			wantField: "email",
		},
		{
			name:      "malformed email",
			mutate:    func(f *domain.DeliveryForm) { f.Email = "not-an-email" },
			wantField: "email",
		},
		{
			name:      "email without domain dot",
			mutate:    func(f *domain.DeliveryForm) { f.Email = "a@b" },
			wantField: "email",
		},
		{
			name:      "phone too short",
			mutate:    func(f *domain.DeliveryForm) { f.Phone = "555-0100" },
			wantField: "phone",
		},
		{
			name:      "address too short",
			mutate:    func(f *domain.DeliveryForm) { f.Address = "12 Way" },
			wantField: "address",
		},
		{
			name:   "notes are optional",
			mutate: func(f *domain.DeliveryForm) { f.Notes = "" },
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			form := validForm()
			testCase.mutate(&form)

			err := ValidateDeliveryForm(form)

			if testCase.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var valErr ValidationError
			assert.True(t, errors.As(err, &valErr))
			assert.Equal(t, testCase.wantField, valErr.Field)
		})
	}
}
