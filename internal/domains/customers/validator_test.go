package customers

import (
	"strings"
	"testing"
	"time"

	"github.com/sangkips/customer-data-service/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreate() CreateCustomerRequest {
	return CreateCustomerRequest{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
	}
}

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*CreateCustomerRequest)
		field string
		kind  apperrors.ValidationKind
	}{
		{"missing first name", func(r *CreateCustomerRequest) { r.FirstName = "" }, "first_name", apperrors.MissingField},
		{"blank last name", func(r *CreateCustomerRequest) { r.LastName = "   " }, "last_name", apperrors.MissingField},
		{"missing email", func(r *CreateCustomerRequest) { r.Email = "" }, "email", apperrors.MissingField},
		{"email without at", func(r *CreateCustomerRequest) { r.Email = "invalid-email" }, "email", apperrors.InvalidEmail},
		{"email without dotted domain", func(r *CreateCustomerRequest) { r.Email = "a@b" }, "email", apperrors.InvalidEmail},
		{"first name too long", func(r *CreateCustomerRequest) { r.FirstName = strings.Repeat("a", 101) }, "first_name", apperrors.FieldTooLong},
		{"phone too long", func(r *CreateCustomerRequest) { r.Phone = strPtr(strings.Repeat("1", 21)) }, "phone", apperrors.FieldTooLong},
		{"address too long", func(r *CreateCustomerRequest) { r.Address = strPtr(strings.Repeat("x", 501)) }, "address", apperrors.FieldTooLong},
		{"date in wrong layout", func(r *CreateCustomerRequest) { r.DateOfBirth = strPtr("15/01/1990") }, "date_of_birth", apperrors.InvalidDate},
		{"impossible date", func(r *CreateCustomerRequest) { r.DateOfBirth = strPtr("1990-02-30") }, "date_of_birth", apperrors.InvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.edit(&req)

			_, err := ValidateCreate(req)
			require.Error(t, err)

			ve, ok := apperrors.AsValidationError(err)
			require.True(t, ok, "expected a validation error, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.kind, ve.Kind)
		})
	}
}

func TestValidateCreate_Accepts(t *testing.T) {
	req := validCreate()
	req.FirstName = "  John  "
	req.Phone = strPtr("+1-555-0123")
	req.Address = strPtr("")
	req.DateOfBirth = strPtr("1990-01-15")

	v, err := ValidateCreate(req)
	require.NoError(t, err)

	assert.Equal(t, "John", v.FirstName)
	require.NotNil(t, v.Phone)
	assert.Equal(t, "+1-555-0123", *v.Phone)
	assert.Nil(t, v.Address, "empty optional value is stored as absent")
	require.NotNil(t, v.DateOfBirth)
	assert.Equal(t, time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC), *v.DateOfBirth)
}

func TestValidateCreate_LengthCountsCharacters(t *testing.T) {
	req := validCreate()
	req.FirstName = strings.Repeat("é", 100)

	_, err := ValidateCreate(req)
	assert.NoError(t, err)
}

func TestValidateUpdate(t *testing.T) {
	t.Run("rejects empty patch", func(t *testing.T) {
		_, err := ValidateUpdate(UpdateCustomerRequest{})
		ve, ok := apperrors.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.NoFields, ve.Kind)
	})

	t.Run("rejects blanking a required field", func(t *testing.T) {
		_, err := ValidateUpdate(UpdateCustomerRequest{FirstName: strPtr("")})
		ve, ok := apperrors.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "first_name", ve.Field)
		assert.Equal(t, apperrors.MissingField, ve.Kind)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := ValidateUpdate(UpdateCustomerRequest{Email: strPtr("nope")})
		ve, ok := apperrors.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.InvalidEmail, ve.Kind)
	})

	t.Run("only present fields are set", func(t *testing.T) {
		v, err := ValidateUpdate(UpdateCustomerRequest{FirstName: strPtr("Jane")})
		require.NoError(t, err)
		require.NotNil(t, v.FirstName)
		assert.Equal(t, "Jane", *v.FirstName)
		assert.Nil(t, v.LastName)
		assert.Nil(t, v.Email)
		assert.False(t, v.SetPhone)
		assert.False(t, v.SetAddress)
		assert.False(t, v.SetDateOfBirth)
	})

	t.Run("empty optional value clears the column", func(t *testing.T) {
		v, err := ValidateUpdate(UpdateCustomerRequest{Phone: strPtr("")})
		require.NoError(t, err)
		assert.True(t, v.SetPhone)
		assert.Nil(t, v.Phone)
	})
}
