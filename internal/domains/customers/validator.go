package customers

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sangkips/customer-data-service/internal/apperrors"
)

const dateLayout = "2006-01-02"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s.]+(\.[^@\s.]+)+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// The stock "email" tag accepts addresses without a dotted domain.
	_ = v.RegisterValidation("customer_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

type fieldRule struct {
	name     string
	required bool
	tags     string
}

var (
	firstNameRule   = fieldRule{name: "first_name", required: true, tags: "max=100"}
	lastNameRule    = fieldRule{name: "last_name", required: true, tags: "max=100"}
	emailRule       = fieldRule{name: "email", required: true, tags: "max=255,customer_email"}
	phoneRule       = fieldRule{name: "phone", tags: "max=20"}
	addressRule     = fieldRule{name: "address", tags: "max=500"}
	dateOfBirthRule = fieldRule{name: "date_of_birth", tags: "datetime=" + dateLayout}
)

// check trims value and applies the rule. An empty optional value is
// reported as absent through the second return.
func (f fieldRule) check(value string) (string, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		if f.required {
			return "", false, apperrors.NewValidationError(f.name, apperrors.MissingField, "field is required")
		}
		return "", false, nil
	}

	if err := validate.Var(value, f.tags); err != nil {
		return "", false, f.translate(err)
	}
	return value, true, nil
}

func (f fieldRule) translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.NewValidationError(f.name, apperrors.InvalidParameter, "invalid value")
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "max":
		return apperrors.NewValidationError(f.name, apperrors.FieldTooLong, "must be at most "+fe.Param()+" characters")
	case "customer_email":
		return apperrors.NewValidationError(f.name, apperrors.InvalidEmail, "must be a valid email address")
	case "datetime":
		return apperrors.NewValidationError(f.name, apperrors.InvalidDate, "must be a date in YYYY-MM-DD format")
	default:
		return apperrors.NewValidationError(f.name, apperrors.InvalidParameter, "invalid value")
	}
}

type ValidatedCustomer struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       *string
	Address     *string
	DateOfBirth *time.Time
}

// ValidatedPartialCustomer carries only the fields present in an update. For
// the optional columns a Set flag with a nil value clears the column.
type ValidatedPartialCustomer struct {
	FirstName *string
	LastName  *string
	Email     *string

	SetPhone bool
	Phone    *string

	SetAddress bool
	Address    *string

	SetDateOfBirth bool
	DateOfBirth    *time.Time
}

func ValidateCreate(req CreateCustomerRequest) (ValidatedCustomer, error) {
	var out ValidatedCustomer
	var err error

	if out.FirstName, _, err = firstNameRule.check(req.FirstName); err != nil {
		return ValidatedCustomer{}, err
	}
	if out.LastName, _, err = lastNameRule.check(req.LastName); err != nil {
		return ValidatedCustomer{}, err
	}
	if out.Email, _, err = emailRule.check(req.Email); err != nil {
		return ValidatedCustomer{}, err
	}
	if out.Phone, err = checkOptional(phoneRule, req.Phone); err != nil {
		return ValidatedCustomer{}, err
	}
	if out.Address, err = checkOptional(addressRule, req.Address); err != nil {
		return ValidatedCustomer{}, err
	}
	if out.DateOfBirth, err = checkDate(req.DateOfBirth); err != nil {
		return ValidatedCustomer{}, err
	}

	return out, nil
}

func ValidateUpdate(req UpdateCustomerRequest) (ValidatedPartialCustomer, error) {
	var out ValidatedPartialCustomer
	var err error

	if out.FirstName, err = checkPresentRequired(firstNameRule, req.FirstName); err != nil {
		return ValidatedPartialCustomer{}, err
	}
	if out.LastName, err = checkPresentRequired(lastNameRule, req.LastName); err != nil {
		return ValidatedPartialCustomer{}, err
	}
	if out.Email, err = checkPresentRequired(emailRule, req.Email); err != nil {
		return ValidatedPartialCustomer{}, err
	}

	if req.Phone != nil {
		out.SetPhone = true
		if out.Phone, err = checkOptional(phoneRule, req.Phone); err != nil {
			return ValidatedPartialCustomer{}, err
		}
	}
	if req.Address != nil {
		out.SetAddress = true
		if out.Address, err = checkOptional(addressRule, req.Address); err != nil {
			return ValidatedPartialCustomer{}, err
		}
	}
	if req.DateOfBirth != nil {
		out.SetDateOfBirth = true
		if out.DateOfBirth, err = checkDate(req.DateOfBirth); err != nil {
			return ValidatedPartialCustomer{}, err
		}
	}

	if out.FirstName == nil && out.LastName == nil && out.Email == nil &&
		!out.SetPhone && !out.SetAddress && !out.SetDateOfBirth {
		return ValidatedPartialCustomer{}, apperrors.NewValidationError("", apperrors.NoFields, "no fields to update")
	}

	return out, nil
}

func checkPresentRequired(rule fieldRule, value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	v, _, err := rule.check(*value)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func checkOptional(rule fieldRule, value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	v, present, err := rule.check(*value)
	if err != nil || !present {
		return nil, err
	}
	return &v, nil
}

func checkDate(value *string) (*time.Time, error) {
	v, err := checkOptional(dateOfBirthRule, value)
	if err != nil || v == nil {
		return nil, err
	}
	d, err := time.Parse(dateLayout, *v)
	if err != nil {
		return nil, apperrors.NewValidationError(dateOfBirthRule.name, apperrors.InvalidDate, "must be a date in YYYY-MM-DD format")
	}
	return &d, nil
}
