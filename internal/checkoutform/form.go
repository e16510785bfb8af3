package checkoutform

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Customer captures the buyer identity fields of the checkout form.
type Customer struct {
	FirstName string `json:"first_name" validate:"required,min=2,notblank"`
	LastName  string `json:"last_name" validate:"required,min=2,notblank"`
	Email     string `json:"email" validate:"required,email"`
}

// Address is one address group of the checkout form. The same shape serves
// both the shipping and the billing variant.
type Address struct {
	StreetNo     string `json:"street_no" validate:"required,notblank"`
	Street       string `json:"street" validate:"required,min=2,notblank"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" validate:"required,min=2,notblank"`
	Country      string `json:"country" validate:"required,min=2,notblank"`
	ZipCode      string `json:"zip_code" validate:"required,min=2,notblank"`
}

// Card captures the payment-method fields. The card itself is never part of
// the purchase payload; it only gates submission.
type Card struct {
	Type            string `json:"card_type" validate:"required"`
	NameOnCard      string `json:"name_on_card" validate:"required,min=3,notblank"`
	Number          string `json:"card_number" validate:"required,min=16,notblank"`
	SecurityCode    string `json:"security_code" validate:"required,min=3,notblank"`
	ExpirationMonth int    `json:"expiration_month" validate:"min=0,max=12"`
	ExpirationYear  int    `json:"expiration_year"`
}

// Values is the nested value snapshot of every form group.
type Values struct {
	Customer Customer `json:"customer"`
	Shipping Address  `json:"shipping_address"`
	Billing  Address  `json:"billing_address"`
	Card     Card     `json:"credit_card"`
}

// Form is the checkout form model: grouped values, per-field touched state,
// and the billing-section visibility toggle.
type Form struct {
	values             Values
	touched            map[string]bool
	showBillingSection bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	return v
}

// notBlank rejects values that are non-empty but contain only whitespace.
func notBlank(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return strings.TrimSpace(value) != ""
}

// New builds a blank form with the billing section visible.
func New() *Form {
	return &Form{
		touched:            map[string]bool{},
		showBillingSection: true,
	}
}

// SetValues replaces every group with the entered values.
func (f *Form) SetValues(values Values) {
	f.values = values
}

// Values returns a copy of the current form values.
func (f *Form) Values() Values {
	return f.values
}

// Validate reports whether the form is valid, along with per-field messages
// keyed by group-qualified field name.
func (f *Form) Validate() (bool, map[string]string) {
	fields := map[string]string{}
	collect := func(group string, err error) {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			fields[group] = err.Error()
			return
		}
		for _, fieldErr := range errs {
			fields[group+"."+fieldErr.Field()] = validationMessage(fieldErr)
		}
	}

	if err := validate.Struct(f.values.Customer); err != nil {
		collect("customer", err)
	}
	if err := validate.Struct(f.values.Shipping); err != nil {
		collect("shipping_address", err)
	}
	if err := validate.Struct(f.values.Billing); err != nil {
		collect("billing_address", err)
	}
	if err := validate.Struct(f.values.Card); err != nil {
		collect("credit_card", err)
	}

	// Billing requires a full postal code even where shipping accepts a
	// short one.
	if zip := strings.TrimSpace(f.values.Billing.ZipCode); zip != "" && len(zip) < 4 {
		if _, present := fields["billing_address.zip_code"]; !present {
			fields["billing_address.zip_code"] = "must be at least 4"
		}
	}

	return len(fields) == 0, fields
}

// MarkAllTouched flags every field so validation messages render.
func (f *Form) MarkAllTouched() {
	for _, field := range fieldNames() {
		f.touched[field] = true
	}
}

// MarkTouched flags one field.
func (f *Form) MarkTouched(field string) {
	f.touched[field] = true
}

// Touched reports whether the field has been visited.
func (f *Form) Touched(field string) bool {
	return f.touched[field]
}

// SetBillingSameAsShipping copies the current shipping values into the
// billing group by value and hides the billing section. The copy is a
// one-time snapshot: later shipping edits do not propagate. Disabling the
// toggle clears the billing group and shows the section again.
func (f *Form) SetBillingSameAsShipping(enabled bool) {
	if enabled {
		f.values.Billing = f.values.Shipping
		f.showBillingSection = false
		return
	}
	f.values.Billing = Address{}
	f.showBillingSection = true
}

// ShowBillingSection reports whether the billing inputs should render.
func (f *Form) ShowBillingSection() bool {
	return f.showBillingSection
}

// Reset returns the form to its blank state after a completed order.
func (f *Form) Reset() {
	f.values = Values{}
	f.touched = map[string]bool{}
	f.showBillingSection = true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email"
	case "notblank":
		return "must not be only whitespace"
	}
	return "is invalid"
}

func fieldNames() []string {
	return []string{
		"customer.first_name", "customer.last_name", "customer.email",
		"shipping_address.street_no", "shipping_address.street", "shipping_address.address_line2",
		"shipping_address.city", "shipping_address.country", "shipping_address.zip_code",
		"billing_address.street_no", "billing_address.street", "billing_address.address_line2",
		"billing_address.city", "billing_address.country", "billing_address.zip_code",
		"credit_card.card_type", "credit_card.name_on_card", "credit_card.card_number",
		"credit_card.security_code", "credit_card.expiration_month", "credit_card.expiration_year",
	}
}
