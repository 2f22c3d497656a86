package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactForm struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"omitempty,phone"`
}

type storeForm struct {
	StoreCode string        `json:"store_code" validate:"store_code"`
	Name      string        `json:"name" validate:"required,min=2,max=100"`
	AreaName  string        `json:"area_name" validate:"required"`
	Phone     string        `json:"phone" validate:"omitempty,phone"`
	Status    string        `json:"status" validate:"omitempty,oneof=Active Closed"`
	Contacts  []contactForm `json:"contacts" validate:"dive"`
}

type taskForm struct {
	StoreID  string `json:"store_id" validate:"required,uuid" msg:"Please select a store"`
	Priority string `json:"priority" validate:"required,oneof=high medium low"`
}

func validStore() storeForm {
	return storeForm{StoreCode: "12345", Name: "Corner Shop", AreaName: "Kabulonga", Phone: "+260 977-123456"}
}

func TestValidStorePasses(t *testing.T) {
	assert.NoError(t, Validate(validStore()))
	assert.Nil(t, SafeValidate(validStore()))
}

func TestStoreCodeAlwaysUsesSameMessage(t *testing.T) {
	for _, code := range []string{"", "1234", "123456", "12a45", " 12345", "abcde"} {
		s := validStore()
		s.StoreCode = code
		errs := SafeValidate(s)
		require.NotNil(t, errs, "code %q", code)
		assert.Equal(t, MsgStoreCode, errs["store_code"], "code %q", code)
	}
}

func TestTaskWithoutStore(t *testing.T) {
	errs := SafeValidate(taskForm{Priority: "high"})
	assert.Equal(t, Errors{"store_id": "Please select a store"}, errs)

	errs = SafeValidate(taskForm{StoreID: "not-a-uuid", Priority: "high"})
	assert.Equal(t, "Please select a store", errs["store_id"])
}

func TestDefaultMessages(t *testing.T) {
	s := validStore()
	s.Name = "A"
	s.AreaName = ""
	s.Phone = "12"
	s.Status = "Open"
	errs := SafeValidate(s)

	assert.Equal(t, "Name must be at least 2 characters", errs["name"])
	assert.Equal(t, "Area name is required", errs["area_name"])
	assert.Equal(t, MsgPhone, errs["phone"])
	assert.Equal(t, "Status must be one of: Active, Closed", errs["status"])

	errs = SafeValidate(taskForm{StoreID: "6f1c2b1e-7a43-4e55-9d4b-0b3f1a8e9c21", Priority: "urgent"})
	assert.Equal(t, "Priority must be one of: high, medium, low", errs["priority"])
}

func TestNestedFieldKeys(t *testing.T) {
	s := validStore()
	s.Contacts = []contactForm{{Name: "Ann", Phone: "0977123456"}, {Phone: "x"}}
	errs := SafeValidate(s)
	assert.Equal(t, Errors{
		"contacts[1].name":  "Name is required",
		"contacts[1].phone": MsgPhone,
	}, errs)
}

func TestValidateReturnsErrorsType(t *testing.T) {
	err := Validate(taskForm{})
	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
	assert.Contains(t, err.Error(), "store_id: Please select a store")
}

func TestNonSchemaErrorsPassThrough(t *testing.T) {
	err := Validate(42)
	var invalid *validator.InvalidValidationError
	assert.ErrorAs(t, err, &invalid)

	errs := SafeValidate(42)
	assert.Contains(t, errs, FormKey)
}
