// Package validation evaluates the declarative constraints carried on request
// structs and turns failures into a field-keyed error map.
//
// Constraints use go-playground/validator tags. Two custom tags are registered:
//
//	store_code  exactly five digits
//	phone       optional leading +, then 7 to 15 digits (spaces and dashes ignored)
//
// A field may carry a `msg` tag; when present it replaces the default message
// for every failure on that field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FormKey holds errors that do not belong to a single field.
const FormKey = "form"

const (
	MsgStoreCode = "Store code must be exactly 5 digits"
	MsgPhone     = "Invalid phone number"
)

var (
	storeCodePattern = regexp.MustCompile(`^\d{5}$`)
	phonePattern     = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	phoneStrip       = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			switch name {
			case "-":
				return ""
			case "":
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("store_code", func(fl validator.FieldLevel) bool {
			return storeCodePattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(phoneStrip.Replace(fl.Field().String()))
		})
	})
	return validate
}

// Errors maps a JSON field path (e.g. "contacts[0].phone") to a message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has an error.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Validate checks s. Schema failures come back as Errors; anything else the
// validator reports (e.g. s is not a struct) is returned unchanged.
func Validate(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return translate(s, fieldErrs)
	}
	return err
}

// SafeValidate checks s and never fails: it returns nil when s is valid and a
// field-keyed map otherwise. Non-schema problems are reported under FormKey.
func SafeValidate(s any) Errors {
	err := Validate(s)
	if err == nil {
		return nil
	}
	var errs Errors
	if errors.As(err, &errs) {
		return errs
	}
	return Errors{FormKey: err.Error()}
}

func translate(s any, fieldErrs validator.ValidationErrors) Errors {
	root := reflect.TypeOf(s)
	out := Errors{}
	for _, fe := range fieldErrs {
		key := fe.Namespace()
		if i := strings.IndexByte(key, '.'); i >= 0 {
			key = key[i+1:]
		}
		msg := customMessage(root, fe.StructNamespace())
		if msg == "" {
			msg = defaultMessage(fe)
		}
		out.Add(key, msg)
	}
	return out
}

// customMessage walks the struct namespace down to the failing field and
// returns its msg tag.
func customMessage(root reflect.Type, structNS string) string {
	parts := strings.Split(structNS, ".")
	if len(parts) < 2 {
		return ""
	}
	typ := root
	var field reflect.StructField
	for _, part := range parts[1:] {
		name, indexed := part, false
		if i := strings.IndexByte(part, '['); i >= 0 {
			name, indexed = part[:i], true
		}
		for typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}
		if typ.Kind() != reflect.Struct {
			return ""
		}
		sf, ok := typ.FieldByName(name)
		if !ok {
			return ""
		}
		field, typ = sf, sf.Type
		if indexed {
			for typ.Kind() == reflect.Ptr {
				typ = typ.Elem()
			}
			switch typ.Kind() {
			case reflect.Slice, reflect.Array, reflect.Map:
				typ = typ.Elem()
			}
		}
	}
	return field.Tag.Get("msg")
}

func defaultMessage(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "Invalid email address"
	case "url":
		return label + " must be a valid URL"
	case "uuid", "uuid4":
		return label + " must be a valid id"
	case "store_code":
		return MsgStoreCode
	case "phone":
		return MsgPhone
	}
	return label + " is invalid"
}

// humanize turns "area_name" into "Area name".
func humanize(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	field = strings.ReplaceAll(field, "_", " ")
	if field == "" {
		return "Value"
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
