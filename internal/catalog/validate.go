package catalog

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	v10 "github.com/go-playground/validator/v10"
)

// maxStock keeps stock exactly representable as a JSON number.
const maxStock = 1<<53 - 1

// DefaultCategories is the allowed category set used when none is configured.
var DefaultCategories = []string{
	"Видеокарты",
	"Процессоры",
	"Материнские платы",
	"Оперативная память",
	"Накопители",
	"Мониторы",
	"Ноутбуки",
	"Смартфоны",
	"Периферия",
}

// Categories is an ordered, fixed set of allowed category names.
type Categories struct {
	names []string
	set   map[string]struct{}
}

func NewCategories(names []string) *Categories {
	c := &Categories{set: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := c.set[n]; dup {
			continue
		}
		c.set[n] = struct{}{}
		c.names = append(c.names, n)
	}
	return c
}

func (c *Categories) Contains(name string) bool {
	_, ok := c.set[name]
	return ok
}

func (c *Categories) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// productInput is the wire form of POST and PATCH bodies. Pointers tell an
// absent field apart from a zero value.
type productInput struct {
	Name        *string  `json:"name" validate:"omitnil,min=1"`
	Category    *string  `json:"category" validate:"omitnil,category"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitnil,gt=0"`
	Stock       *float64 `json:"stock" validate:"omitnil,gte=0,integral"`
	Rating      *float64 `json:"rating" validate:"omitnil,gte=0,lte=5"`
	Image       *string  `json:"image"`
}

func (in *productInput) normalize() {
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		in.Name = &v
	}
	if in.Category != nil {
		v := strings.TrimSpace(*in.Category)
		in.Category = &v
	}
}

func (in productInput) missing() []string {
	var out []string
	if in.Name == nil {
		out = append(out, "name")
	}
	if in.Category == nil {
		out = append(out, "category")
	}
	if in.Description == nil {
		out = append(out, "description")
	}
	if in.Price == nil {
		out = append(out, "price")
	}
	if in.Stock == nil {
		out = append(out, "stock")
	}
	if in.Rating == nil {
		out = append(out, "rating")
	}
	if in.Image == nil {
		out = append(out, "image")
	}
	return out
}

func (in productInput) fields() Fields {
	return Fields{
		Name:        *in.Name,
		Category:    *in.Category,
		Description: *in.Description,
		Price:       *in.Price,
		Stock:       int64(*in.Stock),
		Rating:      *in.Rating,
		Image:       *in.Image,
	}
}

func (in productInput) patch() Patch {
	p := Patch{
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		Price:       in.Price,
		Rating:      in.Rating,
		Image:       in.Image,
	}
	if in.Stock != nil {
		s := int64(*in.Stock)
		p.Stock = &s
	}
	return p
}

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError is returned for request bodies that cannot be applied.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string { return e.Message }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validator checks product input against field rules and the allowed categories.
type Validator struct {
	v          *v10.Validate
	categories *Categories
}

func NewValidator(categories *Categories) *Validator {
	v := v10.New(v10.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "category", func(fl v10.FieldLevel) bool {
		return categories.Contains(fl.Field().String())
	})
	mustRegister(v, "integral", func(fl v10.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f) && math.Abs(f) <= maxStock
	})

	return &Validator{v: v, categories: categories}
}

// mustRegister panics when a validation cannot be registered.
func mustRegister(v *v10.Validate, tag string, fn v10.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("catalog: register %q validation: %v", tag, err))
	}
}

// Create validates a full product body.
func (v *Validator) Create(in productInput) (Fields, error) {
	in.normalize()

	if missing := in.missing(); len(missing) > 0 {
		fes := make([]FieldError, 0, len(missing))
		for _, f := range missing {
			fes = append(fes, FieldError{Field: f, Code: "REQUIRED", Message: f + " is required"})
		}
		return Fields{}, &ValidationError{
			Message: "missing required fields: " + strings.Join(missing, ", "),
			Fields:  fes,
		}
	}

	if err := v.check(in); err != nil {
		return Fields{}, err
	}
	return in.fields(), nil
}

// Patch validates every field present in a partial body. Any violation
// rejects the whole update.
func (v *Validator) Patch(in productInput) (Patch, error) {
	in.normalize()

	if err := v.check(in); err != nil {
		return Patch{}, err
	}
	return in.patch(), nil
}

func (v *Validator) check(in productInput) error {
	err := v.v.Struct(in)
	if err == nil {
		return nil
	}

	var ve v10.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fes := make([]FieldError, 0, len(ve))
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msg := v.message(fe)
		fes = append(fes, FieldError{
			Field:   fe.Field(),
			Code:    code(fe),
			Message: msg,
		})
		msgs = append(msgs, msg)
	}

	return &ValidationError{
		Message: "invalid product: " + strings.Join(msgs, "; "),
		Fields:  fes,
	}
}

func (v *Validator) message(fe v10.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "min":
		return field + " must not be empty"
	case "category":
		return fmt.Sprintf("category must be one of: %s", strings.Join(v.categories.Names(), ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		if field == "rating" {
			return "rating must be between 0 and 5"
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		if field == "rating" {
			return "rating must be between 0 and 5"
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "integral":
		return field + " must be an integer"
	default:
		return field + " is invalid"
	}
}

func code(fe v10.FieldError) string {
	c := "INVALID_" + strings.ToUpper(fe.Tag())
	if p := fe.Param(); p != "" {
		c += "|" + p
	}
	return c
}
