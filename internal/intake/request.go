package intake

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Accident zones accepted by the decision service.
const (
	ZoneNone  = "none"
	ZoneFront = "front"
	ZoneRear  = "rear"
	ZoneSide  = "side"
)

// Vehicle types accepted by the decision service.
const (
	TypeCombustion = "combustion"
	TypeEV         = "ev"
	TypeHybrid     = "hybrid"
)

// MinTimeBudget is the smallest time budget, in minutes, a plan can be requested for.
const MinTimeBudget = 10

// Request is the intake payload posted to the decision service. Field order is
// the form order and determines which invalid field is reported first.
type Request struct {
	Brand        string `json:"brand" validate:"required"`
	Year         int    `json:"year" validate:"required,min=1980,notfuture"`
	Odometer     int    `json:"odometer" validate:"required,min=5"`
	VehicleType  string `json:"vehicle_type" validate:"required,oneof=combustion ev hybrid"`
	AccidentZone string `json:"accident_zone" validate:"required,oneof=none front rear side"`
	GradeOfRust  int    `json:"grade_of_rust" validate:"min=0,max=5"`
	Severity     int    `json:"severity_of_accident" validate:"min=0,max=5"`
	IsFlooded    bool   `json:"is_flooded"`
	TimeBudget   int    `json:"timebudget" validate:"required,min=10"`
}

// FieldError describes one invalid intake field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field in form order.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "invalid intake"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid intake: " + strings.Join(parts, "; ")
}

// First returns the field that should receive focus.
func (e *ValidationError) First() FieldError {
	if e == nil || len(e.Fields) == 0 {
		return FieldError{}
	}
	return e.Fields[0]
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
	now          = time.Now
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
			return fl.Field().Int() <= int64(now().Year())
		})
		validate = v
	})
	return validate
}

// Normalize trims free text, lower-cases enumerations and zeroes the accident
// severity when no accident zone was reported. It returns a new value.
func (r Request) Normalize() Request {
	r.Brand = strings.TrimSpace(r.Brand)
	r.VehicleType = strings.ToLower(strings.TrimSpace(r.VehicleType))
	r.AccidentZone = strings.ToLower(strings.TrimSpace(r.AccidentZone))
	if r.AccidentZone == ZoneNone {
		r.Severity = 0
	}
	return r
}

// Validate checks the request and returns a *ValidationError describing every
// failing field.
func (r Request) Validate() error {
	err := validatorInstance().Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate intake: %w", err)
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: describe(fe),
		})
	}
	return out
}

// Prepare normalizes and validates the request in one step.
func Prepare(r Request) (Request, error) {
	n := r.Normalize()
	if err := n.Validate(); err != nil {
		return Request{}, err
	}
	return n, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "brand" {
			return "choose a brand"
		}
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "notfuture":
		return fmt.Sprintf("must not be later than %d", now().Year())
	default:
		return "is invalid"
	}
}
