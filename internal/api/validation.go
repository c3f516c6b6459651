package api

import (
	"alcyxob/gym-membership/internal/domain"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags to gin's validator. Safe to call
// more than once. Panics if a tag cannot be registered, since every request
// binding that uses it would fail.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := registerActivity(v); err != nil {
			panic(fmt.Sprintf("register activity validator: %v", err))
		}
	})
}

// registerActivity adds the "activity" tag, which accepts any spelling ParseActivityKind understands.
func registerActivity(v *validator.Validate) error {
	return v.RegisterValidation("activity", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseActivityKind(fl.Field().String())
		return err == nil
	})
}

// bindingMessage turns validator errors into a short client-facing message.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Validation error: " + err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "activity":
			parts = append(parts, fmt.Sprintf("%s must be one of strength, intermittent, other", fe.Field()))
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		}
	}
	return "Validation error: " + strings.Join(parts, "; ")
}

const dateOnly = "2006-01-02"

// parseInstant accepts RFC 3339 timestamps or plain dates. Plain dates are midnight in loc.
func parseInstant(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(dateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither an RFC 3339 timestamp nor a YYYY-MM-DD date", s)
	}
	return t.UTC(), nil
}
