package validation

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var (
	registerOnce sync.Once
	registerErr  error
)

// Register adds the hookr tags to gin's binding validator. Safe to call more than once.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		registerErr = RegisterOn(v)
	})
	return registerErr
}

func RegisterOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"weekday":    weekday,
		"media_type": oneOf("image", "video"),
		"tier":       oneOf("monthly", "quarterly", "yearly"),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func weekday(fl validator.FieldLevel) bool {
	return IsWeekday(fl.Field().String())
}

func IsWeekday(s string) bool {
	for _, d := range Weekdays {
		if strings.EqualFold(d, s) {
			return true
		}
	}
	return false
}

// NormalizeWeekday returns the canonical capitalised day name.
func NormalizeWeekday(s string) string {
	for _, d := range Weekdays {
		if strings.EqualFold(d, s) {
			return d
		}
	}
	return s
}

func oneOf(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

const MaxTags = 10

// NormalizeTags lowercases and trims tags, dropping blanks and duplicates while keeping order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
