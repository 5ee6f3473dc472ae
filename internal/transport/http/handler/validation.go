package handler

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const passwordSpecials = "@$!%*?&"

var (
	phonePattern   = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	countryPattern = regexp.MustCompile(`^[A-Z]{2}$`)

	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the request rules on gin's validator engine.
// Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding engine is not a *validator.Validate")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)

		rules := map[string]validator.Func{
			"password": validPassword,
			"phone":    matches(phonePattern),
			"country":  matches(countryPattern),
			"pastdate": pastDate,
		}
		for tag, fn := range rules {
			if err := v.RegisterValidation(tag, fn); err != nil {
				registerErr = err
				return
			}
		}
	})
	return registerErr
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		name, _, _ = strings.Cut(f.Tag.Get("form"), ",")
	}
	if name == "" {
		return f.Name
	}
	return name
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// validPassword: 8-72 characters from [A-Za-z0-9@$!%*?&], with at least
// one lowercase letter, one digit and one special character. The upper
// bound is bcrypt's input limit.
const maxPasswordLen = 72

func validPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 || len(s) > maxPasswordLen {
		return false
	}
	var lower, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && digit && special
}

func pastDate(fl validator.FieldLevel) bool {
	t, err := time.Parse(dateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return t.Before(today)
}
