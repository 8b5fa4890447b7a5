package controllers

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	handlePattern     = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,20}$`)
	personNamePattern = regexp.MustCompile(`^[\p{L}\s'.-]+$`)

	registerOnce sync.Once
)

const passwordSpecials = "!@#$%^&*"

// RegisterValidators adds the custom binding tags used by request structs:
// password, handle and personname
func RegisterValidators() {
	registerOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("password", validatePassword)
		_ = engine.RegisterValidation("handle", validateHandle)
		_ = engine.RegisterValidation("personname", validatePersonName)
	})
}

// validatePassword requires 8-15 characters with upper and lower case, a digit and one of !@#$%^&*
func validatePassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword reports whether password satisfies the password rules
func IsStrongPassword(password string) bool {
	if len(password) < 8 || len(password) > 15 {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func validateHandle(fl validator.FieldLevel) bool {
	return handlePattern.MatchString(fl.Field().String())
}

func validatePersonName(fl validator.FieldLevel) bool {
	return personNamePattern.MatchString(fl.Field().String())
}
