package controllers

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Secret1!", true},
		{"Abcdef9@xyz", true},
		{"Secret1", false},
		{"secret1!", false},
		{"SECRET1!", false},
		{"Secretxx!", false},
		{"Secret12", false},
		{"Sec1!", false},
		{"Secret1!Secret1!", false},
		{"Secret1?", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}

func TestRegisteredBindingTags(t *testing.T) {
	RegisterValidators()
	RegisterValidators()

	type payload struct {
		Handle string `binding:"handle"`
		Name   string `binding:"personname"`
		Pass   string `binding:"password"`
	}

	valid := payload{Handle: "maria.lopez", Name: "María José O'Neil", Pass: "Secret1!"}
	assert.NoError(t, binding.Validator.ValidateStruct(valid))

	tests := []struct {
		name    string
		payload payload
	}{
		{name: "short handle", payload: payload{Handle: "ab", Name: "Ana", Pass: "Secret1!"}},
		{name: "handle with space", payload: payload{Handle: "maria lopez", Name: "Ana", Pass: "Secret1!"}},
		{name: "long handle", payload: payload{Handle: "abcdefghijklmnopqrstu", Name: "Ana", Pass: "Secret1!"}},
		{name: "digits in name", payload: payload{Handle: "ana", Name: "Ana2", Pass: "Secret1!"}},
		{name: "weak password", payload: payload{Handle: "ana", Name: "Ana", Pass: "secret"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, binding.Validator.ValidateStruct(tt.payload))
		})
	}
}
