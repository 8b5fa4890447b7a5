package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already normalized", "ana@x.com", "ana@x.com"},
		{"upper case", "ANA@X.com", "ana@x.com"},
		{"surrounding whitespace", "  ana@x.com\t", "ana@x.com"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEmail(tt.input))
		})
	}
}

func TestVariantDefaults(t *testing.T) {
	assert.Equal(t, RoleUser, VariantUser.DefaultRole())
	assert.Equal(t, StatusActive, VariantUser.DefaultStatus())
	assert.Equal(t, RoleProvider, VariantProvider.DefaultRole())
	assert.Equal(t, StatusPending, VariantProvider.DefaultStatus())
	assert.False(t, Variant("admin").Valid())
}

func TestRoleAndStatusValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("root").Valid())
	assert.True(t, StatusDeleted.Valid())
	assert.False(t, Status("inactive").Valid())
}

func TestOrderTransitions(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to accepted", OrderPending, OrderAccepted, true},
		{"pending to cancelled", OrderPending, OrderCancelled, true},
		{"pending to completed", OrderPending, OrderCompleted, false},
		{"accepted to completed", OrderAccepted, OrderCompleted, true},
		{"completed is terminal", OrderCompleted, OrderCancelled, false},
		{"cancelled is terminal", OrderCancelled, OrderAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := ServiceOrder{Status: tt.from}
			assert.Equal(t, tt.want, order.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderIsParticipant(t *testing.T) {
	order := ServiceOrder{UserID: "u-1", ProviderID: "p-1"}
	assert.True(t, order.IsParticipant("u-1"))
	assert.True(t, order.IsParticipant("p-1"))
	assert.False(t, order.IsParticipant("other"))
	assert.False(t, order.IsParticipant(""))
}
