package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserTableName(t *testing.T) {
	user := User{}
	assert.Equal(t, "users", user.TableName(), "Table name should be 'users'")
}

func TestUserImplementsAccount(t *testing.T) {
	var account Account = &User{
		ID:           "u-1",
		Email:        "test@example.com",
		PasswordHash: "hash",
		Role:         RoleUser,
		Status:       StatusActive,
		IsCompleted:  true,
	}

	assert.Equal(t, "u-1", account.GetID())
	assert.Equal(t, "test@example.com", account.GetEmail())
	assert.Equal(t, RoleUser, account.GetRole())
	assert.Equal(t, StatusActive, account.GetStatus())
	assert.Equal(t, "hash", account.GetPasswordHash())
	assert.True(t, account.ProfileCompleted())
	assert.Equal(t, VariantUser, account.Variant())
}

func TestUserBeforeCreateAssignsID(t *testing.T) {
	user := &User{Email: "new@example.com"}
	assert.NoError(t, user.BeforeCreate(nil))
	assert.Len(t, user.ID, 36, "ID should be a UUID")

	existing := &User{ID: "fixed"}
	assert.NoError(t, existing.BeforeCreate(nil))
	assert.Equal(t, "fixed", existing.ID, "existing ID should be kept")
}

func TestProviderHasCompleteProfile(t *testing.T) {
	id := "loc"
	complete := Provider{
		Names: "Ana", Surnames: "Diaz", Handle: "anad", Phone: "3001234567",
		Address: "Calle 1", CountryID: &id, RegionID: &id, CityID: &id,
	}
	assert.True(t, complete.HasCompleteProfile())

	missingCity := complete
	missingCity.CityID = nil
	assert.False(t, missingCity.HasCompleteProfile())

	missingPhone := complete
	missingPhone.Phone = ""
	assert.False(t, missingPhone.HasCompleteProfile())
}
