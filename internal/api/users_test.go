package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := registerRequest{Email: "user@example.com", Password: "secret", Name: "Alice"}
	assert.NoError(t, valid.validate())

	badEmail := valid
	badEmail.Email = "not-an-email"
	assert.EqualError(t, badEmail.validate(), "Email should be in format user@example.com.")

	shortPassword := valid
	shortPassword.Password = "ab"
	assert.EqualError(t, shortPassword.validate(), "Password should be minimum 3 characters.")

	shortName := valid
	shortName.Name = "Al"
	assert.EqualError(t, shortName.validate(), "Name should be minimum 3 characters.")
}

func TestLoginRequestValidate(t *testing.T) {
	valid := loginRequest{Email: "user@example.com", Password: "secret"}
	assert.NoError(t, valid.validate())

	badEmail := valid
	badEmail.Email = "@@"
	assert.EqualError(t, badEmail.validate(), "Email should be in format user@example.com.")

	shortPassword := valid
	shortPassword.Password = "x"
	assert.EqualError(t, shortPassword.validate(), "Password should be minimum 3 characters.")
}
