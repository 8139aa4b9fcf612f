package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-frontend/internal/models"
)

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(models.RegisterRequest{
		Username: "ana", Email: "ana@example.com", Password: "secret",
	}))
	assert.NoError(t, Struct(models.RateRequest{Rating: 10}))
	assert.NoError(t, Struct(models.MembershipRequest{Action: models.ActionRemove}))
}

func TestStruct_FieldMessages(t *testing.T) {
	err := Struct(models.RegisterRequest{Username: "", Email: "nope", Password: "x"})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["username"])
	assert.Equal(t, "must be a valid email address", verr.Fields["email"])
	assert.NotContains(t, verr.Fields, "password")
}

func TestStruct_Ranges(t *testing.T) {
	var verr *Error

	require.ErrorAs(t, Struct(models.RateRequest{Rating: 11}), &verr)
	assert.Equal(t, "must be <= 10", verr.Fields["rating"])

	require.ErrorAs(t, Struct(models.MembershipRequest{Action: "toggle"}), &verr)
	assert.Equal(t, "must be one of: add remove", verr.Fields["action"])

	require.ErrorAs(t, Struct(models.ChangePasswordRequest{CurrentPassword: "a", NewPassword: "short"}), &verr)
	assert.Equal(t, "must be at least 8 characters", verr.Fields["new_password"])
}

func TestError_SortsFields(t *testing.T) {
	err := &Error{Fields: map[string]string{
		"username": "is required",
		"email":    "must be a valid email address",
		"password": "is required",
	}}
	for range 5 {
		assert.Equal(t,
			"validation failed: email must be a valid email address; password is required; username is required",
			err.Error())
	}
}
