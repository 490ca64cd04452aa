package user

import (
	"errors"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation.Errors, got %v", err)
	return verrs
}

func TestSignupRequestValidate(t *testing.T) {
	valid := SignupRequest{Email: "a@x.com", Name: "Ann", Password: "Abcdef1!"}
	require.NoError(t, valid.Validate())
	require.NoError(t, SignupRequest{Email: "b@x.com", Name: "Zoë", Password: "Äbcdéf1!"}.Validate())
	require.NoError(t, SignupRequest{Email: "c@x.com", Name: "李明", Password: "Abcdef1!"}.Validate())

	cases := []struct {
		name  string
		mut   func(r *SignupRequest)
		field string
	}{
		{"missing email", func(r *SignupRequest) { r.Email = "" }, "email"},
		{"bad email", func(r *SignupRequest) { r.Email = "not-an-email" }, "email"},
		{"short name", func(r *SignupRequest) { r.Name = "A" }, "name"},
		{"missing name", func(r *SignupRequest) { r.Name = "" }, "name"},
		{"one multibyte char name", func(r *SignupRequest) { r.Name = "é" }, "name"},
		{"short multibyte password", func(r *SignupRequest) { r.Password = "Ää1!Ää1" }, "password"},
		{"short password", func(r *SignupRequest) { r.Password = "Ab1!" }, "password"},
		{"no letter", func(r *SignupRequest) { r.Password = "12345678!" }, "password"},
		{"no digit", func(r *SignupRequest) { r.Password = "Abcdefgh!" }, "password"},
		{"no special", func(r *SignupRequest) { r.Password = "Abcdefg12" }, "password"},
		{"too long", func(r *SignupRequest) { r.Password = "Aa1!" + strings.Repeat("x", 70) }, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := valid
			tc.mut(&r)
			verrs := fieldErrors(t, r.Validate())
			assert.Contains(t, verrs, tc.field)
		})
	}
}

func TestSigninRequestValidate(t *testing.T) {
	require.NoError(t, SigninRequest{Email: "a@x.com", Password: "x"}.Validate())

	verrs := fieldErrors(t, SigninRequest{Email: "nope"}.Validate())
	assert.Contains(t, verrs, "email")
	assert.Contains(t, verrs, "password")
}
