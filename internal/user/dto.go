package user

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
)

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

var (
	hasLetter  = regexp.MustCompile(`[A-Za-z]`)
	hasDigit   = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[!@#$%^&*]`)
)

// SignupRequest request body for signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Name, validation.Required, validation.RuneLength(2, 0)),
		validation.Field(&r.Password,
			validation.Required,
			validation.RuneLength(8, 0),
			validation.By(maxBytes(maxPasswordBytes)),
			validation.Match(hasLetter).Error("must contain at least 1 letter"),
			validation.Match(hasDigit).Error("must contain at least 1 number"),
			validation.Match(hasSpecial).Error("must contain at least 1 special character (!@#$%^&*)"),
		),
	)
}

// SigninRequest login payload.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SigninRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// SignupResponse wraps the created user.
type SignupResponse struct {
	User *entity.Profile `json:"user"`
}

// SigninResult is returned by a successful sign-in.
type SigninResult struct {
	Token string          `json:"token"`
	User  *entity.Profile `json:"user"`
}

// ProfileResponse is the body of GET /auth/users/{id}.
type ProfileResponse struct {
	User    *entity.Profile `json:"user"`
	Message string          `json:"message"`
}

func maxBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > n {
			return fmt.Errorf("must be at most %d bytes long", n)
		}
		return nil
	}
}
