package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User validation errors. All wrap ErrValidation so callers can match the
// whole class with errors.Is.
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrNameTooShort        = fmt.Errorf("%w: name must be at least 2 characters", ErrValidation)
	ErrNameTooLong         = fmt.Errorf("%w: name must be at most 50 characters", ErrValidation)
	ErrEmptyHashedPassword = fmt.Errorf("%w: hashed password cannot be empty", ErrValidation)
)

// Name length bounds enforced at registration and profile update.
const (
	MinNameLength = 2
	MaxNameLength = 50
)

// User represents a registered user of the application.
// HashedPassword is never serialized; API responses expose only the
// identity projection (id, email, name, timestamps).
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser creates a new User with the given email, display name, and
// already-hashed password. It generates the ID and timestamps.
// Returns an error if validation fails.
func NewUser(email, name, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Email:          email,
		Name:           name,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks that the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	if err := ValidateName(u.Name); err != nil {
		return err
	}
	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}
	return nil
}

// ValidateName checks a display name against the length bounds.
func ValidateName(name string) error {
	if len(name) < MinNameLength {
		return ErrNameTooShort
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// Projection returns a copy of the user with the credential hash cleared.
// Used wherever a user is resolved for presentation or identity purposes.
func (u *User) Projection() *User {
	p := *u
	p.HashedPassword = ""
	return &p
}

// validEmailFormat performs basic structural validation of an email address.
// Request-level validation uses the validator library's email rule; this is
// a last line of defense for users constructed outside the API boundary.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domainPart := email[at+1:]
	dot := strings.Index(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}
