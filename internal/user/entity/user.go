package entity

import "time"

// User is the persisted account record. It never leaves the service as-is;
// outward responses are built from Profile.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Profile is the public view of a user.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is the caller resolved from a verified bearer token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ToProfile builds the public view.
func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToIdentity builds the request identity.
func (u *User) ToIdentity() *Identity {
	return &Identity{ID: u.ID, Email: u.Email, Name: u.Name}
}
