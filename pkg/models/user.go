package models

// Role controls which views and operations a user may reach.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCollector Role = "collector"
)

// User is an operator account. Passwords are stored and compared in plaintext;
// this system has no password hashing or session tokens. Username uniqueness
// is intended but not enforced by a constraint: lookups take the first match.
type User struct {
	ID       string `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
	Role     Role   `json:"role" db:"role"`
}

// CreateUserRequest is the request body for creating a user.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"required,oneof=admin collector"`
}

// UserUpdate is a typed field-update set for a user.
type UserUpdate struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role,omitempty" validate:"omitempty,oneof=admin collector"`
}

func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Password == nil && u.Role == nil
}

func (u UserUpdate) Apply(usr *User) {
	if u.Username != nil {
		usr.Username = *u.Username
	}
	if u.Password != nil {
		usr.Password = *u.Password
	}
	if u.Role != nil {
		usr.Role = *u.Role
	}
}

// LoginRequest is the request body for authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
