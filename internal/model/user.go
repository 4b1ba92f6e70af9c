package model

// Roles understood by the role middleware.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account allowed to book rooms. PasswordHash holds the bcrypt
// digest and is never serialized.
type User struct {
	ID           string `json:"_id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Phone        int64  `json:"phone"`
	Role         string `json:"role"`
	Active       bool   `json:"active"`
}
