package models

// UserRole represents the available roles for access control.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEmployee UserRole = "employee"
)

// DefaultDepartment is assigned to self-registered accounts.
const DefaultDepartment = "General"

// Valid returns true when the role is a supported value.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// User is the persisted identity record. The password hash is stored but never
// returned to clients; see PublicUser.
type User struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"password"`
	Role         UserRole `json:"role"`
	Department   string   `json:"department"`
}

// RecordID implements the collection record contract.
func (u User) RecordID() int { return u.ID }

// Public strips credentials from the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
	}
}

// PublicUser is the client facing view of a user.
type PublicUser struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       UserRole `json:"role"`
	Department string   `json:"department"`
}

// CreateUserRequest is the admin payload for adding a user.
type CreateUserRequest struct {
	Name       string   `json:"name" binding:"required" validate:"required,max=100"`
	Email      string   `json:"email" binding:"required" validate:"required,email"`
	Password   string   `json:"password" binding:"required" validate:"required,max=72"`
	Role       UserRole `json:"role" binding:"required" validate:"required,oneof=admin employee"`
	Department string   `json:"department" validate:"max=100"`
}

// UpdateUserRequest replaces a user's profile fields. The password is not
// changed through this payload.
type UpdateUserRequest struct {
	Name       string   `json:"name" binding:"required" validate:"required,max=100"`
	Email      string   `json:"email" binding:"required" validate:"required,email"`
	Role       UserRole `json:"role" binding:"required" validate:"required,oneof=admin employee"`
	Department string   `json:"department" validate:"max=100"`
}
