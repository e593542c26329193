package model

import "time"

// Role names stored in users.role and embedded in JWT claims.
const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

// User represents a gym member or admin as stored in the `users`
// table.  Handlers define separate response types with JSON tags; this
// struct is used internally by the repository layer.  The CreatedAt
// day-of-month doubles as the billing anchor when the user subscribes.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (MEMBER or ADMIN).
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
