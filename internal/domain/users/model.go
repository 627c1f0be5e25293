package users

import "time"

const RoleAdmin = "admin"

// User is an account allowed to edit works. Only admins exist today.
type User struct {
	ID       uint    `gorm:"primaryKey"`
	Name     string  `json:"name"`
	Email    string  `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Password *string `json:"-"`
	Role     string  `gorm:"not null;default:'admin'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
