package model

// Roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account allowed to log in. Username is the key.
type User struct {
	Username string `gorm:"type:varchar(100);primaryKey" json:"username"`
	Password string `gorm:"type:varchar(255);not null" json:"-"` // salt_hex:hash_hex, never serialized
	Role     string `gorm:"type:varchar(20);not null" json:"role"`
	Base
}

func (u *User) RecordKey() string { return u.Username }
