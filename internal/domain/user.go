package domain

import "strings"

// User is a row of the users table. The password hash never leaves the server.
type User struct {
	UserID       int64  `json:"userId" gorm:"column:userId;primaryKey;autoIncrement"`
	Name         string `json:"name" gorm:"column:name;not null"`
	Lastname     string `json:"lastname" gorm:"column:lastName;not null"`
	Email        string `json:"email" gorm:"column:email;uniqueIndex;size:191;not null"`
	PasswordHash string `json:"-" gorm:"column:password;not null"`
}

func (User) TableName() string {
	return "users"
}

// Subject identifies the holder of a session token.
type Subject struct {
	Email  string `json:"email"`
	UserID int64  `json:"userId"`
}

// NewUser carries the fields accepted when a user is created.
type NewUser struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims surrounding whitespace from every field except the password.
func (u NewUser) Normalize() NewUser {
	return NewUser{
		Name:     strings.TrimSpace(u.Name),
		Lastname: strings.TrimSpace(u.Lastname),
		Email:    strings.TrimSpace(u.Email),
		Password: u.Password,
	}
}

// Validate reports ErrValidation when a required field is blank.
func (u NewUser) Validate() error {
	n := u.Normalize()
	if n.Name == "" || n.Lastname == "" || n.Email == "" || strings.TrimSpace(n.Password) == "" {
		return ErrMissingUserFields
	}
	return nil
}
