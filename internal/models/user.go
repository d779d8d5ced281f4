package models

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	Model
	Username string `gorm:"not null;unique" json:"username"`
	Email    string `json:"email"`
	Password string `gorm:"not null" json:"-"`
}

// Prepare normalizes user input before validation.
func (u *User) Prepare() {
	u.Username = strings.TrimSpace(u.Username)
}

func (u *User) Validate() error {
	if len(u.Username) == 0 {
		return errors.New("username is required")
	}
	if len(u.Password) == 0 {
		return errors.New("password is required")
	}
	return nil
}

func Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
