package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type UserType string

const (
	UserTypeStudent    UserType = "student"
	UserTypeInstructor UserType = "instructor"
	UserTypeAdmin      UserType = "admin"
)

// User is a synthetic test identity that orders and subscriptions are
// attributed to. One well-known row (DefaultUsername) is reused across
// categorized writes to keep the table from growing unbounded.
type User struct {
	ID          int64     `json:"id" db:"id"`
	Username    string    `json:"username" db:"username"`
	Email       string    `json:"email" db:"email"`
	Password    string    `json:"-" db:"password"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Affiliation string    `json:"affiliation,omitempty" db:"affiliation"`
	UserType    UserType  `json:"user_type" db:"user_type"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// DefaultUsername keys the reusable singleton test user.
const DefaultUsername = "qa_default_user"

func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
