package model

import "gorm.io/gorm"

// User is a clinic patient account. Accounts are created at signup and
// never hard-deleted; profile updates overwrite FullName and Email.
type User struct {
	gorm.Model
	FullName     string `json:"full_name" gorm:"column:full_name"`
	Email        string `json:"email" gorm:"column:email;type:varchar(191);uniqueIndex"`
	PasswordHash string `json:"-" gorm:"column:password_hash"`
}
