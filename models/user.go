// models/user.go
package models

import "gorm.io/gorm"

// User — аккаунт репетитора для входа в систему.
type User struct {
	gorm.Model
	Email          string `json:"email" gorm:"uniqueIndex;not null"`
	HashedPassword string `json:"-" gorm:"not null"`
	FullName       string `json:"full_name"`
	IsActive       *bool  `json:"is_active" gorm:"default:true"`
}
