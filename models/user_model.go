package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username  string `json:"username" gorm:"unique"`
	Password  string `json:"-"`
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"unique"`
	Role      string `json:"role" gorm:"default:'operator'"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)
