package models

import "gorm.io/gorm"

// Driver covers both inbound drivers bringing fruit to the yard and
// outbound drivers hauling dispatched bins. Only internal drivers are
// eligible for the reception workflow.
type Driver struct {
	gorm.Model
	DriverCode  string `json:"driver_code" gorm:"unique"`
	DriverName  string `json:"driver_name"`
	DriverType  string `json:"driver_type" gorm:"default:'internal'"`
	DriverPhone string `json:"driver_phone"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	CreatedBy   int
	UpdatedBy   int
	DeletedBy   int
}

const (
	DriverTypeInternal = "internal"
	DriverTypeExternal = "external"
)
