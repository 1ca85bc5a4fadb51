package models

import (
	"patio-app/controllers/idgen"
	"patio-app/types"

	"gorm.io/gorm"
)

// Purchase is the accounting record emitted when a reception ticket is
// finalized. Pricing fields stay null until an administrator completes
// them, which flips PricingStatus to priced.
type Purchase struct {
	gorm.Model
	ID            types.SnowflakeID `json:"id" gorm:"primaryKey"`
	TicketID      types.SnowflakeID `json:"ticket_id" gorm:"uniqueIndex"`
	CustomerID    uint              `json:"customer_id"`
	FruitType     string            `json:"fruit_type"`
	OriginType    string            `json:"origin_type"`
	WeekNumber    int               `json:"numero_semana" gorm:"column:numero_semana"`
	Kilos         float64           `json:"numero_kilos" gorm:"column:numero_kilos"`
	DriversInfo   string            `json:"choferes_info" gorm:"column:choferes_info"`
	PricePerKilo  *float64          `json:"precio_por_kilo" gorm:"column:precio_por_kilo"`
	TotalAmount   *float64          `json:"monto_total" gorm:"column:monto_total"`
	PricingStatus string            `json:"pricing_status" gorm:"default:'pending'"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == 0 {
		p.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

const (
	PricingStatusPending = "pending"
	PricingStatusPriced  = "priced"
)
