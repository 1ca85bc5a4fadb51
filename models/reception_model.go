package models

import (
	"time"

	"patio-app/controllers/idgen"
	"patio-app/types"

	"gorm.io/gorm"
)

// ReceptionTicket ("tarjeta") is one truck/lot visit to the yard. While
// pending it holds a reserved color tag; finalizing releases the tag and
// emits a Purchase.
type ReceptionTicket struct {
	gorm.Model
	ID              types.SnowflakeID `json:"id" gorm:"primaryKey"`
	CustomerID      uint              `json:"customer_id"`
	InboundDriverID *uint             `json:"inbound_driver_id"`
	IsRejection     bool              `json:"is_rejection" gorm:"default:false"`
	ColorTag        string            `json:"color_tag"`
	FruitType       string            `json:"fruit_type"`
	OriginType      string            `json:"origin_type"`
	Notes           string            `json:"notes" gorm:"size:500"`
	State           string            `json:"state" gorm:"default:'pending'"`
	FinalizedAt     *time.Time        `json:"finalized_at"`
	CreatedBy       int
	UpdatedBy       int
	DeletedBy       int

	// Relations
	Bins []ReceptionBin `gorm:"foreignKey:TicketID;references:ID;constraint:OnDelete:CASCADE" json:"bins"`
}

func (t *ReceptionTicket) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == 0 {
		t.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

// ReceptionBin ("par") is one weigh event belonging to a ticket. The tare
// is captured at creation and never changes; net is always gross minus
// that original tare.
type ReceptionBin struct {
	gorm.Model
	TicketID         types.SnowflakeID `json:"ticket_id" gorm:"index"`
	PairNo           int               `json:"pair_no"`
	GrossWeight      float64           `json:"gross_weight"`
	TareApplied      float64           `json:"tare_applied"`
	NetWeight        float64           `json:"net_weight"`
	State            string            `json:"state" gorm:"default:'in_yard'"`
	OutboundDriverID *uint             `json:"outbound_driver_id"`
	DispatchedAt     *time.Time        `json:"dispatched_at"`
	CreatedBy        int
	UpdatedBy        int
	DeletedBy        int
}

// DispatchEvent is the append-only audit trail of bin dispatches and
// reversals. Rows are never updated or deleted.
type DispatchEvent struct {
	ID               uint              `json:"id" gorm:"primaryKey"`
	TicketID         types.SnowflakeID `json:"ticket_id" gorm:"index"`
	BinID            uint              `json:"bin_id" gorm:"index"`
	EventType        string            `json:"event_type"`
	OutboundDriverID *uint             `json:"outbound_driver_id"`
	CreatedBy        int               `json:"created_by"`
	CreatedAt        time.Time         `json:"created_at"`
}

const (
	TicketStatePending   = "pending"
	TicketStateFinalized = "finalized"

	BinStateInYard     = "in_yard"
	BinStateDispatched = "dispatched"

	EventDispatched = "dispatched"
	EventReverted   = "reverted"

	FruitTypeIQF   = "IQF"
	FruitTypeJuice = "Juice"

	OriginTypeField = "field"
	OriginTypePlant = "plant"
)

// ColorPalette is the fixed set of 12 physical tags handed to truck
// drivers. Order matters: SuggestTag picks the first free entry.
var ColorPalette = []string{
	"bg-red-600",
	"bg-orange-500",
	"bg-amber-500",
	"bg-yellow-400",
	"bg-lime-500",
	"bg-green-600",
	"bg-teal-500",
	"bg-cyan-500",
	"bg-blue-600",
	"bg-indigo-500",
	"bg-purple-600",
	"bg-pink-500",
}

func IsValidColorTag(tag string) bool {
	for _, t := range ColorPalette {
		if t == tag {
			return true
		}
	}
	return false
}

func IsValidFruitType(v string) bool {
	return v == FruitTypeIQF || v == FruitTypeJuice
}

func IsValidOriginType(v string) bool {
	return v == OriginTypeField || v == OriginTypePlant
}
