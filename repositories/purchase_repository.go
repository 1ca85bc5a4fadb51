package repositories

import (
	"patio-app/models"
	"patio-app/types"

	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

type ListPurchasesFilter struct {
	PricingStatus string
	WeekNumber    int
	CustomerID    uint
}

type ListPurchase struct {
	ID            types.SnowflakeID `json:"id"`
	TicketID      types.SnowflakeID `json:"ticket_id"`
	CustomerID    uint              `json:"customer_id"`
	CustomerName  string            `json:"customer_name"`
	FruitType     string            `json:"fruit_type"`
	OriginType    string            `json:"origin_type"`
	WeekNumber    int               `json:"numero_semana"`
	Kilos         float64           `json:"numero_kilos"`
	DriversInfo   string            `json:"choferes_info"`
	PricePerKilo  *float64          `json:"precio_por_kilo"`
	TotalAmount   *float64          `json:"monto_total"`
	PricingStatus string            `json:"pricing_status"`
}

func (r *PurchaseRepository) ListPurchases(filter ListPurchasesFilter) ([]ListPurchase, error) {
	sql := `SELECT a.id, a.ticket_id, a.customer_id, c.customer_name,
		a.fruit_type, a.origin_type, a.numero_semana AS week_number,
		a.numero_kilos AS kilos, a.choferes_info AS drivers_info,
		a.precio_por_kilo AS price_per_kilo, a.monto_total AS total_amount,
		a.pricing_status
	FROM purchases a
	LEFT JOIN customers c ON a.customer_id = c.id
	WHERE a.deleted_at IS NULL`

	var args []interface{}
	if filter.PricingStatus != "" {
		sql += " AND a.pricing_status = ?"
		args = append(args, filter.PricingStatus)
	}
	if filter.WeekNumber != 0 {
		sql += " AND a.numero_semana = ?"
		args = append(args, filter.WeekNumber)
	}
	if filter.CustomerID != 0 {
		sql += " AND a.customer_id = ?"
		args = append(args, filter.CustomerID)
	}
	sql += " ORDER BY a.created_at DESC"

	var result []ListPurchase
	if err := r.db.Raw(sql, args...).Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PurchaseRepository) GetPurchase(id int64) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

// SetPricing completes the pricing fields left null at finalize time.
func (r *PurchaseRepository) SetPricing(id int64, pricePerKilo float64, userID int) (*models.Purchase, error) {
	var purchase models.Purchase

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&purchase, "id = ?", id).Error; err != nil {
			return err
		}
		if pricePerKilo <= 0 {
			return &ValidationError{Fields: []string{"price_per_kilo must be greater than zero"}}
		}

		total := pricePerKilo * purchase.Kilos
		err := tx.Model(&purchase).Updates(map[string]interface{}{
			"precio_por_kilo": pricePerKilo,
			"monto_total":     total,
			"pricing_status":  models.PricingStatusPriced,
			"updated_by":      userID,
		}).Error
		if err != nil {
			return err
		}
		purchase.PricePerKilo = &pricePerKilo
		purchase.TotalAmount = &total
		purchase.PricingStatus = models.PricingStatusPriced
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}
