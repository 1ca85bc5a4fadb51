package repositories

import (
	"time"

	"patio-app/models"
	"patio-app/services"
	"patio-app/types"
	"patio-app/utils"

	"gorm.io/gorm"
)

type ReceptionRepository struct {
	db *gorm.DB
}

func NewReceptionRepository(db *gorm.DB) *ReceptionRepository {
	return &ReceptionRepository{db: db}
}

// TicketInput is the payload for creating or editing a reception ticket.
type TicketInput struct {
	CustomerID      uint   `json:"customer_id" validate:"required"`
	InboundDriverID *uint  `json:"inbound_driver_id"`
	IsRejection     bool   `json:"is_rejection"`
	ColorTag        string `json:"color_tag" validate:"required"`
	FruitType       string `json:"fruit_type" validate:"required"`
	OriginType      string `json:"origin_type" validate:"required"`
	Notes           string `json:"notes"`
}

// ListUsedTags returns the color tags currently held by pending tickets.
// Callers query fresh every time a creation dialog opens so concurrent
// operators see each other's reservations.
func (r *ReceptionRepository) ListUsedTags() ([]string, error) {
	var tags []string
	err := r.db.Model(&models.ReceptionTicket{}).
		Where("state = ?", models.TicketStatePending).
		Pluck("color_tag", &tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// SuggestTag picks the first palette entry not in used, in fixed palette
// order. When all 12 are held it returns ErrAllTagsExhausted and the
// operator must finalize a ticket before opening a new one.
func SuggestTag(used []string) (string, error) {
	taken := make(map[string]bool, len(used))
	for _, t := range used {
		taken[t] = true
	}
	for _, t := range models.ColorPalette {
		if !taken[t] {
			return t, nil
		}
	}
	return "", ErrAllTagsExhausted
}

func (r *ReceptionRepository) validateTicket(tx *gorm.DB, input *TicketInput) []string {
	var fields []string

	if input.CustomerID == 0 {
		fields = append(fields, "customer_id is required")
	} else {
		var customer models.Customer
		if err := tx.First(&customer, input.CustomerID).Error; err != nil || !customer.IsActive {
			fields = append(fields, "customer_id must reference an active customer")
		}
	}

	if !models.IsValidColorTag(input.ColorTag) {
		fields = append(fields, "color_tag must be one of the tag palette")
	}
	if !models.IsValidFruitType(input.FruitType) {
		fields = append(fields, "fruit_type must be IQF or Juice")
	}
	if !models.IsValidOriginType(input.OriginType) {
		fields = append(fields, "origin_type must be field or plant")
	}
	if len(input.Notes) > 500 {
		fields = append(fields, "notes must be 500 characters or fewer")
	}

	if input.IsRejection && input.InboundDriverID != nil {
		fields = append(fields, "inbound_driver_id must be empty for rejections")
	} else if input.InboundDriverID != nil {
		var driver models.Driver
		err := tx.First(&driver, *input.InboundDriverID).Error
		if err != nil || driver.DriverType != models.DriverTypeInternal || !driver.IsActive {
			fields = append(fields, "inbound_driver_id must reference an active internal driver")
		}
	}

	return fields
}

func (r *ReceptionRepository) tagHeldByPendingTicket(tx *gorm.DB, tag string, excludeID types.SnowflakeID) (bool, error) {
	q := tx.Model(&models.ReceptionTicket{}).
		Where("state = ? AND color_tag = ?", models.TicketStatePending, tag)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateTicket validates the whole payload at once, re-checks the tag
// inside the transaction and creates the ticket in pending state. The
// partial unique index is the backstop for the tag race between the
// dialog check and the insert.
func (r *ReceptionRepository) CreateTicket(input *TicketInput, userID int) (*models.ReceptionTicket, error) {
	var ticket models.ReceptionTicket

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if fields := r.validateTicket(tx, input); len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}

		taken, err := r.tagHeldByPendingTicket(tx, input.ColorTag, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrTagAlreadyTaken
		}

		ticket = models.ReceptionTicket{
			CustomerID:      input.CustomerID,
			InboundDriverID: input.InboundDriverID,
			IsRejection:     input.IsRejection,
			ColorTag:        input.ColorTag,
			FruitType:       input.FruitType,
			OriginType:      input.OriginType,
			Notes:           input.Notes,
			State:           models.TicketStatePending,
			CreatedBy:       userID,
			UpdatedBy:       userID,
		}
		if input.IsRejection {
			ticket.InboundDriverID = nil
		}

		if err := tx.Create(&ticket).Error; err != nil {
			if isDuplicateTagError(err) {
				return ErrTagAlreadyTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// EditTicket changes header fields of a pending ticket. Bins are never
// touched here.
func (r *ReceptionRepository) EditTicket(id int64, input *TicketInput, userID int) (*models.ReceptionTicket, error) {
	var ticket models.ReceptionTicket

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ticket, "id = ?", id).Error; err != nil {
			return err
		}
		if ticket.State != models.TicketStatePending {
			return ErrTicketFinalized
		}

		if fields := r.validateTicket(tx, input); len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}

		if input.ColorTag != ticket.ColorTag {
			taken, err := r.tagHeldByPendingTicket(tx, input.ColorTag, ticket.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrTagAlreadyTaken
			}
		}

		driverID := input.InboundDriverID
		if input.IsRejection {
			driverID = nil
		}

		err := tx.Model(&ticket).Updates(map[string]interface{}{
			"customer_id":       input.CustomerID,
			"inbound_driver_id": driverID,
			"is_rejection":      input.IsRejection,
			"color_tag":         input.ColorTag,
			"fruit_type":        input.FruitType,
			"origin_type":       input.OriginType,
			"notes":             input.Notes,
			"updated_by":        userID,
		}).Error
		if err != nil {
			if isDuplicateTagError(err) {
				return ErrTagAlreadyTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ReceptionRepository) GetTicket(id int64) (*models.ReceptionTicket, error) {
	var ticket models.ReceptionTicket
	err := r.db.Preload("Bins", func(db *gorm.DB) *gorm.DB {
		return db.Order("pair_no ASC")
	}).First(&ticket, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

type ListTicketsFilter struct {
	State       string
	CustomerID  uint
	IsRejection *bool
	DateFrom    string
	DateTo      string
}

type ListTicket struct {
	ID                types.SnowflakeID `json:"id"`
	ColorTag          string            `json:"color_tag"`
	IsRejection       bool              `json:"is_rejection"`
	FruitType         string            `json:"fruit_type"`
	OriginType        string            `json:"origin_type"`
	State             string            `json:"state"`
	Notes             string            `json:"notes"`
	CustomerID        uint              `json:"customer_id"`
	CustomerName      string            `json:"customer_name"`
	InboundDriverName string            `json:"inbound_driver_name"`
	TotalBins         int               `json:"total_bins"`
	DispatchedBins    int               `json:"dispatched_bins"`
	NetDispatched     float64           `json:"net_dispatched"`
	CreatedAt         time.Time         `json:"created_at"`
	FinalizedAt       *time.Time        `json:"finalized_at"`
}

func (r *ReceptionRepository) ListTickets(filter ListTicketsFilter) ([]ListTicket, error) {
	sql := `WITH bin_stats AS (
		SELECT ticket_id,
			COUNT(id) AS total_bins,
			SUM(CASE WHEN state = 'dispatched' THEN 1 ELSE 0 END) AS dispatched_bins,
			SUM(CASE WHEN state = 'dispatched' THEN net_weight ELSE 0 END) AS net_dispatched
		FROM reception_bins
		WHERE deleted_at IS NULL
		GROUP BY ticket_id
	)
	SELECT a.id, a.color_tag, a.is_rejection, a.fruit_type, a.origin_type,
		a.state, a.notes, a.customer_id, a.created_at, a.finalized_at,
		c.customer_name, d.driver_name AS inbound_driver_name,
		COALESCE(b.total_bins, 0) AS total_bins,
		COALESCE(b.dispatched_bins, 0) AS dispatched_bins,
		COALESCE(b.net_dispatched, 0) AS net_dispatched
	FROM reception_tickets a
	LEFT JOIN bin_stats b ON a.id = b.ticket_id
	LEFT JOIN customers c ON a.customer_id = c.id
	LEFT JOIN drivers d ON a.inbound_driver_id = d.id
	WHERE a.deleted_at IS NULL`

	var args []interface{}
	if filter.State != "" {
		sql += " AND a.state = ?"
		args = append(args, filter.State)
	}
	if filter.CustomerID != 0 {
		sql += " AND a.customer_id = ?"
		args = append(args, filter.CustomerID)
	}
	if filter.IsRejection != nil {
		sql += " AND a.is_rejection = ?"
		args = append(args, *filter.IsRejection)
	}
	if filter.DateFrom != "" {
		sql += " AND a.created_at >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		sql += " AND a.created_at < ?"
		args = append(args, filter.DateTo)
	}
	sql += " ORDER BY a.created_at DESC"

	var result []ListTicket
	if err := r.db.Raw(sql, args...).Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FinalizeTicket closes a pending ticket, rolls up its dispatched bins
// and writes the purchase record, all inside one transaction so a crash
// can never leave a finalized ticket without its accounting row. When
// bins remain in yard the caller must pass force=true (the operator's
// forced-close confirmation).
func (r *ReceptionRepository) FinalizeTicket(id int64, force bool, userID int) (*models.Purchase, error) {
	var purchase models.Purchase

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ticket models.ReceptionTicket
		if err := tx.First(&ticket, "id = ?", id).Error; err != nil {
			return err
		}
		if ticket.State != models.TicketStatePending {
			return ErrTicketFinalized
		}

		var inYard int64
		err := tx.Model(&models.ReceptionBin{}).
			Where("ticket_id = ? AND state = ?", ticket.ID, models.BinStateInYard).
			Count(&inYard).Error
		if err != nil {
			return err
		}
		if inYard > 0 && !force {
			return ErrBinsStillInYard
		}

		var bins []models.ReceptionBin
		err = tx.Where("ticket_id = ? AND state = ?", ticket.ID, models.BinStateDispatched).
			Order("dispatched_at ASC, id ASC").
			Find(&bins).Error
		if err != nil {
			return err
		}

		names, err := driverNamesFor(tx, bins)
		if err != nil {
			return err
		}

		rollupBins := make([]services.DispatchedBin, 0, len(bins))
		for _, bin := range bins {
			entry := services.DispatchedBin{DriverID: bin.OutboundDriverID, NetWeight: bin.NetWeight}
			if bin.OutboundDriverID != nil {
				entry.DriverName = names[*bin.OutboundDriverID]
			}
			rollupBins = append(rollupBins, entry)
		}
		rollup := services.ComputeRollup(rollupBins)

		now := time.Now()
		err = tx.Model(&ticket).Updates(map[string]interface{}{
			"state":        models.TicketStateFinalized,
			"finalized_at": now,
			"updated_by":   userID,
		}).Error
		if err != nil {
			return err
		}

		purchase = models.Purchase{
			TicketID:    ticket.ID,
			CustomerID:  ticket.CustomerID,
			FruitType:   ticket.FruitType,
			OriginType:  ticket.OriginType,
			WeekNumber:  utils.WeekNumber(ticket.CreatedAt),
			Kilos:       rollup.TotalNet,
			DriversInfo: rollup.DriversInfo(),
			CreatedBy:   userID,
			UpdatedBy:   userID,
		}
		return tx.Create(&purchase).Error
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func driverNamesFor(tx *gorm.DB, bins []models.ReceptionBin) (map[uint]string, error) {
	ids := make([]uint, 0, len(bins))
	seen := make(map[uint]bool)
	for _, bin := range bins {
		if bin.OutboundDriverID != nil && !seen[*bin.OutboundDriverID] {
			seen[*bin.OutboundDriverID] = true
			ids = append(ids, *bin.OutboundDriverID)
		}
	}

	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var drivers []models.Driver
	if err := tx.Where("id IN ?", ids).Find(&drivers).Error; err != nil {
		return nil, err
	}
	for _, d := range drivers {
		names[d.ID] = d.DriverName
	}
	return names, nil
}
