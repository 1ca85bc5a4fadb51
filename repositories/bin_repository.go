package repositories

import (
	"log"
	"time"

	"patio-app/models"
	"patio-app/types"

	"gorm.io/gorm"
)

type BinRepository struct {
	db *gorm.DB
}

func NewBinRepository(db *gorm.DB) *BinRepository {
	return &BinRepository{db: db}
}

// AddBin records a weigh event for a pending ticket. The tare is frozen
// at this point; a negative net is accepted but logged, the scale
// operator owns that data-quality call.
func (r *BinRepository) AddBin(ticketID int64, gross, tare float64, userID int) (*models.ReceptionBin, error) {
	var bin models.ReceptionBin

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ticket models.ReceptionTicket
		if err := tx.First(&ticket, "id = ?", ticketID).Error; err != nil {
			return err
		}
		if ticket.State != models.TicketStatePending {
			return ErrTicketFinalized
		}

		if gross <= 0 {
			return &ValidationError{Fields: []string{"gross_weight must be greater than zero"}}
		}

		var maxPairNo int
		err := tx.Model(&models.ReceptionBin{}).
			Where("ticket_id = ?", ticket.ID).
			Select("COALESCE(MAX(pair_no), 0)").
			Scan(&maxPairNo).Error
		if err != nil {
			return err
		}

		net := gross - tare
		if net < 0 {
			log.Printf("Warning: negative net weight %.2f for ticket %d (gross %.2f, tare %.2f)", net, ticketID, gross, tare)
		}

		bin = models.ReceptionBin{
			TicketID:    ticket.ID,
			PairNo:      maxPairNo + 1,
			GrossWeight: gross,
			TareApplied: tare,
			NetWeight:   net,
			State:       models.BinStateInYard,
			CreatedBy:   userID,
			UpdatedBy:   userID,
		}
		return tx.Create(&bin).Error
	})
	if err != nil {
		return nil, err
	}
	return &bin, nil
}

// EditBin updates the gross weight, recomputing net with the bin's
// ORIGINAL tare. An outbound driver change is only allowed on dispatched
// bins.
func (r *BinRepository) EditBin(binID uint, gross float64, outboundDriverID *uint, userID int) (*models.ReceptionBin, error) {
	var bin models.ReceptionBin

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bin, binID).Error; err != nil {
			return err
		}

		var ticket models.ReceptionTicket
		if err := tx.First(&ticket, "id = ?", bin.TicketID).Error; err != nil {
			return err
		}
		if ticket.State != models.TicketStatePending {
			return ErrTicketFinalized
		}

		var fields []string
		if gross <= 0 {
			fields = append(fields, "gross_weight must be greater than zero")
		}
		if outboundDriverID != nil {
			if bin.State != models.BinStateDispatched {
				fields = append(fields, "outbound_driver_id can only be set on dispatched bins")
			} else if err := checkDriverEligible(tx, *outboundDriverID); err != nil {
				fields = append(fields, "outbound_driver_id must reference an active internal driver")
			}
		}
		if len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}

		updates := map[string]interface{}{
			"gross_weight": gross,
			"net_weight":   gross - bin.TareApplied,
			"updated_by":   userID,
		}
		if outboundDriverID != nil {
			updates["outbound_driver_id"] = *outboundDriverID
		}
		return tx.Model(&bin).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &bin, nil
}

// DeleteBin removes an in-yard bin and compacts pair numbers of the
// remaining bins in one statement, so a concurrent add cannot observe a
// half-renumbered sequence.
func (r *BinRepository) DeleteBin(binID uint, userID int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var bin models.ReceptionBin
		if err := tx.First(&bin, binID).Error; err != nil {
			return err
		}

		var ticket models.ReceptionTicket
		if err := tx.First(&ticket, "id = ?", bin.TicketID).Error; err != nil {
			return err
		}
		if ticket.State != models.TicketStatePending {
			return ErrTicketFinalized
		}
		if bin.State != models.BinStateInYard {
			return ErrBinNotDeletable
		}

		bin.DeletedBy = userID
		if err := tx.Select("deleted_by").Updates(&bin).Error; err != nil {
			return err
		}
		if err := tx.Delete(&bin).Error; err != nil {
			return err
		}

		return renumberBins(tx, bin.TicketID)
	})
}

// renumberBins re-derives pair_no as the row number ordered by the old
// pair_no, keeping the sequence contiguous from 1 and preserving the
// relative order of the surviving bins.
func renumberBins(tx *gorm.DB, ticketID types.SnowflakeID) error {
	var sql string
	switch tx.Dialector.Name() {
	case "mysql":
		sql = `UPDATE reception_bins b
			JOIN (SELECT id, ROW_NUMBER() OVER (ORDER BY pair_no ASC) AS rn
				FROM reception_bins WHERE ticket_id = ? AND deleted_at IS NULL) sub
			ON b.id = sub.id
			SET b.pair_no = sub.rn`
	case "sqlserver":
		sql = `UPDATE b SET pair_no = sub.rn
			FROM reception_bins b
			JOIN (SELECT id, ROW_NUMBER() OVER (ORDER BY pair_no ASC) AS rn
				FROM reception_bins WHERE ticket_id = ? AND deleted_at IS NULL) sub
			ON b.id = sub.id`
	default: // postgres, sqlite
		sql = `UPDATE reception_bins SET pair_no = sub.rn
			FROM (SELECT id, ROW_NUMBER() OVER (ORDER BY pair_no ASC) AS rn
				FROM reception_bins WHERE ticket_id = ? AND deleted_at IS NULL) AS sub
			WHERE reception_bins.id = sub.id`
	}
	return tx.Exec(sql, int64(ticketID)).Error
}

// DispatchBins moves a batch of in-yard bins to dispatched with the
// given outbound driver, all-or-nothing, and appends one dispatch event
// per bin.
func (r *BinRepository) DispatchBins(binIDs []uint, driverID uint, userID int) error {
	if len(binIDs) == 0 {
		return &ValidationError{Fields: []string{"bin_ids must not be empty"}}
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := checkDriverEligible(tx, driverID); err != nil {
			return err
		}

		var bins []models.ReceptionBin
		if err := tx.Where("id IN ?", binIDs).Find(&bins).Error; err != nil {
			return err
		}
		if len(bins) != len(binIDs) {
			return gorm.ErrRecordNotFound
		}

		for _, bin := range bins {
			if bin.State != models.BinStateInYard {
				return ErrBinNotDispatchable
			}
		}
		if err := checkTicketsPending(tx, bins); err != nil {
			return err
		}

		now := time.Now()
		err := tx.Model(&models.ReceptionBin{}).
			Where("id IN ?", binIDs).
			Updates(map[string]interface{}{
				"state":              models.BinStateDispatched,
				"outbound_driver_id": driverID,
				"dispatched_at":      now,
				"updated_by":         userID,
			}).Error
		if err != nil {
			return err
		}

		driver := driverID
		for _, bin := range bins {
			event := models.DispatchEvent{
				TicketID:         bin.TicketID,
				BinID:            bin.ID,
				EventType:        models.EventDispatched,
				OutboundDriverID: &driver,
				CreatedBy:        userID,
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RevertDispatch puts a dispatched bin back in the yard, clearing the
// driver and timestamp, and appends a reverted event carrying the driver
// it was taken from.
func (r *BinRepository) RevertDispatch(binID uint, userID int) (*models.ReceptionBin, error) {
	var bin models.ReceptionBin

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bin, binID).Error; err != nil {
			return err
		}

		var ticket models.ReceptionTicket
		if err := tx.First(&ticket, "id = ?", bin.TicketID).Error; err != nil {
			return err
		}
		if ticket.State != models.TicketStatePending {
			return ErrTicketFinalized
		}
		if bin.State != models.BinStateDispatched {
			return ErrBinNotRevertible
		}

		previousDriver := bin.OutboundDriverID

		err := tx.Model(&bin).Updates(map[string]interface{}{
			"state":              models.BinStateInYard,
			"outbound_driver_id": nil,
			"dispatched_at":      nil,
			"updated_by":         userID,
		}).Error
		if err != nil {
			return err
		}
		bin.State = models.BinStateInYard
		bin.OutboundDriverID = nil
		bin.DispatchedAt = nil

		event := models.DispatchEvent{
			TicketID:         bin.TicketID,
			BinID:            bin.ID,
			EventType:        models.EventReverted,
			OutboundDriverID: previousDriver,
			CreatedBy:        userID,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}
	return &bin, nil
}

func (r *BinRepository) GetBinsByTicket(ticketID int64) ([]models.ReceptionBin, error) {
	var bins []models.ReceptionBin
	err := r.db.Where("ticket_id = ?", ticketID).Order("pair_no ASC").Find(&bins).Error
	if err != nil {
		return nil, err
	}
	return bins, nil
}

func (r *BinRepository) ListDispatchEvents(ticketID int64) ([]models.DispatchEvent, error) {
	var events []models.DispatchEvent
	err := r.db.Where("ticket_id = ?", ticketID).Order("created_at ASC, id ASC").Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func checkDriverEligible(tx *gorm.DB, driverID uint) error {
	var driver models.Driver
	if err := tx.First(&driver, driverID).Error; err != nil {
		return ErrDriverNotEligible
	}
	if driver.DriverType != models.DriverTypeInternal || !driver.IsActive {
		return ErrDriverNotEligible
	}
	return nil
}

func checkTicketsPending(tx *gorm.DB, bins []models.ReceptionBin) error {
	seen := make(map[types.SnowflakeID]bool)
	for _, bin := range bins {
		if seen[bin.TicketID] {
			continue
		}
		seen[bin.TicketID] = true

		var ticket models.ReceptionTicket
		if err := tx.First(&ticket, "id = ?", bin.TicketID).Error; err != nil {
			return err
		}
		if ticket.State != models.TicketStatePending {
			return ErrTicketFinalized
		}
	}
	return nil
}
