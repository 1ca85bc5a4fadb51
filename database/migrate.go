package database

import (
	"log"

	"patio-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Driver{},
		&models.ReceptionTicket{},
		&models.ReceptionBin{},
		&models.DispatchEvent{},
		&models.Purchase{},
	)
	if err != nil {
		return err
	}

	// AutoMigrate cannot express a partial unique index. Color tags must be
	// unique across the pending set only; finalized tickets release the tag.
	switch db.Dialector.Name() {
	case "postgres", "sqlite":
		err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_pending_color_tag
			ON reception_tickets (color_tag)
			WHERE state = 'pending' AND deleted_at IS NULL`).Error
		if err != nil {
			return err
		}
	default:
		// mysql/mssql have no partial index here; the in-transaction tag
		// re-check in the repository remains the only guard.
		log.Printf("Warning: partial unique index on pending color tags not supported by driver %s", db.Dialector.Name())
	}

	return nil
}
