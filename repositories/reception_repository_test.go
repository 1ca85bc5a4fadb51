package repositories_test

import (
	"errors"
	"fmt"
	"testing"

	"patio-app/database"
	"patio-app/models"
	"patio-app/repositories"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createCustomer(t *testing.T, db *gorm.DB, code string) *models.Customer {
	t.Helper()

	customer := models.Customer{CustomerCode: code, CustomerName: "Finca " + code, IsActive: true}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return &customer
}

func createDriver(t *testing.T, db *gorm.DB, code, driverType string) *models.Driver {
	t.Helper()

	driver := models.Driver{DriverCode: code, DriverName: "Chofer " + code, DriverType: driverType, IsActive: true}
	if err := db.Create(&driver).Error; err != nil {
		t.Fatalf("create driver: %v", err)
	}
	return &driver
}

func ticketInput(customerID uint) *repositories.TicketInput {
	return &repositories.TicketInput{
		CustomerID: customerID,
		ColorTag:   models.ColorPalette[0],
		FruitType:  models.FruitTypeIQF,
		OriginType: models.OriginTypeField,
	}
}

func TestSuggestTag(t *testing.T) {
	tag, err := repositories.SuggestTag(nil)
	if err != nil {
		t.Fatalf("SuggestTag(nil): %v", err)
	}
	if tag != models.ColorPalette[0] {
		t.Errorf("suggested %q, want first palette entry %q", tag, models.ColorPalette[0])
	}

	tag, err = repositories.SuggestTag([]string{models.ColorPalette[0], models.ColorPalette[1]})
	if err != nil {
		t.Fatalf("SuggestTag: %v", err)
	}
	if tag != models.ColorPalette[2] {
		t.Errorf("suggested %q, want %q", tag, models.ColorPalette[2])
	}

	_, err = repositories.SuggestTag(models.ColorPalette)
	if !errors.Is(err, repositories.ErrAllTagsExhausted) {
		t.Errorf("all tags used: got %v, want ErrAllTagsExhausted", err)
	}
}

func TestCreateTicketRejectsTakenTag(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	customer := createCustomer(t, db, "C001")

	if _, err := repo.CreateTicket(ticketInput(customer.ID), 1); err != nil {
		t.Fatalf("first ticket: %v", err)
	}

	_, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if !errors.Is(err, repositories.ErrTagAlreadyTaken) {
		t.Fatalf("same tag twice: got %v, want ErrTagAlreadyTaken", err)
	}

	used, err := repo.ListUsedTags()
	if err != nil {
		t.Fatalf("ListUsedTags: %v", err)
	}
	if len(used) != 1 || used[0] != models.ColorPalette[0] {
		t.Errorf("used tags = %v, want [%s]", used, models.ColorPalette[0])
	}
}

func TestTagFreedByFinalize(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	customer := createCustomer(t, db, "C001")

	ticket, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if _, err := repo.FinalizeTicket(int64(ticket.ID), false, 1); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	// The tag went back to the pool, reusing it must work.
	if _, err := repo.CreateTicket(ticketInput(customer.ID), 1); err != nil {
		t.Fatalf("reuse tag after finalize: %v", err)
	}
}

func TestExhaustedPalette(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	customer := createCustomer(t, db, "C001")

	for _, tag := range models.ColorPalette {
		input := ticketInput(customer.ID)
		input.ColorTag = tag
		if _, err := repo.CreateTicket(input, 1); err != nil {
			t.Fatalf("create ticket with %s: %v", tag, err)
		}
	}

	used, err := repo.ListUsedTags()
	if err != nil {
		t.Fatalf("ListUsedTags: %v", err)
	}
	if _, err := repositories.SuggestTag(used); !errors.Is(err, repositories.ErrAllTagsExhausted) {
		t.Fatalf("suggest with full palette: got %v, want ErrAllTagsExhausted", err)
	}

	// A 13th ticket cannot land on any tag.
	if _, err := repo.CreateTicket(ticketInput(customer.ID), 1); !errors.Is(err, repositories.ErrTagAlreadyTaken) {
		t.Fatalf("13th ticket: got %v, want ErrTagAlreadyTaken", err)
	}
}

func TestForcedCloseWithZeroDispatched(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	binRepo := repositories.NewBinRepository(db)
	customer := createCustomer(t, db, "C001")

	ticket, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if _, err := binRepo.AddBin(int64(ticket.ID), 500, 100, 1); err != nil {
		t.Fatalf("add bin: %v", err)
	}

	_, err = repo.FinalizeTicket(int64(ticket.ID), false, 1)
	if !errors.Is(err, repositories.ErrBinsStillInYard) {
		t.Fatalf("finalize without force: got %v, want ErrBinsStillInYard", err)
	}

	purchase, err := repo.FinalizeTicket(int64(ticket.ID), true, 1)
	if err != nil {
		t.Fatalf("forced close: %v", err)
	}
	if purchase.Kilos != 0 {
		t.Errorf("Kilos = %v, want 0", purchase.Kilos)
	}
	if purchase.DriversInfo != "" {
		t.Errorf("DriversInfo = %q, want empty", purchase.DriversInfo)
	}
}

func TestCreateTicketCollectsAllViolations(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	driver := createDriver(t, db, "D001", models.DriverTypeInternal)

	input := &repositories.TicketInput{
		CustomerID:      9999,
		InboundDriverID: &driver.ID,
		IsRejection:     true,
		ColorTag:        "bg-hotpink-999",
		FruitType:       "Frozen",
		OriginType:      "ocean",
	}

	_, err := repo.CreateTicket(input, 1)
	var verr *repositories.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if len(verr.Fields) != 5 {
		t.Errorf("got %d violations %v, want all 5 reported at once", len(verr.Fields), verr.Fields)
	}
}

func TestCreateTicketRejectsExternalDriver(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	customer := createCustomer(t, db, "C001")
	driver := createDriver(t, db, "D900", models.DriverTypeExternal)

	input := ticketInput(customer.ID)
	input.InboundDriverID = &driver.ID

	_, err := repo.CreateTicket(input, 1)
	var verr *repositories.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestEditTicketGuards(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	customer := createCustomer(t, db, "C001")

	first, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	secondInput := ticketInput(customer.ID)
	secondInput.ColorTag = models.ColorPalette[1]
	second, err := repo.CreateTicket(secondInput, 1)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	// Moving the second ticket onto the first one's tag must fail.
	secondInput.ColorTag = models.ColorPalette[0]
	_, err = repo.EditTicket(int64(second.ID), secondInput, 1)
	if !errors.Is(err, repositories.ErrTagAlreadyTaken) {
		t.Fatalf("edit onto held tag: got %v, want ErrTagAlreadyTaken", err)
	}

	if _, err := repo.FinalizeTicket(int64(first.ID), false, 1); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	_, err = repo.EditTicket(int64(first.ID), ticketInput(customer.ID), 1)
	if !errors.Is(err, repositories.ErrTicketFinalized) {
		t.Fatalf("edit finalized ticket: got %v, want ErrTicketFinalized", err)
	}
}

func TestFinalizeTicketWritesPurchase(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	binRepo := repositories.NewBinRepository(db)
	customer := createCustomer(t, db, "C001")
	driver := createDriver(t, db, "D001", models.DriverTypeInternal)

	ticket, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	binA, err := binRepo.AddBin(int64(ticket.ID), 600, 100, 1)
	if err != nil {
		t.Fatalf("add bin A: %v", err)
	}
	binB, err := binRepo.AddBin(int64(ticket.ID), 700, 100, 1)
	if err != nil {
		t.Fatalf("add bin B: %v", err)
	}

	if err := binRepo.DispatchBins([]uint{binA.ID, binB.ID}, driver.ID, 1); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	purchase, err := repo.FinalizeTicket(int64(ticket.ID), false, 1)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if purchase.Kilos != 1100 {
		t.Errorf("Kilos = %v, want 1100", purchase.Kilos)
	}
	want := "Chofer D001: 100.0%"
	if purchase.DriversInfo != want {
		t.Errorf("DriversInfo = %q, want %q", purchase.DriversInfo, want)
	}
	if purchase.PricePerKilo != nil || purchase.TotalAmount != nil {
		t.Errorf("pricing fields must stay null at finalize")
	}
	if purchase.PricingStatus != "" && purchase.PricingStatus != models.PricingStatusPending {
		t.Errorf("PricingStatus = %q, want pending", purchase.PricingStatus)
	}

	var got models.ReceptionTicket
	if err := db.First(&got, "id = ?", ticket.ID).Error; err != nil {
		t.Fatalf("reload ticket: %v", err)
	}
	if got.State != models.TicketStateFinalized || got.FinalizedAt == nil {
		t.Errorf("ticket state = %q finalized_at = %v, want finalized with timestamp", got.State, got.FinalizedAt)
	}

	_, err = repo.FinalizeTicket(int64(ticket.ID), false, 1)
	if !errors.Is(err, repositories.ErrTicketFinalized) {
		t.Fatalf("finalize twice: got %v, want ErrTicketFinalized", err)
	}
}

func TestForcedCloseWithBinsInYard(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	binRepo := repositories.NewBinRepository(db)
	customer := createCustomer(t, db, "C001")
	driver := createDriver(t, db, "D001", models.DriverTypeInternal)

	ticket, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	dispatched, err := binRepo.AddBin(int64(ticket.ID), 500, 100, 1)
	if err != nil {
		t.Fatalf("add bin: %v", err)
	}
	if _, err := binRepo.AddBin(int64(ticket.ID), 480, 100, 1); err != nil {
		t.Fatalf("add bin: %v", err)
	}
	if err := binRepo.DispatchBins([]uint{dispatched.ID}, driver.ID, 1); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	_, err = repo.FinalizeTicket(int64(ticket.ID), false, 1)
	if !errors.Is(err, repositories.ErrBinsStillInYard) {
		t.Fatalf("finalize with bin in yard: got %v, want ErrBinsStillInYard", err)
	}

	purchase, err := repo.FinalizeTicket(int64(ticket.ID), true, 1)
	if err != nil {
		t.Fatalf("forced close: %v", err)
	}
	// Only dispatched weight reaches the purchase.
	if purchase.Kilos != 400 {
		t.Errorf("Kilos = %v, want 400", purchase.Kilos)
	}
}

func TestListTicketsRollsUpBinStats(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	binRepo := repositories.NewBinRepository(db)
	customer := createCustomer(t, db, "C001")
	driver := createDriver(t, db, "D001", models.DriverTypeInternal)

	ticket, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	binA, err := binRepo.AddBin(int64(ticket.ID), 300, 50, 1)
	if err != nil {
		t.Fatalf("add bin: %v", err)
	}
	if _, err := binRepo.AddBin(int64(ticket.ID), 320, 50, 1); err != nil {
		t.Fatalf("add bin: %v", err)
	}
	if err := binRepo.DispatchBins([]uint{binA.ID}, driver.ID, 1); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	list, err := repo.ListTickets(repositories.ListTicketsFilter{State: models.TicketStatePending})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d tickets, want 1", len(list))
	}
	row := list[0]
	if row.TotalBins != 2 || row.DispatchedBins != 1 || row.NetDispatched != 250 {
		t.Errorf("bin stats = %d/%d/%.0f, want 2/1/250", row.TotalBins, row.DispatchedBins, row.NetDispatched)
	}
	if row.CustomerName != customer.CustomerName {
		t.Errorf("CustomerName = %q, want %q", row.CustomerName, customer.CustomerName)
	}
}
