package repositories_test

import (
	"errors"
	"testing"

	"patio-app/models"
	"patio-app/repositories"

	"gorm.io/gorm"
)

func TestAddBinComputesNetAndPairNo(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	binRepo := repositories.NewBinRepository(db)
	customer := createCustomer(t, db, "C001")

	ticket, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	first, err := binRepo.AddBin(int64(ticket.ID), 620.5, 95.5, 1)
	if err != nil {
		t.Fatalf("add bin: %v", err)
	}
	if first.PairNo != 1 {
		t.Errorf("PairNo = %d, want 1", first.PairNo)
	}
	if first.NetWeight != 525 {
		t.Errorf("NetWeight = %v, want 525", first.NetWeight)
	}
	if first.State != models.BinStateInYard {
		t.Errorf("State = %q, want in_yard", first.State)
	}

	second, err := binRepo.AddBin(int64(ticket.ID), 600, 95.5, 1)
	if err != nil {
		t.Fatalf("add second bin: %v", err)
	}
	if second.PairNo != 2 {
		t.Errorf("second PairNo = %d, want 2", second.PairNo)
	}

	_, err = binRepo.AddBin(int64(ticket.ID), 0, 95.5, 1)
	var verr *repositories.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("zero gross: got %v, want ValidationError", err)
	}
}

func TestAddBinAllowsNegativeNet(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	binRepo := repositories.NewBinRepository(db)
	customer := createCustomer(t, db, "C001")

	ticket, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	bin, err := binRepo.AddBin(int64(ticket.ID), 50, 95, 1)
	if err != nil {
		t.Fatalf("add bin: %v", err)
	}
	if bin.NetWeight != -45 {
		t.Errorf("NetWeight = %v, want -45", bin.NetWeight)
	}
}

func TestEditBinKeepsOriginalTare(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	binRepo := repositories.NewBinRepository(db)
	customer := createCustomer(t, db, "C001")

	ticket, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	bin, err := binRepo.AddBin(int64(ticket.ID), 500, 100, 1)
	if err != nil {
		t.Fatalf("add bin: %v", err)
	}

	edited, err := binRepo.EditBin(bin.ID, 550, nil, 1)
	if err != nil {
		t.Fatalf("edit bin: %v", err)
	}

	var got models.ReceptionBin
	if err := db.First(&got, edited.ID).Error; err != nil {
		t.Fatalf("reload bin: %v", err)
	}
	if got.TareApplied != 100 {
		t.Errorf("TareApplied = %v, want original 100", got.TareApplied)
	}
	if got.NetWeight != 450 {
		t.Errorf("NetWeight = %v, want 450 (new gross minus original tare)", got.NetWeight)
	}
}

func TestEditBinDriverOnlyWhenDispatched(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	binRepo := repositories.NewBinRepository(db)
	customer := createCustomer(t, db, "C001")
	driver := createDriver(t, db, "D001", models.DriverTypeInternal)

	ticket, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	bin, err := binRepo.AddBin(int64(ticket.ID), 500, 100, 1)
	if err != nil {
		t.Fatalf("add bin: %v", err)
	}

	_, err = binRepo.EditBin(bin.ID, 500, &driver.ID, 1)
	var verr *repositories.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("driver on in-yard bin: got %v, want ValidationError", err)
	}

	if err := binRepo.DispatchBins([]uint{bin.ID}, driver.ID, 1); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	other := createDriver(t, db, "D002", models.DriverTypeInternal)
	edited, err := binRepo.EditBin(bin.ID, 500, &other.ID, 1)
	if err != nil {
		t.Fatalf("reassign driver on dispatched bin: %v", err)
	}

	var got models.ReceptionBin
	if err := db.First(&got, edited.ID).Error; err != nil {
		t.Fatalf("reload bin: %v", err)
	}
	if got.OutboundDriverID == nil || *got.OutboundDriverID != other.ID {
		t.Errorf("OutboundDriverID = %v, want %d", got.OutboundDriverID, other.ID)
	}
}

func TestDeleteBinRenumbersPairs(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	binRepo := repositories.NewBinRepository(db)
	customer := createCustomer(t, db, "C001")

	ticket, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	var bins []*models.ReceptionBin
	for i := 0; i < 3; i++ {
		bin, err := binRepo.AddBin(int64(ticket.ID), 500, 100, 1)
		if err != nil {
			t.Fatalf("add bin %d: %v", i+1, err)
		}
		bins = append(bins, bin)
	}

	if err := binRepo.DeleteBin(bins[1].ID, 1); err != nil {
		t.Fatalf("delete middle bin: %v", err)
	}

	remaining, err := binRepo.GetBinsByTicket(int64(ticket.ID))
	if err != nil {
		t.Fatalf("GetBinsByTicket: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("got %d bins, want 2", len(remaining))
	}
	if remaining[0].PairNo != 1 || remaining[1].PairNo != 2 {
		t.Errorf("pair numbers = %d,%d, want contiguous 1,2", remaining[0].PairNo, remaining[1].PairNo)
	}
	if remaining[0].ID != bins[0].ID || remaining[1].ID != bins[2].ID {
		t.Errorf("relative order of surviving bins changed")
	}

	next, err := binRepo.AddBin(int64(ticket.ID), 500, 100, 1)
	if err != nil {
		t.Fatalf("add after delete: %v", err)
	}
	if next.PairNo != 3 {
		t.Errorf("new PairNo = %d, want 3", next.PairNo)
	}
}

func TestDispatchGuards(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	binRepo := repositories.NewBinRepository(db)
	customer := createCustomer(t, db, "C001")
	internal := createDriver(t, db, "D001", models.DriverTypeInternal)
	external := createDriver(t, db, "D900", models.DriverTypeExternal)

	ticket, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	bin, err := binRepo.AddBin(int64(ticket.ID), 500, 100, 1)
	if err != nil {
		t.Fatalf("add bin: %v", err)
	}

	err = binRepo.DispatchBins(nil, internal.ID, 1)
	var verr *repositories.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("empty batch: got %v, want ValidationError", err)
	}

	err = binRepo.DispatchBins([]uint{bin.ID}, external.ID, 1)
	if !errors.Is(err, repositories.ErrDriverNotEligible) {
		t.Fatalf("external driver: got %v, want ErrDriverNotEligible", err)
	}

	err = binRepo.DispatchBins([]uint{bin.ID, 9999}, internal.ID, 1)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("unknown bin in batch: got %v, want ErrRecordNotFound", err)
	}

	if err := binRepo.DispatchBins([]uint{bin.ID}, internal.ID, 1); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	err = binRepo.DispatchBins([]uint{bin.ID}, internal.ID, 1)
	if !errors.Is(err, repositories.ErrBinNotDispatchable) {
		t.Fatalf("dispatch twice: got %v, want ErrBinNotDispatchable", err)
	}

	if err := binRepo.DeleteBin(bin.ID, 1); !errors.Is(err, repositories.ErrBinNotDeletable) {
		t.Fatalf("delete dispatched bin: got %v, want ErrBinNotDeletable", err)
	}
}

func TestRevertDispatchAndEventTrail(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	binRepo := repositories.NewBinRepository(db)
	customer := createCustomer(t, db, "C001")
	driver := createDriver(t, db, "D001", models.DriverTypeInternal)

	ticket, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	bin, err := binRepo.AddBin(int64(ticket.ID), 500, 100, 1)
	if err != nil {
		t.Fatalf("add bin: %v", err)
	}

	_, err = binRepo.RevertDispatch(bin.ID, 1)
	if !errors.Is(err, repositories.ErrBinNotRevertible) {
		t.Fatalf("revert in-yard bin: got %v, want ErrBinNotRevertible", err)
	}

	if err := binRepo.DispatchBins([]uint{bin.ID}, driver.ID, 1); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	reverted, err := binRepo.RevertDispatch(bin.ID, 1)
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if reverted.State != models.BinStateInYard || reverted.OutboundDriverID != nil || reverted.DispatchedAt != nil {
		t.Errorf("revert left bin = %q driver=%v dispatched_at=%v, want clean in_yard", reverted.State, reverted.OutboundDriverID, reverted.DispatchedAt)
	}

	events, err := binRepo.ListDispatchEvents(int64(ticket.ID))
	if err != nil {
		t.Fatalf("ListDispatchEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].EventType != models.EventDispatched || events[1].EventType != models.EventReverted {
		t.Errorf("event types = %q,%q, want dispatched,reverted", events[0].EventType, events[1].EventType)
	}
	// The revert event keeps the driver the bin was taken away from.
	if events[1].OutboundDriverID == nil || *events[1].OutboundDriverID != driver.ID {
		t.Errorf("revert event driver = %v, want %d", events[1].OutboundDriverID, driver.ID)
	}

	// Back in yard, the bin can be dispatched again.
	if err := binRepo.DispatchBins([]uint{bin.ID}, driver.ID, 1); err != nil {
		t.Fatalf("re-dispatch: %v", err)
	}
}

func TestSetPricing(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewReceptionRepository(db)
	binRepo := repositories.NewBinRepository(db)
	purchaseRepo := repositories.NewPurchaseRepository(db)
	customer := createCustomer(t, db, "C001")
	driver := createDriver(t, db, "D001", models.DriverTypeInternal)

	ticket, err := repo.CreateTicket(ticketInput(customer.ID), 1)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	bin, err := binRepo.AddBin(int64(ticket.ID), 600, 100, 1)
	if err != nil {
		t.Fatalf("add bin: %v", err)
	}
	if err := binRepo.DispatchBins([]uint{bin.ID}, driver.ID, 1); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	purchase, err := repo.FinalizeTicket(int64(ticket.ID), false, 1)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	_, err = purchaseRepo.SetPricing(int64(purchase.ID), -1, 2)
	var verr *repositories.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("negative price: got %v, want ValidationError", err)
	}

	priced, err := purchaseRepo.SetPricing(int64(purchase.ID), 0.5, 2)
	if err != nil {
		t.Fatalf("SetPricing: %v", err)
	}
	if priced.PricePerKilo == nil || *priced.PricePerKilo != 0.5 {
		t.Errorf("PricePerKilo = %v, want 0.5", priced.PricePerKilo)
	}
	if priced.TotalAmount == nil || *priced.TotalAmount != 250 {
		t.Errorf("TotalAmount = %v, want 250", priced.TotalAmount)
	}
	if priced.PricingStatus != models.PricingStatusPriced {
		t.Errorf("PricingStatus = %q, want priced", priced.PricingStatus)
	}
}
