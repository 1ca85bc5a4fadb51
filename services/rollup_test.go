package services_test

import (
	"testing"

	"patio-app/services"
)

func uintPtr(v uint) *uint { return &v }

func TestComputeRollupSplitsByDriver(t *testing.T) {
	bins := []services.DispatchedBin{
		{DriverID: uintPtr(1), DriverName: "Carlos", NetWeight: 100},
		{DriverID: uintPtr(2), DriverName: "Maria", NetWeight: 150},
		{DriverID: uintPtr(1), DriverName: "Carlos", NetWeight: 250},
	}

	rollup := services.ComputeRollup(bins)

	if rollup.TotalNet != 500 {
		t.Fatalf("TotalNet = %v, want 500", rollup.TotalNet)
	}
	if len(rollup.Shares) != 2 {
		t.Fatalf("got %d shares, want 2", len(rollup.Shares))
	}
	if rollup.Shares[0].DriverName != "Carlos" || rollup.Shares[0].Percentage != 70 {
		t.Errorf("first share = %s %.1f%%, want Carlos 70.0%%", rollup.Shares[0].DriverName, rollup.Shares[0].Percentage)
	}
	if rollup.Shares[1].DriverName != "Maria" || rollup.Shares[1].Percentage != 30 {
		t.Errorf("second share = %s %.1f%%, want Maria 30.0%%", rollup.Shares[1].DriverName, rollup.Shares[1].Percentage)
	}

	want := "Carlos: 70.0%, Maria: 30.0%"
	if got := rollup.DriversInfo(); got != want {
		t.Errorf("DriversInfo() = %q, want %q", got, want)
	}
}

func TestComputeRollupGroupsByIDNotName(t *testing.T) {
	bins := []services.DispatchedBin{
		{DriverID: uintPtr(1), DriverName: "Jose", NetWeight: 60},
		{DriverID: uintPtr(2), DriverName: "Jose", NetWeight: 40},
	}

	rollup := services.ComputeRollup(bins)

	if len(rollup.Shares) != 2 {
		t.Fatalf("got %d shares, want 2, homonym drivers must stay separate", len(rollup.Shares))
	}
	if rollup.Shares[0].Percentage != 60 || rollup.Shares[1].Percentage != 40 {
		t.Errorf("percentages = %.1f/%.1f, want 60.0/40.0", rollup.Shares[0].Percentage, rollup.Shares[1].Percentage)
	}
}

func TestComputeRollupUnassignedBucket(t *testing.T) {
	bins := []services.DispatchedBin{
		{DriverID: uintPtr(1), DriverName: "Carlos", NetWeight: 75},
		{DriverID: nil, NetWeight: 25},
	}

	rollup := services.ComputeRollup(bins)

	if len(rollup.Shares) != 2 {
		t.Fatalf("got %d shares, want 2", len(rollup.Shares))
	}
	if rollup.Shares[1].DriverName != "unassigned" || rollup.Shares[1].Percentage != 25 {
		t.Errorf("unassigned share = %s %.1f%%, want unassigned 25.0%%", rollup.Shares[1].DriverName, rollup.Shares[1].Percentage)
	}
}

func TestComputeRollupNoBins(t *testing.T) {
	rollup := services.ComputeRollup(nil)

	if rollup.TotalNet != 0 {
		t.Errorf("TotalNet = %v, want 0", rollup.TotalNet)
	}
	if len(rollup.Shares) != 0 {
		t.Errorf("got %d shares, want 0", len(rollup.Shares))
	}
	if got := rollup.DriversInfo(); got != "" {
		t.Errorf("DriversInfo() = %q, want empty", got)
	}
}
