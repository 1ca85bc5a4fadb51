package services

import (
	"fmt"
	"strings"
)

// DispatchedBin is the slice of a bin the rollup cares about.
type DispatchedBin struct {
	DriverID   *uint
	DriverName string
	NetWeight  float64
}

type DriverShare struct {
	DriverID   *uint
	DriverName string
	NetWeight  float64
	Percentage float64
}

type Rollup struct {
	TotalNet float64
	Shares   []DriverShare
}

// ComputeRollup sums net weights of dispatched bins and computes the
// per-driver percentage breakdown. Grouping is by driver identity, not
// display name, so two drivers sharing a name stay separate. Bins without
// a driver fall into an "unassigned" bucket. Share order is the order in
// which each driver first appears in bins.
func ComputeRollup(bins []DispatchedBin) Rollup {
	var rollup Rollup
	index := make(map[uint]int)
	unassigned := -1

	for _, bin := range bins {
		rollup.TotalNet += bin.NetWeight

		if bin.DriverID == nil {
			if unassigned < 0 {
				unassigned = len(rollup.Shares)
				rollup.Shares = append(rollup.Shares, DriverShare{DriverName: "unassigned"})
			}
			rollup.Shares[unassigned].NetWeight += bin.NetWeight
			continue
		}

		i, ok := index[*bin.DriverID]
		if !ok {
			i = len(rollup.Shares)
			index[*bin.DriverID] = i
			rollup.Shares = append(rollup.Shares, DriverShare{
				DriverID:   bin.DriverID,
				DriverName: bin.DriverName,
			})
		}
		rollup.Shares[i].NetWeight += bin.NetWeight
	}

	for i := range rollup.Shares {
		if rollup.TotalNet != 0 {
			rollup.Shares[i].Percentage = 100 * rollup.Shares[i].NetWeight / rollup.TotalNet
		}
	}

	return rollup
}

// DriversInfo renders the breakdown as "Name: 70.0%, Other: 30.0%" for
// the purchase ledger's choferes_info column.
func (r Rollup) DriversInfo() string {
	parts := make([]string, 0, len(r.Shares))
	for _, s := range r.Shares {
		parts = append(parts, fmt.Sprintf("%s: %.1f%%", s.DriverName, s.Percentage))
	}
	return strings.Join(parts, ", ")
}
