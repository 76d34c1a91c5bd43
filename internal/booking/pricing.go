package booking

import (
	"github.com/pinehollow/lodge-booking-backend/internal/settings"
)

// PriceBreakdown itemizes the price of a stay. All amounts are integer
// currency units; CabinPrice covers the whole stay (rate * nights).
type PriceBreakdown struct {
	NightlyRate     int64 `json:"nightly_rate"`
	CabinPrice      int64 `json:"cabin_price"`
	BreakfastPrice  int64 `json:"breakfast_price"`
	PetFee          int64 `json:"pet_fee"`
	ParkingFee      int64 `json:"parking_fee"`
	EarlyCheckInFee int64 `json:"early_check_in_fee"`
	LateCheckOutFee int64 `json:"late_check_out_fee"`
	ExtrasPrice     int64 `json:"extras_price"`
	TotalPrice      int64 `json:"total_price"`
	DepositAmount   int64 `json:"deposit_amount"`
	RemainingAmount int64 `json:"remaining_amount"`
}

// Quote itemizes the price of a stay at the given nightly rate under the
// given policy. It is pure: no store access, no side effects, and it never
// fails — a non-positive nights count or a missing policy yields an all-zero
// breakdown.
func Quote(nightlyRate int64, nights, numGuests int, extras ExtrasSelection, policy *settings.Settings) PriceBreakdown {
	if nights <= 0 || policy == nil {
		return PriceBreakdown{}
	}

	pb := PriceBreakdown{
		NightlyRate: nightlyRate,
		CabinPrice:  nightlyRate * int64(nights),
	}

	if extras.Breakfast {
		pb.BreakfastPrice = policy.BreakfastPrice * int64(numGuests) * int64(nights)
	}
	if extras.Pets && policy.AllowPets {
		pb.PetFee = policy.PetFee * int64(nights)
	}
	if extras.Parking && !policy.ParkingIncluded {
		pb.ParkingFee = policy.ParkingFee * int64(nights)
	}
	// Early check-in and late check-out are flat fees, not scaled by
	// nights or guests.
	if extras.EarlyCheckIn {
		pb.EarlyCheckInFee = policy.EarlyCheckInFee
	}
	if extras.LateCheckOut {
		pb.LateCheckOutFee = policy.LateCheckOutFee
	}

	pb.ExtrasPrice = pb.BreakfastPrice + pb.PetFee + pb.ParkingFee + pb.EarlyCheckInFee + pb.LateCheckOutFee
	pb.TotalPrice = pb.CabinPrice + pb.ExtrasPrice

	if policy.RequireDeposit {
		pb.DepositAmount = roundPercent(pb.TotalPrice, int64(policy.DepositPercentage))
	}
	pb.RemainingAmount = pb.TotalPrice - pb.DepositAmount

	return pb
}

// roundPercent computes amount*pct/100 rounded half-up to the nearest
// integer currency unit.
func roundPercent(amount, pct int64) int64 {
	return (amount*pct + 50) / 100
}
