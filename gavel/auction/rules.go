package auction

import (
	"github.com/shopspring/decimal"
)

// Bidding rules shared by the state machine, the constraint evaluator and
// the autonomous bidding strategy. Amounts are in crores.
var (
	// Below the threshold bids move in small steps, at or above it in
	// larger ones.
	incrementThreshold = decimal.NewFromInt(5)
	incrementSmall     = decimal.RequireFromString("0.2")
	incrementLarge     = decimal.RequireFromString("0.5")

	// MinNominationFloor is the lowest legal opening price regardless of a
	// player's base price.
	MinNominationFloor = decimal.RequireFromString("0.2")

	// SlotReserve is the minimum purse a team must be able to keep per
	// unfilled mandatory slot.
	SlotReserve = decimal.RequireFromString("0.2")

	nominationCeilingMultiplier = decimal.RequireFromString("1.5")
)

// MinIncrement returns the smallest legal raise over the given high bid.
func MinIncrement(highBid decimal.Decimal) decimal.Decimal {
	if highBid.Cmp(incrementThreshold) < 0 {
		return incrementSmall
	}
	return incrementLarge
}

// MinNextBid returns the lowest acceptable next bid over the given high bid.
func MinNextBid(highBid decimal.Decimal) decimal.Decimal {
	return highBid.Add(MinIncrement(highBid))
}

// NominationFloor returns the lowest legal starting price for a player.
func NominationFloor(basePrice decimal.Decimal) decimal.Decimal {
	if basePrice.Cmp(MinNominationFloor) > 0 {
		return basePrice
	}
	return MinNominationFloor
}

// NominationCeiling returns the highest starting price the autonomous
// nomination strategy will propose for a player.
func NominationCeiling(basePrice decimal.Decimal) decimal.Decimal {
	return basePrice.Mul(nominationCeilingMultiplier)
}

// Reserve returns the purse floor a team must retain to fill n more slots.
func Reserve(n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return SlotReserve.Mul(decimal.NewFromInt(int64(n)))
}
