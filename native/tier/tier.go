package tier

import (
	"math/big"

	"campusledger/core/types"
)

// Tier classifies a student by cumulative marketplace spend. The zero value
// is Bronze so freshly registered students need no explicit initialisation.
type Tier uint8

const (
	Bronze Tier = iota
	Silver
	Gold
)

// String returns the canonical lowercase label used in events and RPC
// responses.
func (t Tier) String() string {
	switch t {
	case Silver:
		return "silver"
	case Gold:
		return "gold"
	default:
		return "bronze"
	}
}

// Spend thresholds are policy constants expressed in whole coins and scaled
// once here; they are not caller-supplied.
const (
	silverThresholdCoins = 2500
	goldThresholdCoins   = 5000
)

var (
	silverThreshold = types.ToScaled(big.NewInt(silverThresholdCoins))
	goldThreshold   = types.ToScaled(big.NewInt(goldThresholdCoins))
)

// TierFor maps cumulative spend to a tier. Boundaries are inclusive on the
// upper tier: exactly 2500 coins is Silver, exactly 5000 coins is Gold.
func TierFor(totalSpent *big.Int) Tier {
	if totalSpent == nil {
		return Bronze
	}
	if totalSpent.Cmp(goldThreshold) >= 0 {
		return Gold
	}
	if totalSpent.Cmp(silverThreshold) >= 0 {
		return Silver
	}
	return Bronze
}

// MultiplierFor returns the airdrop multiplier for a tier, expressed in
// tenths: Bronze 10 (1.0x), Silver 20 (2.0x), Gold 30 (3.0x).
func MultiplierFor(t Tier) uint32 {
	switch t {
	case Silver:
		return 20
	case Gold:
		return 30
	default:
		return 10
	}
}

// MultiplierDenominator converts a MultiplierFor value back to a factor.
const MultiplierDenominator = 10

// ScaleByMultiplier applies the tier multiplier to a base amount using
// truncating integer arithmetic.
func ScaleByMultiplier(base *big.Int, t Tier) *big.Int {
	if base == nil {
		return big.NewInt(0)
	}
	scaled := new(big.Int).Mul(base, new(big.Int).SetUint64(uint64(MultiplierFor(t))))
	return scaled.Quo(scaled, big.NewInt(MultiplierDenominator))
}
