package tier

import (
	"encoding/hex"

	"campusledger/core/types"
)

// TypeTierChanged is emitted when a student's cumulative spend crosses a
// tier threshold.
const TypeTierChanged = "tier.changed"

// NewChangedEvent builds the notification for a tier transition.
func NewChangedEvent(student [20]byte, from, to Tier) *types.Event {
	return &types.Event{Type: TypeTierChanged, Attributes: map[string]string{
		"student": hex.EncodeToString(student[:]),
		"from":    from.String(),
		"to":      to.String(),
	}}
}
