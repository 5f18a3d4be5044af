package registry

import (
	"math/big"

	"campusledger/native/tier"
)

// Student tracks the marketplace lifecycle of a registered student. Records
// are never deleted; deactivation clears the Active flag and preserves the
// spend history so a re-registration resumes the earned tier.
type Student struct {
	Active     bool
	TotalSpent *big.Int
	Tier       tier.Tier
}

// EnsureDefaults replaces nil numeric fields with zero values.
func (s *Student) EnsureDefaults() {
	if s.TotalSpent == nil {
		s.TotalSpent = big.NewInt(0)
	}
}

// Provider is the wholesale record written by admin registration. Rating
// aggregates only grow, and only through the reputation ledger.
type Provider struct {
	Name        string
	Category    string
	Active      bool
	TotalRating *big.Int
	RatingCount uint64
}

// EnsureDefaults replaces nil numeric fields with zero values.
func (p *Provider) EnsureDefaults() {
	if p.TotalRating == nil {
		p.TotalRating = big.NewInt(0)
	}
}
