package catalog

import "math/big"

// Service is a priced, discountable catalog entry. Entries are keyed by
// (provider, id) where the id is chosen by the provider; re-adding an id
// silently overwrites the previous entry within that provider's namespace.
type Service struct {
	Name     string
	Price    *big.Int
	Discount uint32
	Active   bool
}

// EnsureDefaults replaces nil numeric fields with zero values.
func (s *Service) EnsureDefaults() {
	if s.Price == nil {
		s.Price = big.NewInt(0)
	}
}

// DiscountedPrice applies the percentage discount with truncating integer
// arithmetic: price - price*discount/100.
func (s *Service) DiscountedPrice() *big.Int {
	if s == nil || s.Price == nil || s.Price.Sign() <= 0 {
		return big.NewInt(0)
	}
	rebate := new(big.Int).Mul(s.Price, new(big.Int).SetUint64(uint64(s.Discount)))
	rebate.Quo(rebate, big.NewInt(100))
	return new(big.Int).Sub(s.Price, rebate)
}
