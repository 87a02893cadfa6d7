package equipment

// MaxBalance is the largest magnitude a stored Balance can hold.
const MaxBalance = 65535

// Balance is a saturating 16-bit amount. Anything above MaxBalance is stored as
// MaxBalance, so magnitudes are lossy, but IsZero is always exact: a clamped
// balance is zero if and only if the amount it was taken from was zero.
type Balance uint16

func ClampBalance(amount uint64) Balance {
	if amount > MaxBalance {
		return MaxBalance
	}
	return Balance(amount)
}

func (b Balance) IsZero() bool {
	return b == 0
}

func (b Balance) Saturated() bool {
	return b == MaxBalance
}

// BalanceReader reads the live amount of an item for the player being evaluated.
type BalanceReader interface {
	Of(item ItemID) uint64
}

// Balances is one consistent read of a player's item amounts.
type Balances map[ItemID]uint64

func (b Balances) Of(item ItemID) uint64 {
	if b == nil {
		return 0
	}
	return b[item]
}

func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
