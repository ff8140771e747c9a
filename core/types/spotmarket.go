package types

// AssetTier classifies a spot asset's eligibility as cross-margin collateral
// or borrow security (spec.md §3, GLOSSARY).
type AssetTier uint8

const (
	AssetTierCollateral AssetTier = iota
	AssetTierProtected
	AssetTierCross
	AssetTierIsolated
	AssetTierUnlisted
)

// BalanceType disambiguates a SpotPosition's sign convention.
type BalanceType uint8

const (
	BalanceDeposit BalanceType = iota
	BalanceBorrow
)

// SpotMarket is a lendable asset usable as cross-margin collateral or
// liability (spec.md §3).
type SpotMarket struct {
	MarketIndex uint16
	Decimals    uint8

	CumulativeDepositInterest int64 // SpotWeightPrecision-scaled ray-like accumulator
	CumulativeBorrowInterest  int64

	DepositBalance int64 // scaled balance, see ScaledBalance semantics
	BorrowBalance  int64

	InitialAssetWeight        uint32 // SpotWeightPrecision
	MaintenanceAssetWeight    uint32
	InitialLiabilityWeight    uint32
	MaintenanceLiabilityWeight uint32

	IMFFactor uint32

	LiquidatorFeePrecisionBps uint32 // LiquidationFeePrecision-scaled

	OptimalUtilization uint32 // SpotWeightPrecision
	OptimalBorrowRate  uint32
	MaxBorrowRate      uint32

	LastInterestTS int64

	WithdrawGuardThreshold int64

	AssetTier AssetTier
}
