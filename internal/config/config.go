// Package config loads the engine's runtime tunables: per-tier oracle and
// funding guard rails, liquidation throttle parameters, and funding cadence
// (spec.md §4, C14), grounded on the teacher's TOML config.Load pattern.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nhb-labs/percore/core/types"
)

// ContractTierParams bundles the oracle/funding guard rails that vary by
// contract tier (spec.md §4.4 divergence table, §4.3 staleness thresholds).
type ContractTierParams struct {
	MaxPriceDivergencePct      int64 `toml:"MaxPriceDivergencePct"`
	OracleStalenessSlotsMargin uint64 `toml:"OracleStalenessSlotsMargin"`
	OracleStalenessSlotsAMM    uint64 `toml:"OracleStalenessSlotsAMM"`
}

// Liquidation bundles the per-slot throttle and exit-buffer tunables
// (spec.md §4.8).
type Liquidation struct {
	InitialPctToLiquidate int64 `toml:"InitialPctToLiquidate"`
	MaxPctToLiquidate     int64 `toml:"MaxPctToLiquidate"`
	LiquidationDuration   int64 `toml:"LiquidationDuration"`
	Buffer                int64 `toml:"Buffer"`
}

// Funding bundles the cadence and clamp denominators the funding engine
// reads (spec.md §4.4).
type Funding struct {
	DefaultPeriodSeconds int64 `toml:"DefaultPeriodSeconds"`
	BufferDenominator    int64 `toml:"BufferDenominator"`
	OffsetDenominator    int64 `toml:"OffsetDenominator"`
}

// Oracle bundles the validity-classification tunables (spec.md §4.3).
type Oracle struct {
	TooVolatileRatio         int64 `toml:"TooVolatileRatio"`
	ConfidenceIntervalMaxPct int64 `toml:"ConfidenceIntervalMaxPct"`
}

// Config is the engine's full runtime configuration.
type Config struct {
	ContractTiers map[string]ContractTierParams `toml:"ContractTiers"`
	Liquidation   Liquidation                   `toml:"Liquidation"`
	Funding       Funding                       `toml:"Funding"`
	Oracle        Oracle                        `toml:"Oracle"`
}

// tierNames orders the ContractTier table for default generation and
// lookups; kept in sync with core/types.ContractTier's iota order.
var tierNames = []string{"A", "B", "C", "Speculative", "Prediction"}

// Load reads cfg from path, writing and returning DefaultConfig if the file
// does not exist yet (mirrors config.Load's create-default-on-missing-file
// behavior; unlike the teacher this package holds no key material, so there
// is no key-generation step to perform on load).
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig mirrors drift-protocol-v2's published guard-rail defaults.
func DefaultConfig() *Config {
	return &Config{
		ContractTiers: map[string]ContractTierParams{
			"A":           {MaxPriceDivergencePct: 50_000, OracleStalenessSlotsMargin: 120, OracleStalenessSlotsAMM: 10},
			"B":           {MaxPriceDivergencePct: 30_000, OracleStalenessSlotsMargin: 120, OracleStalenessSlotsAMM: 10},
			"C":           {MaxPriceDivergencePct: 15_000, OracleStalenessSlotsMargin: 120, OracleStalenessSlotsAMM: 10},
			"Speculative": {MaxPriceDivergencePct: 10_000, OracleStalenessSlotsMargin: 120, OracleStalenessSlotsAMM: 10},
			"Prediction":  {MaxPriceDivergencePct: 5_000, OracleStalenessSlotsMargin: 120, OracleStalenessSlotsAMM: 10},
		},
		Liquidation: Liquidation{
			InitialPctToLiquidate: 250, // 2.5% of SpotWeightPrecision
			MaxPctToLiquidate:     types.SpotWeightPrecision,
			LiquidationDuration:   150, // slots
			Buffer:                200, // bps, matches liquidation.ExitBufferBps
		},
		Funding: Funding{
			DefaultPeriodSeconds: 3600,
			BufferDenominator:    int64(types.FundingRateBuffer),
			OffsetDenominator:    types.FundingRateOffsetDenominator,
		},
		Oracle: Oracle{
			TooVolatileRatio:         5,
			ConfidenceIntervalMaxPct: 20_000,
		},
	}
}

// createDefault writes DefaultConfig to path so subsequent restarts load a
// stable, auditable file instead of regenerating defaults in memory.
func createDefault(path string) (*Config, error) {
	cfg := DefaultConfig()

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TierParams looks up a contract tier's guard rails by the core type's
// ContractTier enum, falling back to tier C if the table omits an entry — an omission is an operator error, not a reason to
// let a market run without staleness bounds.
func (c *Config) TierParams(tier types.ContractTier) ContractTierParams {
	name := "C"
	if int(tier) < len(tierNames) {
		name = tierNames[tier]
	}
	if p, ok := c.ContractTiers[name]; ok {
		return p
	}
	return c.ContractTiers["C"]
}
