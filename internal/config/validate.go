package config

import "fmt"

// Validate checks internal consistency of the loaded configuration before
// it reaches any engine operation.
func Validate(c *Config) error {
	if c.Liquidation.InitialPctToLiquidate <= 0 || c.Liquidation.InitialPctToLiquidate > c.Liquidation.MaxPctToLiquidate {
		return fmt.Errorf("liquidation: initial_pct_to_liquidate must be in (0, max_pct_to_liquidate]")
	}
	if c.Liquidation.LiquidationDuration < 0 {
		return fmt.Errorf("liquidation: liquidation_duration must be >= 0")
	}
	if c.Liquidation.Buffer < 0 {
		return fmt.Errorf("liquidation: buffer must be >= 0")
	}
	if c.Funding.DefaultPeriodSeconds <= 0 {
		return fmt.Errorf("funding: default_period_seconds must be > 0")
	}
	if c.Funding.BufferDenominator <= 0 || c.Funding.OffsetDenominator <= 0 {
		return fmt.Errorf("funding: buffer/offset denominators must be > 0")
	}
	if c.Oracle.TooVolatileRatio <= 1 {
		return fmt.Errorf("oracle: too_volatile_ratio must be > 1")
	}
	if c.Oracle.ConfidenceIntervalMaxPct <= 0 {
		return fmt.Errorf("oracle: confidence_interval_max_pct must be > 0")
	}
	for name, tier := range c.ContractTiers {
		if tier.MaxPriceDivergencePct <= 0 {
			return fmt.Errorf("contract_tiers[%s]: max_price_divergence_pct must be > 0", name)
		}
		if tier.OracleStalenessSlotsAMM == 0 || tier.OracleStalenessSlotsMargin == 0 {
			return fmt.Errorf("contract_tiers[%s]: staleness slot thresholds must be > 0", name)
		}
	}
	if _, ok := c.ContractTiers["C"]; !ok {
		return fmt.Errorf("contract_tiers: missing required fallback tier \"C\"")
	}
	return nil
}
