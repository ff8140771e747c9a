package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhb-labs/percore/core/types"
)

func TestLoadCreatesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Liquidation, reloaded.Liquidation)
}

func TestLoadParsesContractTiers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.toml")
	contents := `
[Liquidation]
InitialPctToLiquidate = 25000
MaxPctToLiquidate = 10000000
LiquidationDuration = 150
Buffer = 200

[Funding]
DefaultPeriodSeconds = 3600
BufferDenominator = 10000
OffsetDenominator = 5000

[Oracle]
TooVolatileRatio = 5
ConfidenceIntervalMaxPct = 20000

[ContractTiers.A]
MaxPriceDivergencePct = 50000
OracleStalenessSlotsMargin = 120
OracleStalenessSlotsAMM = 10

[ContractTiers.C]
MaxPriceDivergencePct = 15000
OracleStalenessSlotsMargin = 120
OracleStalenessSlotsAMM = 10
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	require.Equal(t, int64(50_000), cfg.TierParams(types.ContractTierA).MaxPriceDivergencePct)
}

func TestTierParamsFallsBackToTierC(t *testing.T) {
	cfg := DefaultConfig()
	delete(cfg.ContractTiers, "Speculative")
	got := cfg.TierParams(types.ContractTierSpeculative)
	require.Equal(t, cfg.ContractTiers["C"], got)
}

func TestValidateRejectsInitialAboveMax(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Liquidation.InitialPctToLiquidate = cfg.Liquidation.MaxPctToLiquidate + 1
	require.Error(t, Validate(cfg))
}

func TestValidateRequiresFallbackTier(t *testing.T) {
	cfg := DefaultConfig()
	delete(cfg.ContractTiers, "C")
	require.Error(t, Validate(cfg))
}
