package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupRenamesStandardFields(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("percore-engine", "test", &buf)
	logger.Info("funding tick complete", slog.Int("market_index", 1))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "funding tick complete", decoded["message"])
	require.Equal(t, "INFO", decoded["severity"])
	require.Contains(t, decoded, "timestamp")
	require.Equal(t, "percore-engine", decoded["service"])
	require.Equal(t, "test", decoded["env"])
	require.Equal(t, float64(1), decoded["market_index"])
}

func TestForMarketScopesChildLogger(t *testing.T) {
	var buf bytes.Buffer
	base := Setup("percore-engine", "", &buf)
	scoped := ForMarket(base, 7)
	scoped.Info("liquidation throttled")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, float64(7), decoded["market_index"])
}
