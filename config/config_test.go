package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		EVMEndpoint:        "http://127.0.0.1:8545",
		CosmosRPCEndpoint:  "http://127.0.0.1:26657",
		CosmosRESTEndpoint: "http://127.0.0.1:1317",
		ChainID:            "cosmos_262144-1",
		RichPrivKey:        Dev0PrivateKey,
		Timeout:            "30s",
	}
}

func TestValidate(t *testing.T) {
	conf := validConfig()
	require.NoError(t, conf.Validate())

	missing := validConfig()
	missing.EVMEndpoint = ""
	require.Error(t, missing.Validate())

	badTimeout := validConfig()
	badTimeout.Timeout = "soon"
	require.Error(t, badTimeout.Validate())

	badTolerance := validConfig()
	badTolerance.GasToleranceBps = -1
	require.Error(t, badTolerance.Validate())

	badThreshold := validConfig()
	badThreshold.PassRateThreshold = 101
	require.Error(t, badThreshold.Validate())
}

func TestApplyDefaults(t *testing.T) {
	var conf Config
	applyDefaults(&conf)

	require.Equal(t, "atest", conf.Denom)
	require.Equal(t, "cosmos", conf.Bech32Prefix)
	require.Equal(t, "30s", conf.Timeout)
	require.Equal(t, float64(100), conf.PassRateThreshold)
	// Tolerance default lives in the gas collector, not here.
	require.Equal(t, int64(0), conf.GasToleranceBps)
}

func TestMustLoadConfig(t *testing.T) {
	raw := `evm_endpoint: "http://127.0.0.1:8545"
cosmos_rpc_endpoint: "http://127.0.0.1:26657"
cosmos_rest_endpoint: "http://127.0.0.1:1317"
chain_id: "cosmos_262144-1"
rich_privkey: "` + Dev0PrivateKey + `"
timeout: "5s"
gas_tolerance_bps: 250
pass_rate_threshold: 90
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	conf := MustLoadConfig(path)
	require.Equal(t, "http://127.0.0.1:8545", conf.EVMEndpoint)
	require.Equal(t, "cosmos_262144-1", conf.ChainID)
	require.Equal(t, int64(250), conf.GasToleranceBps)
	require.Equal(t, float64(90), conf.PassRateThreshold)
	require.Equal(t, 5*time.Second, conf.WaitTimeout())
	require.Equal(t, "atest", conf.Denom)
}
