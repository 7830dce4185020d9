package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	Dev0PrivateKey = "88cbead91aee890d27bf06e003ade3d4e952427e88f88d31d61d3ef5e5d54305" // dev0
	Dev1PrivateKey = "741de4f8988ea941d3ff0287911ca4074e62b7d45c991a51186455366f10b544" // dev1
	Dev2PrivateKey = "3b7955d25189c99a7468192fcbc6429205c158834053ebe3f78f4512ab432db9" // dev2
	Dev3PrivateKey = "8a36c69d940a92fcea94b36d0f2928c7a0ee19a90073eda769693298dfa9603b" // dev3
)

type Config struct {
	// EVM JSON-RPC endpoint of the chain under test
	EVMEndpoint string `yaml:"evm_endpoint"`
	// CometBFT RPC endpoint (typically :26657)
	CosmosRPCEndpoint string `yaml:"cosmos_rpc_endpoint"`
	// Cosmos REST (LCD) endpoint (typically :1317)
	CosmosRESTEndpoint string `yaml:"cosmos_rest_endpoint"`
	ChainID            string `yaml:"chain_id"`
	Denom              string `yaml:"denom"`
	Bech32Prefix       string `yaml:"bech32_prefix"`
	RichPrivKey        string `yaml:"rich_privkey"`
	// Timeout for RPC calls and confirmation waits (e.g. 5s, 1m)
	Timeout string `yaml:"timeout"`
	// GasToleranceBps is the accuracy band for gas estimation checks in
	// basis points. Zero means the 500 (5%) default.
	GasToleranceBps int64 `yaml:"gas_tolerance_bps"`
	// PassRateThreshold is the minimum probe pass rate (percent) for a
	// zero exit code.
	PassRateThreshold float64 `yaml:"pass_rate_threshold"`
}

func (c *Config) Validate() error {
	if c.EVMEndpoint == "" {
		return fmt.Errorf("evm_endpoint must be set")
	}
	if c.CosmosRPCEndpoint == "" {
		return fmt.Errorf("cosmos_rpc_endpoint must be set")
	}
	if c.CosmosRESTEndpoint == "" {
		return fmt.Errorf("cosmos_rest_endpoint must be set")
	}
	if c.RichPrivKey == "" {
		return fmt.Errorf("rich_privkey must be set")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %v", err)
	}
	if c.GasToleranceBps < 0 {
		return fmt.Errorf("gas_tolerance_bps must be non-negative")
	}
	if c.PassRateThreshold < 0 || c.PassRateThreshold > 100 {
		return fmt.Errorf("pass_rate_threshold must be within [0, 100]")
	}
	return nil
}

// WaitTimeout returns the parsed confirmation timeout. Validate must have
// accepted the config first.
func (c *Config) WaitTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

func MustLoadConfig(filename string) *Config {
	var config Config
	file, err := os.ReadFile(filename)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	applyDefaults(&config)
	if err = config.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	return &config
}

func applyDefaults(c *Config) {
	if c.Denom == "" {
		c.Denom = "atest"
	}
	if c.Bech32Prefix == "" {
		c.Bech32Prefix = "cosmos"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.PassRateThreshold == 0 {
		c.PassRateThreshold = 100
	}
}
