// Package contracts embeds the compiled TestToken artifacts used by the EVM
// suite. The token is a plain ERC20 with an owner mint and a gas-intensive
// loop function for exercising variable-cost estimation.
package contracts

import (
	_ "embed"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

//go:embed TestToken.abi
var TestTokenABIJSON string

// TestTokenByteCode is the hex-encoded creation bytecode.
//
//go:embed TestToken.bin
var TestTokenByteCode string

// TestTokenABI parses the embedded ABI. The artifact is part of the build,
// so a parse failure is a packaging bug and panics.
func TestTokenABI() *abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(TestTokenABIJSON))
	if err != nil {
		panic("contracts: invalid TestToken ABI: " + err.Error())
	}
	return &parsed
}

// TestTokenBin decodes the embedded creation bytecode.
func TestTokenBin() []byte {
	return common.FromHex(strings.TrimSpace(TestTokenByteCode))
}
