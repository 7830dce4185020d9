// Package wallet reverse-matches a wallet address against a mnemonic by
// brute-forcing BIP-44 derivation parameters. Chains migrated between coin
// types (118 vs 60) and key algorithms; given a mnemonic and the address a
// user expects, this finds which derivation produced it.
package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	cryptohd "github.com/cosmos/evm/crypto/hd"
	bip39 "github.com/cosmos/go-bip39"
)

// ErrNoMatch distinguishes an exhausted search from derivation failures.
var ErrNoMatch = errors.New("no derivation path matched the expected address")

var defaultCoinTypes = []uint32{60, 118}

// Params bound the search space. Zero values take the defaults: coin types
// {60, 118}, 5 accounts, 20 address indexes.
type Params struct {
	Mnemonic string
	// Expected is the address to reverse-match, either bech32 or 0x-hex.
	Expected     string
	Bech32Prefix string
	CoinTypes    []uint32
	MaxAccount   uint32
	MaxIndex     uint32
}

func (p *Params) applyDefaults() {
	if len(p.CoinTypes) == 0 {
		p.CoinTypes = defaultCoinTypes
	}
	if p.MaxAccount == 0 {
		p.MaxAccount = 5
	}
	if p.MaxIndex == 0 {
		p.MaxIndex = 20
	}
	if p.Bech32Prefix == "" {
		p.Bech32Prefix = "cosmos"
	}
}

// Match reports the first derivation that reproduced the expected address.
type Match struct {
	Algo       string
	Path       string
	Bech32Addr string
	HexAddr    string
}

// FindPath walks algo x coin-type x account x index in a fixed order and
// returns the first derivation whose address equals Expected. The search is
// deterministic, so repeated runs on the same inputs return the same match.
func FindPath(params Params) (*Match, error) {
	params.applyDefaults()

	if !bip39.IsMnemonicValid(params.Mnemonic) {
		return nil, fmt.Errorf("invalid bip39 mnemonic")
	}
	if params.Expected == "" {
		return nil, fmt.Errorf("expected address must be set")
	}

	algos := []keyring.SignatureAlgo{hd.Secp256k1, cryptohd.EthSecp256k1}

	for _, algo := range algos {
		for _, coinType := range params.CoinTypes {
			for account := uint32(0); account < params.MaxAccount; account++ {
				for index := uint32(0); index < params.MaxIndex; index++ {
					hdPath := hd.CreateHDPath(coinType, account, index).String()

					candidate, err := deriveAt(algo, params.Mnemonic, hdPath, params.Bech32Prefix)
					if err != nil {
						return nil, fmt.Errorf("derivation failed at %s (%s): %w", hdPath, algo.Name(), err)
					}

					if candidate.matches(params.Expected) {
						candidate.Algo = string(algo.Name())
						candidate.Path = hdPath
						return candidate, nil
					}
				}
			}
		}
	}

	return nil, ErrNoMatch
}

func deriveAt(algo keyring.SignatureAlgo, mnemonic, hdPath, prefix string) (*Match, error) {
	derivedPriv, err := algo.Derive()(mnemonic, "", hdPath)
	if err != nil {
		return nil, err
	}
	privKey := algo.Generate()(derivedPriv)

	addrBytes := privKey.PubKey().Address().Bytes()
	bech32Addr, err := bech32.ConvertAndEncode(prefix, addrBytes)
	if err != nil {
		return nil, err
	}

	return &Match{
		Bech32Addr: bech32Addr,
		HexAddr:    common.BytesToAddress(addrBytes).Hex(),
	}, nil
}

func (m *Match) matches(expected string) bool {
	if strings.HasPrefix(expected, "0x") || strings.HasPrefix(expected, "0X") {
		return strings.EqualFold(m.HexAddr, expected)
	}
	return m.Bech32Addr == expected
}
