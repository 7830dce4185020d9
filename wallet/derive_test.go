package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	cryptohd "github.com/cosmos/evm/crypto/hd"
	"github.com/ethereum/go-ethereum/common"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// Derive a target address through the same keyring machinery, then check
// the brute-forcer recovers the exact path that produced it.
func TestFindPathRecoversCosmosDerivation(t *testing.T) {
	hdPath := hd.CreateHDPath(118, 1, 3).String()
	derived, err := hd.Secp256k1.Derive()(testMnemonic, "", hdPath)
	require.NoError(t, err)
	privKey := hd.Secp256k1.Generate()(derived)

	expected, err := bech32.ConvertAndEncode("cosmos", privKey.PubKey().Address().Bytes())
	require.NoError(t, err)

	match, err := FindPath(Params{Mnemonic: testMnemonic, Expected: expected})
	require.NoError(t, err)
	require.Equal(t, string(hd.Secp256k1.Name()), match.Algo)
	require.Equal(t, hdPath, match.Path)
	require.Equal(t, expected, match.Bech32Addr)
}

func TestFindPathRecoversEthDerivation(t *testing.T) {
	hdPath := hd.CreateHDPath(60, 0, 7).String()
	derived, err := cryptohd.EthSecp256k1.Derive()(testMnemonic, "", hdPath)
	require.NoError(t, err)
	privKey := cryptohd.EthSecp256k1.Generate()(derived)

	expected := common.BytesToAddress(privKey.PubKey().Address().Bytes()).Hex()

	match, err := FindPath(Params{Mnemonic: testMnemonic, Expected: expected})
	require.NoError(t, err)
	require.Equal(t, string(cryptohd.EthSecp256k1.Name()), match.Algo)
	require.Equal(t, hdPath, match.Path)
	require.Equal(t, expected, match.HexAddr)
}

// Mixed-case hex input must still match.
func TestFindPathHexCaseInsensitive(t *testing.T) {
	hdPath := hd.CreateHDPath(60, 0, 0).String()
	derived, err := cryptohd.EthSecp256k1.Derive()(testMnemonic, "", hdPath)
	require.NoError(t, err)
	privKey := cryptohd.EthSecp256k1.Generate()(derived)

	expected := common.BytesToAddress(privKey.PubKey().Address().Bytes()).Hex()

	match, err := FindPath(Params{
		Mnemonic: testMnemonic,
		Expected: "0x" + expectedLower(expected),
	})
	require.NoError(t, err)
	require.Equal(t, hdPath, match.Path)
}

func expectedLower(hexAddr string) string {
	out := make([]byte, 0, len(hexAddr)-2)
	for _, c := range []byte(hexAddr[2:]) {
		if c >= 'A' && c <= 'F' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

func TestFindPathNoMatch(t *testing.T) {
	// Valid bech32, but of an address no derivation of this mnemonic can
	// produce inside the default bounds.
	unreachable, err := bech32.ConvertAndEncode("cosmos", make([]byte, 20))
	require.NoError(t, err)

	_, err = FindPath(Params{
		Mnemonic:   testMnemonic,
		Expected:   unreachable,
		MaxAccount: 2,
		MaxIndex:   2,
	})
	require.ErrorIs(t, err, ErrNoMatch)
}

func TestFindPathRejectsBadInput(t *testing.T) {
	_, err := FindPath(Params{Mnemonic: "not a mnemonic", Expected: "cosmos1xyz"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoMatch)

	_, err = FindPath(Params{Mnemonic: testMnemonic})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoMatch)
}

// Search bounds are honored: a path outside MaxIndex is not found.
func TestFindPathRespectsBounds(t *testing.T) {
	hdPath := hd.CreateHDPath(118, 0, 10).String()
	derived, err := hd.Secp256k1.Derive()(testMnemonic, "", hdPath)
	require.NoError(t, err)
	privKey := hd.Secp256k1.Generate()(derived)

	expected, err := bech32.ConvertAndEncode("cosmos", privKey.PubKey().Address().Bytes())
	require.NoError(t, err)

	_, err = FindPath(Params{
		Mnemonic: testMnemonic,
		Expected: expected,
		MaxIndex: 5,
	})
	require.ErrorIs(t, err, ErrNoMatch)
}
