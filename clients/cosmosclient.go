package clients

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	sdkmath "cosmossdk.io/math"

	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	cryptocodec "github.com/cosmos/evm/crypto/codec"
	"github.com/cosmos/evm/crypto/ethsecp256k1"

	"github.com/cosmos/chainprobe/config"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	clienttx "github.com/cosmos/cosmos-sdk/client/tx"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	xauthsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
	"github.com/cosmos/cosmos-sdk/x/auth/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
)

const bankSendGasLimit = 200_000

type CosmosAccount struct {
	AccAddress sdk.AccAddress
	PrivKey    cryptotypes.PrivKey
}

// CosmosClient talks to the chain's Cosmos side: transactions over the
// CometBFT RPC endpoint, queries over the REST (LCD) endpoint.
type CosmosClient struct {
	ChainID   string
	Denom     string
	ClientCtx client.Context
	Rest      *RestClient
	Accs      map[string]*CosmosAccount
}

func NewCosmosClient(conf *config.Config) (*CosmosClient, error) {
	clientCtx, err := newClientContext(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create client context: %w", err)
	}

	rpcClient, err := client.NewClientFromNode(conf.CosmosRPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect rpc server: %w", err)
	}
	ctx := clientCtx.WithClient(rpcClient)

	accs := make(map[string]*CosmosAccount)
	for i, privKeyHex := range []string{
		config.Dev0PrivateKey,
		config.Dev1PrivateKey,
		config.Dev2PrivateKey,
		config.Dev3PrivateKey,
	} {
		priv, err := crypto.HexToECDSA(privKeyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid dev key %d: %w", i, err)
		}
		privKey := &ethsecp256k1.PrivKey{Key: crypto.FromECDSA(priv)}
		accs[fmt.Sprintf("dev%d", i)] = &CosmosAccount{
			AccAddress: sdk.AccAddress(privKey.PubKey().Address().Bytes()),
			PrivKey:    privKey,
		}
	}

	return &CosmosClient{
		ChainID:   conf.ChainID,
		Denom:     conf.Denom,
		ClientCtx: ctx,
		Rest:      NewRestClient(conf.CosmosRESTEndpoint),
		Accs:      accs,
	}, nil
}

// BankSend broadcasts a bank MsgSend signed by the named account and returns
// the sync broadcast response.
func (c *CosmosClient) BankSend(accID string, to sdk.AccAddress, amount sdkmath.Int, gasPrice *big.Int) (*sdk.TxResponse, error) {
	acc, ok := c.Accs[accID]
	if !ok {
		return nil, fmt.Errorf("unknown account %q", accID)
	}

	accountNumber, sequence, err := c.Rest.AccountInfo(acc.AccAddress.String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account info: %w", err)
	}

	msg := banktypes.NewMsgSend(acc.AccAddress, to, sdk.NewCoins(sdk.NewCoin(c.Denom, amount)))

	txBytes, err := c.signMsgs(acc.PrivKey, accountNumber, sequence, gasPrice, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to sign tx msg: %w", err)
	}

	resp, err := c.ClientCtx.BroadcastTx(txBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to broadcast tx: %w", err)
	}
	if resp.Code != 0 {
		return resp, fmt.Errorf("tx rejected with code %d: %s", resp.Code, resp.RawLog)
	}

	return resp, nil
}

// WaitForCommit polls the RPC tx endpoint until the transaction lands in a
// block or the timeout expires.
func (c *CosmosClient) WaitForCommit(txHash string, timeout time.Duration) (*coretypes.ResultTx, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	hashBytes, err := hex.DecodeString(txHash)
	if err != nil {
		return nil, fmt.Errorf("invalid tx hash format: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timeout waiting for transaction %s", txHash)
		case <-ticker.C:
			result, err := c.ClientCtx.Client.Tx(ctx, hashBytes, false)
			if err != nil {
				continue
			}
			if result.TxResult.Code != 0 {
				return result, fmt.Errorf("tx %s failed with code %d: %s",
					txHash, result.TxResult.Code, result.TxResult.Log)
			}
			return result, nil
		}
	}
}

func newClientContext(conf *config.Config) (client.Context, error) {
	interfaceRegistry := codectypes.NewInterfaceRegistry()
	std.RegisterInterfaces(interfaceRegistry)
	banktypes.RegisterInterfaces(interfaceRegistry)
	cryptocodec.RegisterInterfaces(interfaceRegistry)
	marshaler := codec.NewProtoCodec(interfaceRegistry)
	txConfig := tx.NewTxConfig(marshaler, tx.DefaultSignModes)

	return client.Context{
		BroadcastMode:     flags.BroadcastSync,
		TxConfig:          txConfig,
		Codec:             marshaler,
		InterfaceRegistry: interfaceRegistry,
		ChainID:           conf.ChainID,
		AccountRetriever:  authtypes.AccountRetriever{},
	}, nil
}

func (c *CosmosClient) signMsgs(privKey cryptotypes.PrivKey, accountNumber, sequence uint64, gasPrice *big.Int, msg sdk.Msg) ([]byte, error) {
	senderAddr := sdk.AccAddress(privKey.PubKey().Address().Bytes())
	signMode := signing.SignMode_SIGN_MODE_DIRECT

	txBuilder := c.ClientCtx.TxConfig.NewTxBuilder()
	if err := txBuilder.SetMsgs(msg); err != nil {
		return nil, fmt.Errorf("failed to set msgs: %w", err)
	}
	txBuilder.SetFeePayer(senderAddr)

	signerData := xauthsigning.SignerData{
		Address:       senderAddr.String(),
		ChainID:       c.ChainID,
		AccountNumber: accountNumber,
		Sequence:      sequence,
		PubKey:        privKey.PubKey(),
	}

	// Round one: placeholder signature so the sign bytes cover the full
	// signer list.
	sigV2 := signing.SignatureV2{
		PubKey: privKey.PubKey(),
		Data: &signing.SingleSignatureData{
			SignMode:  signMode,
			Signature: nil,
		},
		Sequence: sequence,
	}
	if err := txBuilder.SetSignatures(sigV2); err != nil {
		return nil, fmt.Errorf("failed to set empty signatures: %w", err)
	}

	txBuilder.SetGasLimit(bankSendGasLimit)
	fee := sdkmath.NewIntFromBigInt(gasPrice).MulRaw(bankSendGasLimit + 1)
	txBuilder.SetFeeAmount(sdk.NewCoins(sdk.NewCoin(c.Denom, fee)))

	signed, err := clienttx.SignWithPrivKey(
		context.Background(),
		signMode,
		signerData,
		txBuilder,
		privKey,
		c.ClientCtx.TxConfig,
		sequence,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sign with private key: %w", err)
	}
	if err := txBuilder.SetSignatures(signed); err != nil {
		return nil, fmt.Errorf("failed to set signatures: %w", err)
	}

	txBytes, err := c.ClientCtx.TxConfig.TxEncoder()(txBuilder.GetTx())
	if err != nil {
		return nil, fmt.Errorf("failed to encode tx: %w", err)
	}

	return txBytes, nil
}
