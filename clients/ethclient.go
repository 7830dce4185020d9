package clients

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/cosmos/chainprobe/config"
)

type Account struct {
	Address common.Address
	PrivKey *ecdsa.PrivateKey
}

// EthClient wraps the go-ethereum client together with the rich account used
// to fund and sign every EVM suite transaction.
type EthClient struct {
	Client  *ethclient.Client
	Acc     *Account
	ChainID *big.Int
}

func NewEthClient(conf *config.Config) (*EthClient, error) {
	ethCli, err := ethclient.Dial(conf.EVMEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", conf.EVMEndpoint, err)
	}

	privKey, err := crypto.HexToECDSA(conf.RichPrivKey)
	if err != nil {
		return nil, fmt.Errorf("invalid rich private key: %w", err)
	}

	chainID, err := ethCli.ChainID(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	return &EthClient{
		Client: ethCli,
		Acc: &Account{
			Address: crypto.PubkeyToAddress(privKey.PublicKey),
			PrivKey: privKey,
		},
		ChainID: chainID,
	}, nil
}

// RPCClient exposes the underlying JSON-RPC client for raw method calls.
func (c *EthClient) RPCClient() *rpc.Client {
	return c.Client.Client()
}

// AccountFor derives the address for one of the dev private keys.
func AccountFor(privKeyHex string) (*Account, error) {
	privKey, err := crypto.HexToECDSA(privKeyHex)
	if err != nil {
		return nil, err
	}
	return &Account{
		Address: crypto.PubkeyToAddress(privKey.PublicKey),
		PrivKey: privKey,
	}, nil
}

// SignAndSend signs tx with the given key as a dynamic fee transaction and
// submits it.
func (c *EthClient) SignAndSend(ctx context.Context, tx *ethtypes.Transaction, key *ecdsa.PrivateKey) (common.Hash, error) {
	signer := ethtypes.NewLondonSigner(c.ChainID)
	signedTx, err := ethtypes.SignTx(tx, signer, key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := c.Client.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return signedTx.Hash(), nil
}

// WaitForTx polls for the receipt until the transaction is mined or the
// timeout expires. A receipt with status 0 is returned together with an
// error so callers can still inspect gas usage of reverted transactions.
func (c *EthClient) WaitForTx(txHash common.Hash, timeout time.Duration) (*ethtypes.Receipt, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timeout exceeded while waiting for transaction %s", txHash.Hex())
		case <-ticker.C:
			receipt, err := c.Client.TransactionReceipt(context.Background(), txHash)
			if err != nil {
				if errors.Is(err, ethereum.NotFound) {
					continue
				}
				return nil, err
			}
			if receipt.Status == ethtypes.ReceiptStatusFailed {
				return receipt, fmt.Errorf("transaction %s reverted", txHash.Hex())
			}
			return receipt, nil
		}
	}
}

// SuggestFees returns the current tip cap and a fee cap with headroom above
// the suggested gas price.
func (c *EthClient) SuggestFees(ctx context.Context) (tipCap, feeCap *big.Int, err error) {
	tipCap, err = c.Client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get tip cap: %w", err)
	}
	gasPrice, err := c.Client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	feeCap = new(big.Int).Add(gasPrice, big.NewInt(1_000_000_000))
	return tipCap, feeCap, nil
}
