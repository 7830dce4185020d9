// Package banksuite exercises the chain's Cosmos bank module: REST queries
// for balances, supply and params, and a signed MsgSend round trip checked
// end to end against the balance deltas it should produce.
package banksuite

import (
	"fmt"
	"log"
	"math/big"

	sdkmath "cosmossdk.io/math"

	"github.com/cosmos/chainprobe/clients"
	"github.com/cosmos/chainprobe/config"
	"github.com/cosmos/chainprobe/orchestrator"
	"github.com/cosmos/chainprobe/types"
)

const SuiteName = "cosmos_bank"

var sendAmount = sdkmath.NewInt(1_000_000)

type Suite struct {
	cosmos *clients.CosmosClient
}

func New(conf *config.Config) (*Suite, error) {
	cosmos, err := clients.NewCosmosClient(conf)
	if err != nil {
		return nil, err
	}
	return &Suite{cosmos: cosmos}, nil
}

func (s *Suite) Name() string { return SuiteName }

func (s *Suite) Run(ctx *orchestrator.Context) []*types.ProbeResult {
	var results []*types.ProbeResult
	add := func(r *types.ProbeResult) { results = append(results, r) }

	add(s.checkSendEnabled())
	add(s.checkTotalSupply())

	sender := s.cosmos.Accs["dev0"]
	receiver := s.cosmos.Accs["dev1"]

	recvBefore, err := s.cosmos.Rest.Balance(receiver.AccAddress.String(), s.cosmos.Denom)
	if err != nil {
		add(types.Failed(SuiteName, "query_balance", err))
		return results
	}
	add(types.Passed(SuiteName, "query_balance", recvBefore.String()))

	add(s.bankSendRoundTrip(ctx, sender, receiver, recvBefore))
	return results
}

func (s *Suite) checkSendEnabled() *types.ProbeResult {
	enabled, err := s.cosmos.Rest.SendEnabled()
	if err != nil {
		return types.Failed(SuiteName, "bank_params", err)
	}
	if !enabled {
		return types.Failed(SuiteName, "bank_params", fmt.Errorf("bank sends disabled by module params"))
	}
	return types.Passed(SuiteName, "bank_params", "send enabled")
}

func (s *Suite) checkTotalSupply() *types.ProbeResult {
	supply, err := s.cosmos.Rest.TotalSupply(s.cosmos.Denom)
	if err != nil {
		return types.Failed(SuiteName, "total_supply", err)
	}
	if supply.Sign() <= 0 {
		return types.Failed(SuiteName, "total_supply",
			fmt.Errorf("non-positive supply %s for %s", supply, s.cosmos.Denom))
	}
	return types.Passed(SuiteName, "total_supply", supply.String())
}

func (s *Suite) bankSendRoundTrip(
	ctx *orchestrator.Context,
	sender, receiver *clients.CosmosAccount,
	recvBefore *big.Int,
) *types.ProbeResult {
	resp, err := s.cosmos.BankSend("dev0", receiver.AccAddress, sendAmount, big.NewInt(10))
	if err != nil {
		return types.Failed(SuiteName, "bank_send", err)
	}
	log.Printf("  bank send broadcast: %s", resp.TxHash)

	result, err := s.cosmos.WaitForCommit(resp.TxHash, ctx.Conf.WaitTimeout())
	if err != nil {
		return types.Failed(SuiteName, "bank_send", err)
	}

	recvAfter, err := s.cosmos.Rest.Balance(receiver.AccAddress.String(), s.cosmos.Denom)
	if err != nil {
		return types.Failed(SuiteName, "bank_send", err)
	}

	delta := new(big.Int).Sub(recvAfter, recvBefore)
	if delta.Cmp(sendAmount.BigInt()) != 0 {
		return types.Failed(SuiteName, "bank_send",
			fmt.Errorf("receiver delta mismatch: got %s, want %s (sender %s)",
				delta, sendAmount, sender.AccAddress))
	}

	return types.Passed(SuiteName, "bank_send",
		fmt.Sprintf("tx=%s height=%d gasUsed=%d", resp.TxHash, result.Height, result.TxResult.GasUsed))
}
