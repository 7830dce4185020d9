package clients

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newRestServer(t *testing.T, routes map[string]string) *RestClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewRestClient(srv.URL)
}

func TestBalance(t *testing.T) {
	rest := newRestServer(t, map[string]string{
		"/cosmos/bank/v1beta1/balances/cosmos1abc/by_denom": `{"balance":{"denom":"atest","amount":"123456789012345678901234567890"}}`,
		"/cosmos/bank/v1beta1/balances/cosmos1new/by_denom": `{"balance":null}`,
	})

	balance, err := rest.Balance("cosmos1abc", "atest")
	require.NoError(t, err)
	require.Equal(t, "123456789012345678901234567890", balance.String())

	// An account with no balance entry reads as zero.
	balance, err = rest.Balance("cosmos1new", "atest")
	require.NoError(t, err)
	require.Zero(t, balance.Sign())

	_, err = rest.Balance("cosmos1missing", "atest")
	require.Error(t, err)
}

func TestTotalSupply(t *testing.T) {
	rest := newRestServer(t, map[string]string{
		"/cosmos/bank/v1beta1/supply/by_denom": `{"amount":{"denom":"atest","amount":"9000000000000000000000000"}}`,
	})

	supply, err := rest.TotalSupply("atest")
	require.NoError(t, err)
	require.Equal(t, "9000000000000000000000000", supply.String())
}

func TestSendEnabled(t *testing.T) {
	rest := newRestServer(t, map[string]string{
		"/cosmos/bank/v1beta1/params": `{"params":{"default_send_enabled":false,"send_enabled":[]}}`,
	})
	enabled, err := rest.SendEnabled()
	require.NoError(t, err)
	require.False(t, enabled)

	// Chains that omit the field default to enabled.
	rest = newRestServer(t, map[string]string{
		"/cosmos/bank/v1beta1/params": `{"params":{"send_enabled":[]}}`,
	})
	enabled, err = rest.SendEnabled()
	require.NoError(t, err)
	require.True(t, enabled)
}

func TestAccountInfo(t *testing.T) {
	// EthAccount nests the base account one level deeper than BaseAccount.
	rest := newRestServer(t, map[string]string{
		"/cosmos/auth/v1beta1/accounts/cosmos1eth": `{"account":{"@type":"/cosmos.evm.types.v1.EthAccount","base_account":{"address":"cosmos1eth","account_number":"7","sequence":"42"},"code_hash":"0x"}}`,
		"/cosmos/auth/v1beta1/accounts/cosmos1std": `{"account":{"@type":"/cosmos.auth.v1beta1.BaseAccount","address":"cosmos1std","account_number":"3","sequence":"0"}}`,
	})

	num, seq, err := rest.AccountInfo("cosmos1eth")
	require.NoError(t, err)
	require.Equal(t, uint64(7), num)
	require.Equal(t, uint64(42), seq)

	num, seq, err = rest.AccountInfo("cosmos1std")
	require.NoError(t, err)
	require.Equal(t, uint64(3), num)
	require.Equal(t, uint64(0), seq)
}
