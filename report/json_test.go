package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/cosmos/chainprobe/gasmeter"
)

func TestWriteGasReportJSON(t *testing.T) {
	collector := gasmeter.NewCollector()
	require.NoError(t, collector.RecordUint64(gasmeter.CategoryEOATransfer, "transfer", 21500, 21000))
	require.NoError(t, collector.RecordUint64(gasmeter.CategoryDeployment, "token", 500000, 480000))
	require.NoError(t, collector.RecordUint64(gasmeter.CategoryContractCall, "loop", 100000, 130000))

	global, stats, err := collector.Summarize()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "gas.json")
	require.NoError(t, WriteGasReportJSON(path, global, stats))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(data)
	require.True(t, gjson.Valid(doc))

	require.Equal(t, int64(3), gjson.Get(doc, "global.totalEstimations").Int())
	require.Equal(t, int64(2), gjson.Get(doc, "global.accurateEstimations").Int())
	require.Equal(t, "66.67%", gjson.Get(doc, "global.accuracyRate").String())
	require.Equal(t, "621500", gjson.Get(doc, "global.totalEstimatedGas").String())
	require.Equal(t, "631000", gjson.Get(doc, "global.totalActualGas").String())
	require.Equal(t, string(gasmeter.BiasUnder), gjson.Get(doc, "global.estimationEfficiency").String())

	require.Equal(t, int64(1), gjson.Get(doc, "byCategory.eoa_transfer.total").Int())
	require.Equal(t, "100.00%", gjson.Get(doc, "byCategory.eoa_transfer.accuracyRate").String())
	require.Equal(t, "0.00%", gjson.Get(doc, "byCategory.contract_call.accuracyRate").String())
}
