package report

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/xuri/excelize/v2"

	"github.com/cosmos/chainprobe/gasmeter"
	"github.com/cosmos/chainprobe/types"
)

// Options control the output sinks beyond the console report.
type Options struct {
	Verbose     bool
	OutputExcel bool
	// JSONFile, when set, receives the gas accuracy report.
	JSONFile string
}

// ReportResults prints the run to the console and writes the optional xlsx
// and JSON artifacts.
func ReportResults(
	results []*types.ProbeResult,
	summary *types.RunSummary,
	gasReport *gasmeter.GlobalReport,
	gasStats map[gasmeter.Category]*gasmeter.CategoryStats,
	opts Options,
) {
	if opts.OutputExcel {
		if err := writeExcel(results, gasReport, gasStats); err != nil {
			log.Fatalf("Failed to write Excel report: %v", err)
		}
	}
	if opts.JSONFile != "" {
		if err := WriteGasReportJSON(opts.JSONFile, gasReport, gasStats); err != nil {
			log.Fatalf("Failed to write JSON report: %v", err)
		}
		fmt.Println("Gas report saved to " + opts.JSONFile)
	}

	PrintHeader()
	PrintSuiteResults(results, opts.Verbose)
	PrintGasAccuracy(gasReport, gasStats)
	PrintSummary(summary)
}

func PrintHeader() {
	fmt.Println(`
══════════════════════════════════════════════
        chainprobe Validation Report
══════════════════════════════════════════════`)
}

// sortResultsByStatus orders results PASS, FAIL, SKIP for readability.
func sortResultsByStatus(results []*types.ProbeResult) {
	statusPriority := map[types.ProbeStatus]int{
		types.Pass: 1,
		types.Fail: 2,
		types.Skip: 3,
	}
	sort.SliceStable(results, func(i, j int) bool {
		return statusPriority[results[i].Status] < statusPriority[results[j].Status]
	})
}

func PrintSuiteResults(results []*types.ProbeResult, verbose bool) {
	suites := make(map[string][]*types.ProbeResult)
	var order []string
	for _, result := range results {
		if _, seen := suites[result.Suite]; !seen {
			order = append(order, result.Suite)
		}
		suites[result.Suite] = append(suites[result.Suite], result)
	}

	for _, suiteName := range order {
		group := suites[suiteName]
		sortResultsByStatus(group)

		color.Cyan("\n=== %s ===", suiteName)
		for _, result := range group {
			ColorPrint(result, verbose)
		}
	}
}

func PrintGasAccuracy(global *gasmeter.GlobalReport, stats map[gasmeter.Category]*gasmeter.CategoryStats) {
	fmt.Println(`
═══════════════════════════════════════════════
           GAS ESTIMATION ACCURACY
═══════════════════════════════════════════════`)

	if global.TotalEstimations == 0 {
		color.HiBlack("No gas estimation records collected.")
		return
	}

	fmt.Printf("%-16s │ %s │ %s │ %s │ %s │ %s\n",
		"Category",
		color.CyanString("Total"),
		color.GreenString("Accur"),
		color.YellowString(" Over"),
		color.MagentaString("Under"),
		"Rate")
	fmt.Println("─────────────────┼───────┼───────┼───────┼───────┼────────")

	for _, category := range gasmeter.Categories {
		s, ok := stats[category]
		if !ok || s.Total == 0 {
			continue
		}
		fmt.Printf("%-16s │ %5d │ %5d │ %5d │ %5d │ %6.2f%%\n",
			category, s.Total, s.Accurate, s.Over, s.Under, s.AccuracyRate())
	}

	fmt.Println()
	color.Cyan("Total estimations:  %d", global.TotalEstimations)
	color.Green("Accurate:           %d (%s)", global.AccurateEstimations, global.AccuracyRateString())
	color.Yellow("Over-estimated:     %d", global.OverEstimations)
	color.Magenta("Under-estimated:    %d", global.UnderEstimations)
	fmt.Printf("Total estimated gas: %s\n", global.TotalEstimatedGas)
	fmt.Printf("Total actual gas:    %s\n", global.TotalActualGas)
	fmt.Printf("Average estimated:   %s\n", global.AverageEstimatedGas)
	fmt.Printf("Average actual:      %s\n", global.AverageActualGas)

	switch global.EstimationEfficiency {
	case gasmeter.BiasOver:
		color.Yellow("Estimation bias:    %s", global.EstimationEfficiency)
	case gasmeter.BiasUnder:
		color.Red("Estimation bias:    %s", global.EstimationEfficiency)
	default:
		color.Green("Estimation bias:    %s", global.EstimationEfficiency)
	}
}

func PrintSummary(summary *types.RunSummary) {
	fmt.Println(`
═══════════════════════════════════════════════
                 FINAL SUMMARY
═══════════════════════════════════════════════`)

	color.Green("Passed:  %d", summary.Passed)
	color.Red("Failed:  %d", summary.Failed)
	color.HiBlack("Skipped: %d", summary.Skipped)
	color.Cyan("Total:   %d", summary.Total)
	fmt.Printf("Pass rate: %.2f%%\n", summary.PassRate())

	if summary.Failed > 0 {
		fmt.Printf("\n")
		color.Red("❌ Some probes failed. Check the detailed results above.")
	} else {
		fmt.Printf("\n")
		color.Green("✅ All executed probes passed!")
	}
}

func ColorPrint(result *types.ProbeResult, verbose bool) {
	switch result.Status {
	case types.Pass:
		color.Green("[%s] %s", result.Status, result.Name)
		if verbose && result.Value != nil {
			fmt.Printf(" - %v\n", result.Value)
		}
	case types.Skip:
		color.HiBlack("[%s] %s", result.Status, result.Name)
		if verbose && result.ErrMsg != "" {
			fmt.Printf(" - %s\n", result.ErrMsg)
		}
	case types.Fail:
		color.Red("[%s] %s", result.Status, result.Name)
		if result.ErrMsg != "" {
			fmt.Printf(" - %s\n", result.ErrMsg)
		}
	}
}

func writeExcel(
	results []*types.ProbeResult,
	global *gasmeter.GlobalReport,
	stats map[gasmeter.Category]*gasmeter.CategoryStats,
) error {
	f := excelize.NewFile()

	const probeSheet = "Probes"
	if err := f.SetSheetName("Sheet1", probeSheet); err != nil {
		return err
	}

	header := []string{"Suite", "Probe", "Status", "Value", "ErrMsg"}
	for col, h := range header {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		if err := f.SetCellValue(probeSheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(probeSheet, "B", "B", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(probeSheet, "D", "E", 40); err != nil {
		return err
	}

	fontStyle := &excelize.Style{Font: &excelize.Font{Bold: true}}
	for i, result := range results {
		row := i + 2
		if err := f.SetCellValue(probeSheet, fmt.Sprintf("A%d", row), result.Suite); err != nil {
			return err
		}
		if err := f.SetCellValue(probeSheet, fmt.Sprintf("B%d", row), result.Name); err != nil {
			return err
		}
		statusCell := fmt.Sprintf("C%d", row)
		if err := f.SetCellValue(probeSheet, statusCell, string(result.Status)); err != nil {
			return err
		}
		if err := f.SetCellValue(probeSheet, fmt.Sprintf("D%d", row), fmt.Sprintf("%v", result.Value)); err != nil {
			return err
		}
		if err := f.SetCellValue(probeSheet, fmt.Sprintf("E%d", row), result.ErrMsg); err != nil {
			return err
		}

		switch result.Status {
		case types.Pass:
			fontStyle.Font.Color = "008000"
		case types.Fail:
			fontStyle.Font.Color = "FF0000"
		default:
			fontStyle.Font.Color = "808080"
		}
		s, err := f.NewStyle(fontStyle)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(probeSheet, statusCell, statusCell, s); err != nil {
			return err
		}
	}

	const gasSheet = "Gas Accuracy"
	if _, err := f.NewSheet(gasSheet); err != nil {
		return err
	}
	gasHeader := []string{"Category", "Total", "Accurate", "Over", "Under", "Rate"}
	for col, h := range gasHeader {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		if err := f.SetCellValue(gasSheet, cell, h); err != nil {
			return err
		}
	}
	row := 2
	for _, category := range gasmeter.Categories {
		s, ok := stats[category]
		if !ok || s.Total == 0 {
			continue
		}
		values := []interface{}{string(category), s.Total, s.Accurate, s.Over, s.Under,
			fmt.Sprintf("%.2f%%", s.AccuracyRate())}
		for col, v := range values {
			cell := fmt.Sprintf("%s%d", string(rune('A'+col)), row)
			if err := f.SetCellValue(gasSheet, cell, v); err != nil {
				return err
			}
		}
		row++
	}
	row++
	globalRows := [][2]interface{}{
		{"Total estimations", global.TotalEstimations},
		{"Accuracy rate", global.AccuracyRateString()},
		{"Total estimated gas", global.TotalEstimatedGas.String()},
		{"Total actual gas", global.TotalActualGas.String()},
		{"Estimation efficiency", string(global.EstimationEfficiency)},
	}
	for _, pair := range globalRows {
		if err := f.SetCellValue(gasSheet, fmt.Sprintf("A%d", row), pair[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(gasSheet, fmt.Sprintf("B%d", row), pair[1]); err != nil {
			return err
		}
		row++
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D3D3D3"}},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(probeSheet, 1, 1, headerStyle); err != nil {
		return err
	}
	if err := f.SetRowStyle(gasSheet, 1, 1, headerStyle); err != nil {
		return err
	}

	fileName := fmt.Sprintf("probe_results_%s.xlsx", time.Now().Format("15:04:05"))
	if err := f.SaveAs(fileName); err != nil {
		return err
	}
	fmt.Println("Results saved to " + fileName)
	return nil
}
