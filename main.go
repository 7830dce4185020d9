package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cosmos/chainprobe/banksuite"
	"github.com/cosmos/chainprobe/config"
	"github.com/cosmos/chainprobe/evmsuite"
	"github.com/cosmos/chainprobe/orchestrator"
	"github.com/cosmos/chainprobe/report"
	"github.com/cosmos/chainprobe/wallet"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose output")
	outputExcel := flag.Bool("xlsx", false, "Save probe results as xlsx")
	jsonFile := flag.String("json", "", "Write the gas accuracy report to this JSON file")
	configFile := flag.String("config", "config.yaml", "Path to the config file")
	only := flag.String("only", "", "Comma-separated suite names to run, skipping all others")
	skip := flag.String("skip", "", "Comma-separated suite names to skip")
	flag.Parse()

	// Handle subcommand
	args := flag.Args()
	if len(args) > 0 && args[0] == "wallet" {
		if err := runWalletSearch(args[1:], *configFile); err != nil {
			log.Fatalf("Wallet search failed: %v", err)
		}
		return
	}

	conf := config.MustLoadConfig(*configFile)

	orch := orchestrator.New(conf, orchestrator.ParseFilter(*only, *skip))

	evmSuite, err := evmsuite.New(conf)
	if err != nil {
		log.Fatalf("Failed to create EVM suite: %v", err)
	}
	bankSuite, err := banksuite.New(conf)
	if err != nil {
		log.Fatalf("Failed to create bank suite: %v", err)
	}
	orch.Register(evmSuite, bankSuite)

	results, summary := orch.Run()

	gasReport, gasStats, err := orch.Context().Gas.Summarize()
	if err != nil {
		log.Fatalf("Failed to summarize gas records: %v", err)
	}

	report.ReportResults(results, summary, gasReport, gasStats, report.Options{
		Verbose:     *verbose,
		OutputExcel: *outputExcel,
		JSONFile:    *jsonFile,
	})

	log.Printf("Pass rate %s (threshold %s)",
		orchestrator.FormatRate(summary.PassRate()),
		orchestrator.FormatRate(conf.PassRateThreshold))
	os.Exit(orchestrator.ExitCode(summary, conf.PassRateThreshold))
}

// runWalletSearch brute-forces the derivation path that maps a mnemonic to an
// expected address: chainprobe wallet "<mnemonic>" <address>
func runWalletSearch(args []string, configFile string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: chainprobe wallet \"<mnemonic>\" <bech32-or-hex-address>")
	}

	params := wallet.Params{
		Mnemonic: args[0],
		Expected: args[1],
	}
	if _, err := os.Stat(configFile); err == nil {
		params.Bech32Prefix = config.MustLoadConfig(configFile).Bech32Prefix
	}

	match, err := wallet.FindPath(params)
	if err != nil {
		return err
	}

	fmt.Printf("Found matching derivation\n")
	fmt.Printf("  Algorithm: %s\n", match.Algo)
	fmt.Printf("  Path:      %s\n", match.Path)
	fmt.Printf("  Bech32:    %s\n", match.Bech32Addr)
	fmt.Printf("  Hex:       %s\n", match.HexAddr)
	return nil
}
