package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cosmos/chainprobe/gasmeter"
)

type categoryJSON struct {
	Total        int    `json:"total"`
	Accurate     int    `json:"accurateCount"`
	Over         int    `json:"overCount"`
	Under        int    `json:"underCount"`
	AccuracyRate string `json:"accuracyRate"`
}

type gasReportJSON struct {
	GeneratedAt string                  `json:"generatedAt"`
	Global      *gasmeter.GlobalReport  `json:"global"`
	ByCategory  map[string]categoryJSON `json:"byCategory"`
}

// WriteGasReportJSON persists the gas accuracy report. Gas totals are encoded
// as decimal strings and accuracy rates as "NN.NN%" strings.
func WriteGasReportJSON(path string, global *gasmeter.GlobalReport, stats map[gasmeter.Category]*gasmeter.CategoryStats) error {
	doc := gasReportJSON{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Global:      global,
		ByCategory:  make(map[string]categoryJSON, len(stats)),
	}
	for category, s := range stats {
		doc.ByCategory[string(category)] = categoryJSON{
			Total:        s.Total,
			Accurate:     s.Accurate,
			Over:         s.Over,
			Under:        s.Under,
			AccuracyRate: fmt.Sprintf("%.2f%%", s.AccuracyRate()),
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
