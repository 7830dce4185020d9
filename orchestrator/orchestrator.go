// Package orchestrator runs the harness suites in order and folds their
// probe results into one run summary.
package orchestrator

import (
	"fmt"
	"log"
	"strings"

	"github.com/cosmos/chainprobe/config"
	"github.com/cosmos/chainprobe/gasmeter"
	"github.com/cosmos/chainprobe/types"
)

// Context carries the per-run state every suite shares: the loaded config
// and the gas collector. The collector is constructed here, once per run,
// and passed explicitly so no suite depends on package-level state.
type Context struct {
	Conf *config.Config
	Gas  *gasmeter.Collector
}

// Suite is one ordered group of probes. Run must not panic on chain
// failures; each failing step becomes a FAIL probe result instead.
type Suite interface {
	Name() string
	Run(ctx *Context) []*types.ProbeResult
}

// Filter selects suites by name. Only wins over Skip when both match.
type Filter struct {
	Only []string
	Skip []string
}

// ParseFilter splits comma-separated -only/-skip flag values.
func ParseFilter(only, skip string) Filter {
	return Filter{Only: splitNames(only), Skip: splitNames(skip)}
}

func splitNames(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func (f Filter) allows(name string) bool {
	if len(f.Only) > 0 {
		for _, n := range f.Only {
			if n == name {
				return true
			}
		}
		return false
	}
	for _, n := range f.Skip {
		if n == name {
			return false
		}
	}
	return true
}

// Orchestrator owns the ordered suite list for one run.
type Orchestrator struct {
	ctx    *Context
	suites []Suite
	filter Filter
}

func New(conf *config.Config, filter Filter) *Orchestrator {
	toleranceBps := conf.GasToleranceBps
	if toleranceBps == 0 {
		toleranceBps = gasmeter.DefaultToleranceBps
	}
	return &Orchestrator{
		ctx: &Context{
			Conf: conf,
			Gas:  gasmeter.NewCollectorWithTolerance(toleranceBps),
		},
		filter: filter,
	}
}

func (o *Orchestrator) Register(suites ...Suite) {
	o.suites = append(o.suites, suites...)
}

func (o *Orchestrator) Context() *Context { return o.ctx }

// Run executes the registered suites in registration order. Filtered-out
// suites contribute a single SKIP probe so the report still accounts for
// them.
func (o *Orchestrator) Run() ([]*types.ProbeResult, *types.RunSummary) {
	var results []*types.ProbeResult

	for _, suite := range o.suites {
		if !o.filter.allows(suite.Name()) {
			results = append(results, types.Skipped(suite.Name(), "suite", "filtered out"))
			continue
		}
		log.Printf("Running suite: %s", suite.Name())
		results = append(results, suite.Run(o.ctx)...)
	}

	summary := &types.RunSummary{}
	for _, result := range results {
		summary.Add(result)
	}
	return results, summary
}

// ExitCode derives the process exit status: 0 when every executed probe
// cleared the configured pass-rate threshold, 1 otherwise. A run with no
// executed probes is a failure; silently passing an empty run would hide
// misconfiguration.
func ExitCode(summary *types.RunSummary, threshold float64) int {
	if summary.Passed+summary.Failed == 0 {
		return 1
	}
	if summary.PassRate() >= threshold {
		return 0
	}
	return 1
}

// FormatRate renders a pass rate for logs.
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate)
}
