package types

type ProbeStatus string

const (
	Pass ProbeStatus = "PASS"
	Fail ProbeStatus = "FAIL"
	Skip ProbeStatus = "SKIP"
)

// ProbeResult is the outcome of one harness step: an RPC call, a transaction
// execution, a balance assertion.
type ProbeResult struct {
	Name        string
	Suite       string
	Status      ProbeStatus
	Value       interface{}
	ErrMsg      string
	Description string
}

func Passed(suite, name string, value interface{}) *ProbeResult {
	return &ProbeResult{Suite: suite, Name: name, Status: Pass, Value: value}
}

func Failed(suite, name string, err error) *ProbeResult {
	r := &ProbeResult{Suite: suite, Name: name, Status: Fail}
	if err != nil {
		r.ErrMsg = err.Error()
	}
	return r
}

func Skipped(suite, name, reason string) *ProbeResult {
	return &ProbeResult{Suite: suite, Name: name, Status: Skip, ErrMsg: reason}
}

type SuiteSummary struct {
	Name    string
	Passed  int
	Failed  int
	Skipped int
	Total   int
}

// RunSummary folds probe results into overall and per-suite tallies.
type RunSummary struct {
	Passed  int
	Failed  int
	Skipped int
	Total   int
	Suites  map[string]*SuiteSummary
}

func (s *RunSummary) Add(result *ProbeResult) {
	if s.Suites == nil {
		s.Suites = make(map[string]*SuiteSummary)
	}

	suite := result.Suite
	if suite == "" {
		suite = "uncategorized"
	}
	if s.Suites[suite] == nil {
		s.Suites[suite] = &SuiteSummary{Name: suite}
	}

	s.Total++
	ss := s.Suites[suite]
	ss.Total++
	switch result.Status {
	case Pass:
		s.Passed++
		ss.Passed++
	case Fail:
		s.Failed++
		ss.Failed++
	case Skip:
		s.Skipped++
		ss.Skipped++
	}
}

// PassRate is the percentage of non-skipped probes that passed. A run with
// nothing executed counts as 0.
func (s *RunSummary) PassRate() float64 {
	executed := s.Passed + s.Failed
	if executed == 0 {
		return 0
	}
	return float64(s.Passed) / float64(executed) * 100
}
