package domain

// LagResult records the outcome of decomposition + alignment + regression at
// one lag. Exactly one of Result or Err is set: per-lag failures are recorded,
// not fatal to the scan.
type LagResult struct {
	Lag    int
	Result *RegressionResult
	Err    string
}

// ScanResult is the output of a lag scan: per-lag results in ascending lag
// order plus the lag achieving maximum R-squared (ties broken by smallest lag).
type ScanResult struct {
	Results []LagResult
	BestLag int
	Best    *RegressionResult
}

// Failed returns the lags that could not be fitted.
func (s *ScanResult) Failed() []int {
	var out []int
	for _, r := range s.Results {
		if r.Err != "" {
			out = append(out, r.Lag)
		}
	}
	return out
}
