package reporter

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"time"
)

// Summary is the serializable form of a run's results, in the same shape a
// person would want to read back later: totals first, then the failures, then
// every result in declaration order.
type Summary struct {
	Total    int              `json:"total"`
	Passed   int              `json:"passed"`
	Failed   int              `json:"failed"`
	PassRate string           `json:"passRate"`
	Failures []FailureSummary `json:"failures,omitempty"`
	Results  []ResultSummary  `json:"results"`
}

type FailureSummary struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type ResultSummary struct {
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	ActualStatus int       `json:"actualStatus,omitempty"`
	ElapsedMS    float64   `json:"elapsedMs"`
	Reason       string    `json:"reason,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func Summarize(results Results) Summary {
	s := Summary{Total: len(results.Tests)}
	for _, r := range results.Tests {
		status := "PASS"
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
			status = "FAIL"
			s.Failures = append(s.Failures, FailureSummary{Name: r.Case.Name, Reason: r.FailureReason})
		}
		s.Results = append(s.Results, ResultSummary{
			Name:         r.Case.Name,
			Status:       status,
			ActualStatus: r.ActualStatus,
			ElapsedMS:    roundMS(r.ElapsedMS()),
			Reason:       r.FailureReason,
			Timestamp:    r.Timestamp,
		})
	}
	if s.Total > 0 {
		s.PassRate = fmt.Sprintf("%.1f%%", float64(s.Passed)/float64(s.Total)*100)
	} else {
		s.PassRate = "0.0%"
	}
	return s
}

// WriteFile writes the summary as indented JSON.
func (s Summary) WriteFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

func roundMS(ms float64) float64 {
	return float64(int(ms*100+0.5)) / 100
}
