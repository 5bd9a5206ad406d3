package aggregate

import "fmt"

// TabularSink adapts CanonicalResult into this tree's existing tabular
// result convention (model.IpAliveResult's Headers()/Rows() shape), so
// internal/core/reporter can render recon output with no changes.
type TabularSink struct {
	rows [][]string
}

func NewTabularSink() *TabularSink {
	return &TabularSink{}
}

func (s *TabularSink) Accept(cr CanonicalResult) {
	latency := "N/A"
	if len(cr.Latency) > 0 {
		latency = cr.Latency[len(cr.Latency)-1].Latency.String()
	}
	s.rows = append(s.rows, []string{
		cr.Target.IP.String(),
		fmt.Sprintf("%d", cr.Port),
		cr.State.String(),
		cr.Cause,
		latency,
	})
}

// Headers 实现 TabularData 接口
func (s *TabularSink) Headers() []string {
	return []string{"IP", "Port", "State", "Reason", "Latency"}
}

// Rows 实现 TabularData 接口
func (s *TabularSink) Rows() [][]string {
	return s.rows
}
