package output

// Metrics records engine activity.
type Metrics interface {
	WizardTransition(flow, step, outcome string)
	Attendance(operation, result string)
	Promotion()
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) WizardTransition(string, string, string) {}
func (NopMetrics) Attendance(string, string)               {}
func (NopMetrics) Promotion()                              {}
