package component

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// Result classifies a component's boot outcome.
type Result int

const (
	Started Result = iota
	LoadFailed
	StartFailed
)

func (r Result) String() string {
	switch r {
	case Started:
		return "started"
	case LoadFailed:
		return "load failed"
	case StartFailed:
		return "start failed"
	default:
		return "unknown"
	}
}

// Outcome is the terminal boot result for one component.
type Outcome struct {
	Component string
	Version   string
	Result    Result
	Reason    string
}

// Report collects the per-component outcomes of one boot sequence.
type Report struct {
	Outcomes []Outcome
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Started returns the components that reported a successful start.
func (r *Report) Started() []string {
	var names []string
	for _, o := range r.Outcomes {
		if o.Result == Started {
			names = append(names, o.Component)
		}
	}
	return names
}

// Failed returns the outcomes that did not reach Started.
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Result != Started {
			failed = append(failed, o)
		}
	}
	return failed
}

// Outcome returns the outcome recorded for a component, if any.
func (r *Report) Outcome(component string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Component == component {
			return o, true
		}
	}
	return Outcome{}, false
}

// Render formats the report as a human-readable table.
func (r *Report) Render() string {
	if len(r.Outcomes) == 0 {
		return "no components booted"
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Component", "Version", "Result", "Detail"})
	for _, o := range r.Outcomes {
		t.AppendRow(table.Row{o.Component, o.Version, o.Result.String(), o.Reason})
	}
	return t.Render()
}
