package output

import (
	"envmedic/internal/checks"
	"envmedic/internal/pip"
)

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - step.started
// - step.finished
// - check.result
// - env.packages
// - run.finished
//
// JSON mode remains an aggregate of checks.Result values.
type Event struct {
	Type string `json:"type"`
	Env  string `json:"env,omitempty"`

	// Step identifies a pipeline stage (provision, install, repair, verify,
	// report) for step.* events; Outcome and Detail describe how it ended.
	Step    string `json:"step,omitempty"`
	Outcome string `json:"outcome,omitempty"`
	Detail  string `json:"detail,omitempty"`

	*checks.Result

	// Packages is the installed-package listing for env.packages events.
	Packages []pip.InstalledPackage `json:"packages,omitempty"`

	Requirements int `json:"requirements,omitempty"`
	Checks       int `json:"checks,omitempty"`
	ExitCode     int `json:"exit_code,omitempty"`
}

func eventFromResult(r checks.Result) Event {
	return Event{Type: "check.result", Env: r.Env, Result: &r}
}
