package engine

// InstallOutcome is the tri-state result of the install stage.
type InstallOutcome int

const (
	// OutcomeOk means the primary install succeeded.
	OutcomeOk InstallOutcome = iota
	// OutcomeRepairedOk means the primary install failed but the cache-purge
	// reinstall succeeded.
	OutcomeRepairedOk
	// OutcomeFailedAfterRepair means the install failed and the repair
	// attempt (if enabled) failed too.
	OutcomeFailedAfterRepair
)

func (o InstallOutcome) String() string {
	switch o {
	case OutcomeOk:
		return "ok"
	case OutcomeRepairedOk:
		return "repaired"
	case OutcomeFailedAfterRepair:
		return "failed"
	}
	return "unknown"
}

func exitCodeForRun(fatal bool, outcome InstallOutcome, degraded bool) int {
	// Exit code contract:
	// 0 = clean setup: primary install succeeded, checks pass
	// 1 = repaired: install succeeded only via the cache-purge reinstall
	// 2 = degraded: install succeeded but verification failed or errored
	// 3 = fatal: setup did not complete (bad config, provisioning failure,
	//     or install failed even after repair)
	if fatal || outcome == OutcomeFailedAfterRepair {
		return 3
	}
	if degraded {
		return 2
	}
	if outcome == OutcomeRepairedOk {
		return 1
	}
	return 0
}
