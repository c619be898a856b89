package checks

func NewResult(target Target, checkID string, status Status, message string) Result {
	res := Result{
		Status:  status,
		Env:     target.EnvRoot,
		CheckID: checkID,
	}
	if message != "" {
		res.Message = message
	}
	return res
}

func PassResult(target Target, checkID string) Result {
	return NewResult(target, checkID, StatusPass, "")
}

func PassResultWithMessage(target Target, checkID string, message string) Result {
	return NewResult(target, checkID, StatusPass, message)
}

func FailResult(target Target, checkID string, message string) Result {
	return NewResult(target, checkID, StatusFail, message)
}

func ErrorResult(target Target, checkID string, message string) Result {
	return NewResult(target, checkID, StatusError, message)
}

func SkippedResult(target Target, checkID string, message string) Result {
	return NewResult(target, checkID, StatusSkipped, message)
}

func FailResultWithEvidence(target Target, checkID string, message string, evidence map[string]string) Result {
	res := NewResult(target, checkID, StatusFail, message)
	res.Evidence = evidence
	return res
}

func PassResultWithMetadata(target Target, checkID string, message string, metadata map[string]any) Result {
	res := NewResult(target, checkID, StatusPass, message)
	res.Metadata = metadata
	return res
}
