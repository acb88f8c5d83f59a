package model

// Status is the lifecycle state of a slot's most recent attempt.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// FailureReason classifies a failed attempt.
type FailureReason string

const (
	ReasonValidation      FailureReason = "validation"
	ReasonNetwork         FailureReason = "network"
	ReasonParse           FailureReason = "parse"
	ReasonUnexpectedShape FailureReason = "unexpected_shape"
)

// Outcome is the tagged result of one attempt. Result is set only for
// StatusSuccess; Reason and Err only for StatusFailure.
type Outcome struct {
	Kind       TaskKind
	Status     Status
	Generation uint64
	Result     Result
	Reason     FailureReason
	Err        error
}

// Terminal reports whether the outcome is Success or Failure.
func (o Outcome) Terminal() bool {
	return o.Status == StatusSuccess || o.Status == StatusFailure
}

// Message returns the short user-facing text for a failed outcome, or "".
func (o Outcome) Message() string {
	if o.Status != StatusFailure {
		return ""
	}
	return FailureMessage(o.Kind, o.Reason)
}

// FailureMessage is the copy shown next to the control that triggered a
// failed request. Diagnostic detail never goes here.
func FailureMessage(kind TaskKind, reason FailureReason) string {
	if reason == ReasonValidation {
		switch kind {
		case TaskEnhance:
			return "Please enter a sentence to enhance."
		default:
			return "Please upload your CV and paste the job description."
		}
	}
	switch kind {
	case TaskTailor:
		return "Failed to tailor your CV. The AI may be busy. Please try again in a moment."
	case TaskEnhance:
		return "Failed to enhance text. Please try again."
	case TaskPredict:
		return "Couldn't predict questions. The AI might be busy."
	default:
		return "Request failed. Please try again."
	}
}
