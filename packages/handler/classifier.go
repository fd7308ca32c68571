package handler

// Response is the read side of a classified response.
type Response interface {
	RawResponse() string
	FilteredResponse() any
	Headers() map[string]string
	Header(key string) string
	Code() int
	Proto() string
	Info() Info
	Call() string
}

// Classifier labels a response as errored, failed or successful. At most one
// of the three predicates is true after Initialize.
type Classifier interface {
	Response
	Initialize(r Raw) error
	WasErrored() bool
	WasFailed() bool
	WasSuccessful() bool
}

// SelfHandling is implemented by classifiers that handle their own outcomes.
// A client defers to these methods instead of its registered callbacks.
type SelfHandling interface {
	OnError() (any, error)
	OnFailure() (any, error)
	OnSuccess() (any, error)
}

// Outcome is the label a classifier assigned.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeErrored
	OutcomeFailed
	OutcomeSuccessful
)

func (o Outcome) String() string {
	switch o {
	case OutcomeErrored:
		return "errored"
	case OutcomeFailed:
		return "failed"
	case OutcomeSuccessful:
		return "successful"
	default:
		return "none"
	}
}

// Classify evaluates the predicates in errored, failed, successful order.
func Classify(c Classifier) Outcome {
	switch {
	case c.WasErrored():
		return OutcomeErrored
	case c.WasFailed():
		return OutcomeFailed
	case c.WasSuccessful():
		return OutcomeSuccessful
	default:
		return OutcomeNone
	}
}

var (
	_ Classifier = (*StatusClassifier)(nil)
	_ Classifier = (*DecodeClassifier)(nil)
	_ Classifier = (*HybridClassifier)(nil)
)
