package handler

// StatusClassifier labels responses by HTTP status code alone.
//
//	errored:    no status (transport failure) or 5xx
//	failed:     3xx or 4xx
//	successful: anything else
type StatusClassifier struct {
	State
}

func NewStatus() *StatusClassifier {
	return &StatusClassifier{}
}

func (c *StatusClassifier) WasErrored() bool {
	return c.transportFailed()
}

func (c *StatusClassifier) WasFailed() bool {
	if c.WasErrored() {
		return false
	}
	return c.code >= 300
}

func (c *StatusClassifier) WasSuccessful() bool {
	return !c.WasErrored() && !c.WasFailed()
}
