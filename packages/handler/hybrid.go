package handler

// HybridClassifier combines decoding with status codes: an undecodable body
// or a transport failure is errored, 3xx and 4xx are failed.
type HybridClassifier struct {
	State
}

func NewHybridJSON() *HybridClassifier {
	c := &HybridClassifier{}
	c.Filter(JSON)
	return c
}

func NewHybridXML() *HybridClassifier {
	c := &HybridClassifier{}
	c.Filter(XML)
	return c
}

func (c *HybridClassifier) WasErrored() bool {
	return c.Untouched() || c.transportFailed()
}

func (c *HybridClassifier) WasFailed() bool {
	if c.WasErrored() {
		return false
	}
	return c.code >= 300
}

func (c *HybridClassifier) WasSuccessful() bool {
	return !c.WasErrored() && !c.WasFailed()
}
