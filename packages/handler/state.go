package handler

import (
	"strings"
	"time"
)

// Info is transport metadata gathered while the request was in flight.
type Info struct {
	RequestID     string
	Method        string
	URL           string
	ContentType   string
	ContentLength int64
	Duration      time.Duration
	// Err is the transport error, if the request never got a response.
	Err error
}

// Raw carries everything the transport produced for one request cycle.
type Raw struct {
	Body       string
	Proto      string
	Headers    map[string]string
	StatusCode int
	Info       Info
	// Call is a human readable reconstruction of the request.
	Call string
}

// State holds a classifier's view of the last response. Classifiers embed it.
type State struct {
	raw      string
	filtered any
	code     int
	headers  map[string]string
	proto    string
	info     Info
	call     string
	filters  []Filter
}

// Filter registers fn, with optional bound args, at the end of the chain.
func (s *State) Filter(fn FilterFunc, args ...any) *State {
	s.filters = append(s.filters, Filter{Func: fn, Args: args})
	return s
}

// Filters returns a copy of the registered chain.
func (s *State) Filters() []Filter {
	out := make([]Filter, len(s.filters))
	copy(out, s.filters)
	return out
}

// Initialize overwrites the state with r and runs the filter chain.
func (s *State) Initialize(r Raw) error {
	s.raw = r.Body
	s.filtered = r.Body
	s.proto = r.Proto
	s.code = r.StatusCode
	s.info = r.Info
	s.call = r.Call
	s.headers = make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		s.headers[k] = v
	}

	filtered, err := RunFilters(r.Body, s.filters)
	s.filtered = filtered
	return err
}

func (s *State) RawResponse() string {
	return s.raw
}

func (s *State) FilteredResponse() any {
	return s.filtered
}

func (s *State) Headers() map[string]string {
	return s.headers
}

// Header looks up a response header ignoring case.
func (s *State) Header(key string) string {
	if v, ok := s.headers[key]; ok {
		return v
	}
	for k, v := range s.headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (s *State) Code() int {
	return s.code
}

// Proto returns the status line, e.g. "HTTP/1.1 200 OK".
func (s *State) Proto() string {
	return s.proto
}

func (s *State) Info() Info {
	return s.info
}

func (s *State) Call() string {
	return s.call
}

// Untouched reports whether the filter chain left the raw body as it was.
func (s *State) Untouched() bool {
	str, ok := s.filtered.(string)
	return ok && str == s.raw
}

func (s *State) transportFailed() bool {
	return s.code == 0 || s.code >= 500
}
