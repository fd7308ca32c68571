package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/diplomat/packages/handler"
	"github.com/abdul-hamid-achik/diplomat/packages/history"
)

// JSONResponse represents one classified response
type JSONResponse struct {
	Outcome    string            `json:"outcome"`
	Method     string            `json:"method"`
	URL        string            `json:"url"`
	RequestID  string            `json:"requestId,omitempty"`
	StatusCode int               `json:"statusCode"`
	Proto      string            `json:"proto,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       any               `json:"body,omitempty"`
	Call       string            `json:"call"`
	Duration   float64           `json:"duration"`
	Error      string            `json:"error,omitempty"`
}

// JSONHistoryEntry represents one recorded call
type JSONHistoryEntry struct {
	RequestID string  `json:"requestId"`
	Method    string  `json:"method"`
	URL       string  `json:"url"`
	Call      string  `json:"call"`
	Code      int     `json:"statusCode"`
	Outcome   string  `json:"outcome"`
	Duration  float64 `json:"duration"`
	Time      string  `json:"time"`
}

// JSONFormatter formats responses as JSON
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) encode(v any) {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(v)
}

func (f *JSONFormatter) FormatResponse(resp handler.Response, outcome handler.Outcome) {
	info := resp.Info()
	out := JSONResponse{
		Outcome:    outcome.String(),
		Method:     info.Method,
		URL:        info.URL,
		RequestID:  info.RequestID,
		StatusCode: resp.Code(),
		Proto:      resp.Proto(),
		Headers:    resp.Headers(),
		Body:       jsonBody(resp.FilteredResponse()),
		Call:       resp.Call(),
		Duration:   float64(info.Duration.Milliseconds()),
	}
	if info.Err != nil {
		out.Error = info.Err.Error()
	}
	f.encode(out)
}

// jsonBody keeps decoded payloads structured and XML trees readable.
func jsonBody(v any) any {
	switch val := v.(type) {
	case *handler.XMLNode:
		if val == nil {
			return nil
		}
		return xmlTree(val)
	case []byte:
		return string(val)
	}
	return v
}

func (f *JSONFormatter) FormatHistory(entries []history.Entry) {
	out := make([]JSONHistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, JSONHistoryEntry{
			RequestID: e.RequestID,
			Method:    e.Method,
			URL:       e.URL,
			Call:      e.Call,
			Code:      e.Code,
			Outcome:   e.Outcome,
			Duration:  float64(e.Duration.Milliseconds()),
			Time:      e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	f.encode(out)
}

func (f *JSONFormatter) FormatError(err error) {
	f.encode(map[string]string{"error": err.Error()})
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}
