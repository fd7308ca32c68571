package output

import (
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/diplomat/packages/handler"
	"github.com/abdul-hamid-achik/diplomat/packages/history"
)

// Formatter renders the result of one request cycle.
type Formatter interface {
	FormatResponse(resp handler.Response, outcome handler.Outcome)
	FormatHistory(entries []history.Entry)
	FormatError(err error)
	FormatHeader(version string)
}

var (
	_ Formatter = (*ConsoleFormatter)(nil)
	_ Formatter = (*JSONFormatter)(nil)
)

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string, w io.Writer, verbose, noColor bool) (Formatter, error) {
	switch name {
	case "", "console":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(verbose), WithNoColor(noColor)), nil
	case "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (expected console or json)", name)
	}
}
