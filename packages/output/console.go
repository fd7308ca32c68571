package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/diplomat/packages/handler"
	"github.com/abdul-hamid-achik/diplomat/packages/history"
)

// formatValue formats a filtered response for display
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case *handler.XMLNode:
		return formatXML(val)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func formatXML(n *handler.XMLNode) string {
	if n == nil {
		return ""
	}
	data, err := json.MarshalIndent(xmlTree(n), "", "  ")
	if err != nil {
		return n.Content
	}
	return string(data)
}

// xmlTree turns a node into maps so it prints like a decoded JSON payload.
func xmlTree(n *handler.XMLNode) map[string]any {
	out := map[string]any{}
	for _, a := range n.Attrs {
		out["@"+a.Name.Local] = a.Value
	}
	for _, child := range n.Nodes {
		name := child.Name()
		var v any = child.Content
		if len(child.Nodes) > 0 || len(child.Attrs) > 0 {
			v = xmlTree(child)
		}
		out[name] = v
	}
	if len(n.Nodes) == 0 && n.Content != "" {
		out["#text"] = n.Content
	}
	return map[string]any{n.Name(): out}
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
	curl    bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// WithCurl prints the curl equivalent of each call.
func WithCurl(show bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.curl = show
	}
}

func outcomeLabel(outcome handler.Outcome) string {
	switch outcome {
	case handler.OutcomeSuccessful:
		return color.New(color.FgGreen, color.Bold).Sprint("✓ successful")
	case handler.OutcomeFailed:
		return color.New(color.FgYellow, color.Bold).Sprint("✗ failed")
	case handler.OutcomeErrored:
		return color.New(color.FgRed, color.Bold).Sprint("x errored")
	default:
		return color.New(color.Faint).Sprint("- unclassified")
	}
}

func (f *ConsoleFormatter) FormatResponse(resp handler.Response, outcome handler.Outcome) {
	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	info := resp.Info()
	fmt.Fprintf(f.writer, "%s %s %s %s\n", outcomeLabel(outcome), info.Method, info.URL,
		cyan(fmt.Sprintf("(%dms)", info.Duration.Milliseconds())))

	if resp.Code() == 0 {
		fmt.Fprintf(f.writer, "  Status: %s\n", color.RedString("no response"))
	} else {
		fmt.Fprintf(f.writer, "  Status: %d\n", resp.Code())
	}

	if f.curl {
		fmt.Fprintf(f.writer, "  %s\n", faint(resp.Call()))
	}

	if f.verbose {
		if resp.Proto() != "" {
			fmt.Fprintf(f.writer, "  %s\n", resp.Proto())
		}
		headers := resp.Headers()
		names := make([]string, 0, len(headers))
		for name := range headers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(f.writer, "  %s: %s\n", cyan(name), headers[name])
		}
		if info.RequestID != "" {
			fmt.Fprintf(f.writer, "  %s\n", faint("request id "+info.RequestID))
		}
	}

	if body := formatValue(resp.FilteredResponse()); body != "" {
		fmt.Fprintf(f.writer, "\n%s\n", body)
	}
}

func (f *ConsoleFormatter) FormatHistory(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(f.writer, "No calls recorded.\n")
		return
	}
	for _, e := range entries {
		outcome := e.Outcome
		switch e.Outcome {
		case handler.OutcomeSuccessful.String():
			outcome = color.GreenString(outcome)
		case handler.OutcomeFailed.String():
			outcome = color.YellowString(outcome)
		case handler.OutcomeErrored.String():
			outcome = color.RedString(outcome)
		}
		fmt.Fprintf(f.writer, "%s  %-7s %3d %-10s %s %s\n",
			e.CreatedAt.Local().Format(time.DateTime), e.Method, e.Code, outcome, e.URL,
			color.CyanString("(%dms)", e.Duration.Milliseconds()))
		if f.verbose {
			fmt.Fprintf(f.writer, "    %s\n", e.Call)
		}
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("diplomat"), version)
}
