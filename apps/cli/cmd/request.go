package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/diplomat/packages/core/config"
	"github.com/abdul-hamid-achik/diplomat/packages/dispatch"
	"github.com/abdul-hamid-achik/diplomat/packages/handler"
	"github.com/abdul-hamid-achik/diplomat/packages/history"
	"github.com/abdul-hamid-achik/diplomat/packages/http"
	"github.com/abdul-hamid-achik/diplomat/packages/metrics"
	"github.com/abdul-hamid-achik/diplomat/packages/output"
)

var requestMethods = []string{"GET", "HEAD", "DELETE", "OPTIONS", "POST", "PUT", "PATCH", "TRACE"}

// requestOptions are the flags of one request command.
type requestOptions struct {
	headers    []string
	data       []string
	files      []string
	insecure   bool
	multipart  bool
	classifier string
	marker     string
	selectPath string
	schemaPath string
	curl       bool
	rate       float64
	timeout    string
	userAgent  string
	metrics    bool

	user         string
	bearer       string
	tokenURL     string
	clientID     string
	clientSecret string
	scopes       []string
}

func newRequestCmd(global *globalOptions, method string) *cobra.Command {
	opts := &requestOptions{}
	name := strings.ToLower(method)

	cmd := &cobra.Command{
		Use:   name + " <destination> [page]",
		Short: fmt.Sprintf("Send a %s request", method),
		Long: fmt.Sprintf(`Send a %[1]s request and print the classified response.

The destination is [scheme://]host[:port][/path]; https is assumed when no
scheme is given. The optional page is appended to it.

Examples:
  diplomat %[2]s api.example.com /users
  diplomat %[2]s http://localhost:8080 users -d page=2 -H "Accept: application/json"
  diplomat %[2]s api.example.com /quote --classifier json --marker Message
  diplomat %[2]s api.example.com /upload -F avatar=@me.png;type=image/png`, method, name),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, global, opts, method, args)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, "Request header (\"Name: value\"), repeatable")
	flags.StringArrayVarP(&opts.data, "data", "d", nil, "Request data (key=value, user[name]=x, ids[]=1), repeatable")
	flags.StringArrayVarP(&opts.files, "form", "F", nil, "File upload (name=@path[;type=mime][;filename=name]), repeatable")
	flags.BoolVarP(&opts.insecure, "insecure", "k", false, "Disable SSL certificate validation")
	flags.BoolVar(&opts.multipart, "multipart", false, "Send data as multipart/form-data even without files")
	flags.StringVarP(&opts.classifier, "classifier", "c", "", fmt.Sprintf("Response classifier: %s", strings.Join(handler.Kinds(), ", ")))
	flags.StringVar(&opts.marker, "marker", "", "Field marking a decoded payload as failed (default \"Message\")")
	flags.StringVar(&opts.selectPath, "select", "", "Narrow the response to a gjson path")
	flags.StringVar(&opts.schemaPath, "schema", "", "JSON schema file the response must satisfy")
	flags.BoolVar(&opts.curl, "curl", false, "Print the equivalent curl command")
	flags.Float64Var(&opts.rate, "rate", 0, "Maximum requests per second")
	flags.StringVar(&opts.timeout, "timeout", "", "Request timeout (e.g. 30s, 500ms)")
	flags.StringVarP(&opts.userAgent, "user-agent", "A", "", "User-Agent header")
	flags.BoolVar(&opts.metrics, "metrics", false, "Print Prometheus metrics for the call to stderr")

	// Auth flags
	flags.StringVarP(&opts.user, "user", "u", "", "Basic auth credentials (user:password)")
	flags.StringVar(&opts.bearer, "bearer", "", "Bearer token")
	flags.StringVar(&opts.tokenURL, "oauth2-token-url", "", "OAuth2 token endpoint (client credentials grant)")
	flags.StringVar(&opts.clientID, "oauth2-client-id", "", "OAuth2 client id")
	flags.StringVar(&opts.clientSecret, "oauth2-client-secret", "", "OAuth2 client secret")
	flags.StringSliceVar(&opts.scopes, "oauth2-scope", nil, "OAuth2 scopes, repeatable or comma-separated")

	return cmd
}

// apply layers the command line flags over the loaded configuration.
func (o *requestOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("insecure") {
		cfg.Insecure = config.BoolPtr(o.insecure)
	}
	if flags.Changed("multipart") {
		cfg.Multipart = config.BoolPtr(o.multipart)
	}
	if o.classifier != "" {
		cfg.Classifier = o.classifier
	}
	if o.marker != "" {
		cfg.Marker = o.marker
	}
	if o.rate != 0 {
		cfg.RateLimit = o.rate
	}
	if o.userAgent != "" {
		cfg.UserAgent = o.userAgent
	}
	if o.user != "" {
		cfg.User = o.user
	}
	if o.bearer != "" {
		cfg.Token = o.bearer
	}
	if o.tokenURL != "" {
		cfg.OAuth2 = config.OAuth2Config{
			TokenURL:     o.tokenURL,
			ClientID:     o.clientID,
			ClientSecret: o.clientSecret,
			Scopes:       o.scopes,
		}
	}
	if o.timeout != "" {
		d, err := parseTimeout(o.timeout)
		if err != nil {
			return err
		}
		cfg.Timeout = int(d.Milliseconds())
	}
	if len(o.headers) > 0 {
		headers, err := parseHeaders(o.headers)
		if err != nil {
			return err
		}
		*cfg = *cfg.Merge(&config.Config{Headers: headers})
	}
	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout value %q: must be positive", s)
	}
	return d, nil
}

func runRequest(cmd *cobra.Command, global *globalOptions, opts *requestOptions, method string, args []string) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return exitWith(ExitConfigError, err)
	}
	cfg.Destination = args[0]
	if err := opts.apply(cmd, cfg); err != nil {
		return exitWith(ExitUsageError, err)
	}
	if err := cfg.Validate(); err != nil {
		return exitWith(ExitConfigError, err)
	}

	page := ""
	if len(args) > 1 {
		page = args[1]
	}
	data, err := parseData(opts.data)
	if err != nil {
		return exitWith(ExitUsageError, err)
	}
	files, err := parseFiles(opts.files)
	if err != nil {
		return exitWith(ExitUsageError, err)
	}

	classifier, err := cfg.NewClassifier()
	if err != nil {
		return exitWith(ExitConfigError, err)
	}
	if err := addFilters(classifier, opts); err != nil {
		return exitWith(ExitConfigError, err)
	}

	formatter, err := output.NewFormatter(global.output, cmd.OutOrStdout(), cfg.GetVerbose(), cfg.GetNoColor())
	if err != nil {
		return exitWith(ExitUsageError, err)
	}
	if console, ok := formatter.(*output.ConsoleFormatter); ok {
		output.WithCurl(opts.curl)(console)
	}

	clientOpts, err := cfg.ClientOptions()
	if err != nil {
		return exitWith(ExitConfigError, err)
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.GetVerbose())
	clientOpts = append(clientOpts, http.WithLogger(logger))

	registry := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(registry)
	if err != nil {
		return exitWith(ExitErrored, err)
	}
	clientOpts = append(clientOpts, http.WithMetrics(collector))

	if cfg.History != "" {
		store, err := history.Open(cfg.History)
		if err != nil {
			return exitWith(ExitConfigError, err)
		}
		defer store.Close()
		clientOpts = append(clientOpts, http.WithHistory(store))
	}

	client, err := http.NewClient(cfg.Destination, classifier, clientOpts...)
	if err != nil {
		return exitWith(ExitConfigError, err)
	}

	render := dispatch.Func(renderOutcome)
	client.ResetHandlersAfterRequest(cfg.GetResetHandlers()).
		OnError(render, formatter, handler.OutcomeErrored).
		OnFailure(render, formatter, handler.OutcomeFailed).
		OnSuccess(render, formatter, handler.OutcomeSuccessful)

	result, err := client.Do(cmd.Context(), method, page, data, files)
	if err != nil {
		return exitWith(ExitErrored, err)
	}

	if opts.metrics {
		if err := writeMetrics(cmd.ErrOrStderr(), registry); err != nil {
			logger.Warn("metrics not written", "error", err)
		}
	}

	code, ok := result.(int)
	if !ok {
		// no slot applied: the classifier labelled nothing
		formatter.FormatResponse(client.Classifier(), handler.OutcomeNone)
		code = ExitErrored
	}
	if code != ExitSuccess {
		return exitWith(code, nil)
	}
	return nil
}

// renderOutcome prints the response and returns the exit code. It is bound
// with the formatter and the outcome it handles.
func renderOutcome(args ...any) (any, error) {
	c, err := dispatch.ClassifierArg(args)
	if err != nil {
		return nil, err
	}
	if len(args) != 3 {
		return nil, fmt.Errorf("render: expected formatter and outcome, got %d arguments", len(args)-1)
	}
	formatter, ok := args[0].(output.Formatter)
	if !ok {
		return nil, fmt.Errorf("render: %T is not a formatter", args[0])
	}
	outcome, ok := args[1].(handler.Outcome)
	if !ok {
		return nil, fmt.Errorf("render: %T is not an outcome", args[1])
	}

	formatter.FormatResponse(c, outcome)
	return exitCodeFor(outcome), nil
}

// filterable is implemented by every classifier that embeds handler.State.
type filterable interface {
	Filter(fn handler.FilterFunc, args ...any) *handler.State
}

// addFilters appends the schema gate and the select filter after the
// classifier's own decode filter.
func addFilters(c handler.Classifier, opts *requestOptions) error {
	if opts.schemaPath == "" && opts.selectPath == "" {
		return nil
	}
	f, ok := c.(filterable)
	if !ok {
		return fmt.Errorf("classifier %T does not accept filters", c)
	}

	if opts.schemaPath != "" {
		schema, err := os.ReadFile(opts.schemaPath)
		if err != nil {
			return fmt.Errorf("reading schema: %w", err)
		}
		f.Filter(handler.Schema, string(schema))
	}
	if opts.selectPath != "" {
		f.Filter(handler.Select, opts.selectPath)
	}
	return nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
