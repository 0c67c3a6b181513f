package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sift"
	"github.com/fwojciec/sift/chromedp"
	"github.com/fwojciec/sift/gemini"
	"github.com/fwojciec/sift/goquery"
	"github.com/fwojciec/sift/htmltomarkdown"
	sifthttp "github.com/fwojciec/sift/http"
	siftprom "github.com/fwojciec/sift/prometheus"
	"github.com/fwojciec/sift/readability"
	"github.com/fwojciec/sift/rod"
	"github.com/fwojciec/sift/search"
	"github.com/fwojciec/sift/tiktoken"
	siftslog "github.com/fwojciec/sift/slog"
	"github.com/fwojciec/sift/trafilatura"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Service handles searches. When nil, Run wires the real pipeline.
	Service sift.SearchService

	// Metrics is served at /metrics in serve mode.
	Metrics http.Handler

	// Browser is closed when Run returns.
	Browser sift.Browser

	// WireFn replaces pipeline construction when set. It must set Service.
	WireFn func(cfg Config, logger *slog.Logger, p Pipeline) error
}

// Pipeline lists what the selected command needs from the wired pipeline.
type Pipeline struct {
	// Tokens builds a token counter for output budgets.
	Tokens bool

	// Progress receives per-page events. Nil disables reporting.
	Progress search.ProgressFunc
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases the browser, if one was started.
func (m *Main) Close() error {
	if m.Browser != nil {
		return m.Browser.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sift"),
		kong.Description("Search the web and turn result pages into clean text."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sift --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(stderr, cli.LogLevel)
	if err != nil {
		return err
	}
	deps.Logger = logger

	if m.Service == nil {
		var p Pipeline
		switch commandName(kongCtx) {
		case "serve":
			p.Tokens = true
		case "search":
			p.Tokens = cli.Search.MaxTokens > 0
			if !cli.Search.Quiet {
				p.Progress = progressPrinter(stderr)
			}
		}
		wire := m.wire
		if m.WireFn != nil {
			wire = m.WireFn
		}
		if err := wire(cli.Config, logger, p); err != nil {
			return err
		}
	}
	defer m.Close()

	deps.Service = m.Service
	deps.Metrics = m.Metrics

	return kongCtx.Run(deps)
}

// commandName returns the selected subcommand without its arguments.
func commandName(ctx *kong.Context) string {
	if fields := strings.Fields(ctx.Command()); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// wire builds the search pipeline from cfg.
func (m *Main) wire(cfg Config, logger *slog.Logger, p Pipeline) error {
	browser, err := newBrowser(cfg)
	if err != nil {
		return err
	}
	m.Browser = rod.NewLoggingBrowser(browser, logger)

	extractor, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	var tokens sift.TokenCounter
	if p.Tokens {
		tc, err := newTokenCounter(cfg)
		if err != nil {
			logger.Warn("token budgets disabled", "err", err)
		} else {
			tokens = tc
		}
	}

	searcher := sifthttp.NewSearchClient(cfg.APIKey,
		sifthttp.WithEngine(cfg.Engine),
		sifthttp.WithLocale(cfg.Country, cfg.Language),
	)

	fetcher := &search.Fetcher{
		Browser:    m.Browser,
		Obstacles:  search.NewObstacleHandler(logger),
		Extractor:  siftslog.NewLoggingExtractor(extractor, logger),
		Normalizer: htmltomarkdown.NewNormalizer(),
		Detector:   goquery.NewConsentDetector(),
		Limiter:    search.NewDomainLimiter(cfg.DomainRPS),
		Fallback:   sifthttp.NewFetcher(sifthttp.WithUserAgent(sift.DefaultUserAgent)),
		Logger:     logger,
	}

	svc := &search.Service{
		Searcher:     siftslog.NewLoggingSearcher(searcher, logger),
		Fetcher:      siftslog.NewLoggingContentFetcher(fetcher, logger),
		TokenCounter: tokens,
		Concurrency:  cfg.Concurrency,
		Progress:     p.Progress,
		Logger:       logger,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.Service = siftprom.NewService(svc, siftprom.NewMetrics(reg))
	m.Metrics = siftprom.Handler(reg)
	return nil
}

func newTokenCounter(cfg Config) (sift.TokenCounter, error) {
	switch cfg.Tokenizer {
	case "gemini":
		return gemini.NewTokenCounter(cfg.TokenModel)
	case "tiktoken":
		return tiktoken.NewTokenCounter(cfg.TokenModel)
	}
	return nil, sift.Errorf(sift.EINVALID, "unknown tokenizer %q", cfg.Tokenizer)
}

func newBrowser(cfg Config) (sift.Browser, error) {
	switch cfg.Browser {
	case "rod":
		return rod.NewBrowserManager(rod.WithBin(cfg.ChromeBin)), nil
	case "chromedp":
		return chromedp.NewBrowser(chromedp.WithExecPath(cfg.ChromeBin)), nil
	}
	return nil, sift.Errorf(sift.EINVALID, "unknown browser %q", cfg.Browser)
}

func newExtractor(cfg Config) (sift.Extractor, error) {
	switch cfg.Extractor {
	case "heuristic":
		return goquery.NewExtractor(
			goquery.WithMinTextLength(cfg.MinTextLength),
			goquery.WithMinRatio(cfg.MinRatio),
		), nil
	case "readability":
		return readability.NewExtractor(), nil
	case "trafilatura":
		return trafilatura.NewExtractor(), nil
	}
	return nil, sift.Errorf(sift.EINVALID, "unknown extractor %q", cfg.Extractor)
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, sift.Errorf(sift.EINVALID, "invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// progressPrinter reports fetch progress on w.
func progressPrinter(w io.Writer) search.ProgressFunc {
	return func(e search.ProgressEvent) {
		switch e.Type {
		case search.ProgressCompleted:
			fmt.Fprintf(w, "[%d/%d] %s\n", e.Completed, e.Total, e.URL)
		case search.ProgressFailed:
			fmt.Fprintf(w, "[%d/%d] %s (no content)\n", e.Completed, e.Total, e.URL)
		}
	}
}
