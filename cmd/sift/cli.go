package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/sift"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Service sift.SearchService
	Metrics http.Handler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config `embed:""`

	Search SearchCmd `cmd:"" help:"Search the web and print cleaned page content"`
	Serve  ServeCmd  `cmd:"" help:"Serve searches over HTTP"`
}

// Config is the pipeline configuration shared by all commands.
type Config struct {
	APIKey        string  `name:"api-key" env:"SERPER_API_KEY" help:"Serper API key"`
	Engine        string  `env:"SEARCH_ENGINE" default:"google" help:"Serper engine subdomain"`
	Country       string  `env:"SEARCH_COUNTRY" default:"fr" help:"Search country code"`
	Language      string  `env:"SEARCH_LANGUAGE" default:"fr" help:"Search language code"`
	Concurrency   int     `env:"FETCH_CONCURRENCY" default:"2" help:"Pages fetched at once"`
	Browser       string  `env:"SIFT_BROWSER" default:"rod" enum:"rod,chromedp" help:"Browser backend (rod, chromedp)"`
	ChromeBin     string  `name:"chrome-bin" env:"CHROME_BIN" help:"Path to the Chrome binary"`
	Extractor     string  `env:"SIFT_EXTRACTOR" default:"heuristic" enum:"heuristic,readability,trafilatura" help:"Content extractor (heuristic, readability, trafilatura)"`
	MinTextLength int     `name:"min-text-length" env:"SIFT_MIN_TEXT_LENGTH" default:"300" help:"Minimum text length of a content element"`
	MinRatio      float64 `name:"min-ratio" env:"SIFT_MIN_RATIO" default:"0.3" help:"Minimum share of the page text in a content element"`
	DomainRPS     float64 `name:"domain-rps" env:"SIFT_DOMAIN_RPS" default:"2" help:"Navigations per second per host"`
	Tokenizer     string  `env:"SIFT_TOKENIZER" default:"gemini" enum:"gemini,tiktoken" help:"Tokenizer family (gemini, tiktoken)"`
	TokenModel    string  `name:"token-model" env:"SIFT_TOKEN_MODEL" help:"Model whose tokenizer enforces --max-tokens"`
	LogLevel      string  `name:"log-level" env:"SIFT_LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query     []string      `arg:"" help:"Search query"`
	Limit     int           `short:"n" default:"5" help:"Maximum number of results"`
	Timeout   time.Duration `short:"t" default:"15s" help:"Navigation timeout per page"`
	MaxTokens int           `name:"max-tokens" default:"0" help:"Trim each page to this many tokens (0 = unlimited)"`
	Format    string        `short:"f" default:"markdown" enum:"markdown,json" help:"Output format (markdown, json)"`
	Quiet     bool          `short:"q" help:"Do not report progress"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" env:"SIFT_ADDR" help:"Listen address"`
}
