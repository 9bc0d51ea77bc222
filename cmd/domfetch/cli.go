package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/domfetch"
	"github.com/fwojciec/domfetch/chardet"
	"github.com/fwojciec/domfetch/fs"
	"github.com/fwojciec/domfetch/htmltomarkdown"
	domhttp "github.com/fwojciec/domfetch/http"
	"github.com/fwojciec/domfetch/pipeline"
	"github.com/fwojciec/domfetch/readability"
	"github.com/fwojciec/domfetch/rod"
	domslog "github.com/fwojciec/domfetch/slog"
	"github.com/fwojciec/domfetch/trafilatura"
)

// stdinSource names standard input as a string-mode source.
const stdinSource = "-"

// Dependencies holds the process resources available to a command.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Output      string        `short:"o" env:"DOMFETCH_OUTPUT" help:"Output shape: object, children, html or breakdown"`
	Source      string        `short:"s" default:"url" env:"DOMFETCH_SOURCE" help:"How sources are read: url, file, string or headless"`
	Timeout     time.Duration `short:"t" default:"30s" env:"DOMFETCH_TIMEOUT" help:"Fetch or render timeout per source"`
	MaxPages    int64         `name:"max-pages" default:"4" help:"Concurrent headless pages"`
	Stealth     bool          `help:"Open headless pages in stealth mode"`
	RenderDelay time.Duration `name:"render-delay" help:"Extra wait after a headless page settles"`
	Idle        time.Duration `default:"500ms" help:"How long network and DOM must stay quiet before a headless page counts as rendered"`
	BrowserURL  string        `name:"browser-url" env:"DOMFETCH_BROWSER_URL" help:"DevTools URL of a running browser to use instead of launching Chrome"`
	ChromeBin   string        `name:"chrome-bin" env:"DOMFETCH_CHROME_BIN" help:"Chrome binary to launch in headless mode"`
	Rate        float64       `help:"Requests per second per host in url mode (0 disables)"`
	Concurrency int           `short:"c" default:"4" help:"Sources processed concurrently"`
	MainContent string        `name:"main-content" enum:"none,readability,trafilatura" default:"none" help:"Select only within the main content found by readability or trafilatura"`
	Markdown    bool          `help:"Render markup results as Markdown"`
	JSON        bool          `name:"json" help:"Print results as JSON"`
	Out         string        `help:"Write results to this file instead of stdout" type:"path"`
	Verbose     bool          `short:"v" help:"Log debug output to stderr"`
	Selector    string        `arg:"" help:"CSS selector"`
	Sources     []string      `arg:"" help:"URLs, paths or markup, depending on --source (- reads markup from stdin)"`
}

// Run selects elements from every source and prints the results in
// source order.
func (c *CLI) Run(deps *Dependencies) error {
	if err := c.run(deps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domfetch.ErrorMessage(err))
		if domfetch.ErrorCode(err) == domfetch.EUNAVAILABLE && c.Source == string(domfetch.SourceHeadless) {
			if c.BrowserURL != "" {
				fmt.Fprintln(deps.Stderr, "Hint: check that the browser at --browser-url is running")
			} else {
				fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			}
		}
		return err
	}
	return nil
}

func (c *CLI) run(deps *Dependencies) error {
	opts := domfetch.Options{Output: c.Output, Source: c.Source}
	_, source, err := opts.Validate()
	if err != nil {
		return err
	}

	inputs, err := c.inputs(source, deps.Stdin)
	if err != nil {
		return err
	}

	logger := newLogger(deps.Stderr, c.Verbose)
	pipeOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithConcurrency(c.Concurrency),
		pipeline.WithResolver(domfetch.SourceFile, domslog.NewLoggingResolver(fs.NewReader(), domfetch.SourceFile, logger)),
		pipeline.WithResolver(domfetch.SourceString, domslog.NewLoggingResolver(chardet.NewDecoder(), domfetch.SourceString, logger)),
	}

	switch c.MainContent {
	case "readability":
		pipeOpts = append(pipeOpts, pipeline.WithExtractor(readability.NewExtractor(nil)))
	case "trafilatura":
		pipeOpts = append(pipeOpts, pipeline.WithExtractor(trafilatura.NewExtractor()))
	}

	// Chrome is only started for headless sources.
	switch source {
	case domfetch.SourceURL:
		fetcher := domhttp.NewFetcher(
			domhttp.WithTimeout(c.Timeout),
			domhttp.WithRateLimit(c.Rate),
			domhttp.WithLogger(logger),
		)
		defer fetcher.Close()
		pipeOpts = append(pipeOpts, pipeline.WithFetcher(domfetch.SourceURL, domslog.NewLoggingFetcher(fetcher, logger)))
	case domfetch.SourceHeadless:
		manager := rod.NewBrowserManager(
			rod.WithRemoteURL(c.BrowserURL),
			rod.WithBrowserBin(c.ChromeBin),
			rod.WithManagerLogger(logger),
		)
		defer manager.Close()
		renderer := rod.NewRenderer(
			rod.WithManager(manager),
			rod.WithRenderTimeout(c.Timeout),
			rod.WithMaxPages(c.MaxPages),
			rod.WithIdleWindow(c.Idle),
			rod.WithStealth(c.Stealth),
			rod.WithRenderDelay(c.RenderDelay),
			rod.WithLogger(logger),
		)
		defer renderer.Close()
		pipeOpts = append(pipeOpts, pipeline.WithFetcher(domfetch.SourceHeadless, domslog.NewLoggingFetcher(renderer, logger)))
	}

	results, err := pipeline.New(pipeOpts...).SelectAll(deps.Ctx, inputs, c.Selector, opts)
	if err != nil {
		return err
	}

	if c.Markdown {
		conv := htmltomarkdown.NewConverter()
		for i, values := range results {
			if results[i], err = conv.ConvertValues(values); err != nil {
				return err
			}
		}
	}

	var out []byte
	if c.JSON {
		out, err = renderJSON(c.Sources, results)
	} else {
		out, err = renderText(c.Sources, results)
	}
	if err != nil {
		return err
	}

	if c.Out != "" {
		if err := fs.WriteFile(c.Out, out); err != nil {
			return domfetch.Errorf(domfetch.EINVALID, "writing %s: %v", c.Out, err)
		}
		return nil
	}
	_, err = deps.Stdout.Write(out)
	return err
}

// inputs builds one Input per source. Standard input is read at most once.
func (c *CLI) inputs(source domfetch.SourceMode, stdin io.Reader) ([]*domfetch.Input, error) {
	var piped []byte
	inputs := make([]*domfetch.Input, 0, len(c.Sources))
	for _, s := range c.Sources {
		if source != domfetch.SourceString || s != stdinSource {
			inputs = append(inputs, domfetch.Text(s))
			continue
		}
		if piped == nil {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, domfetch.Errorf(domfetch.ENOCONTENT, "no content read: %v", err)
			}
			piped = data
		}
		inputs = append(inputs, domfetch.Bytes(piped))
	}
	return inputs, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
