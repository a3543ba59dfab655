package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/marcelsud/pingback/internal/logger"
	"github.com/marcelsud/pingback/pingback"
	"github.com/marcelsud/pingback/pingback/fetch"
	"github.com/marcelsud/pingback/pingback/xmlrpc"
	"github.com/marcelsud/pingback/posts"
	"github.com/rs/zerolog"
)

type CLI struct {
	LogLevel  string  `name:"log-level" default:"warn" enum:"trace,debug,info,warn,error" help:"Log level for diagnostics on stderr"`
	FetchRate float64 `name:"fetch-rate" default:"0" help:"Maximum outgoing requests per second, 0 is unlimited"`
	Host      string  `name:"host" help:"Site host used to resolve ../ references"`
	Secure    bool    `name:"secure" help:"Resolve ../ references with https"`

	Inspect      inspectCommand      `cmd:"" help:"Send pingbacks for every link of a page"`
	InspectPosts inspectPostsCommand `cmd:"" name:"inspect-posts" help:"Send pingbacks for every enabled post in posts.yaml"`
	Discover     discoverCommand     `cmd:"" help:"Print the pingback endpoint of a page"`
	Ping         pingCommand         `cmd:"" help:"Send a single pingback.ping call and print the reply"`
}

// Context is handed to every command
type Context struct {
	context.Context
	fetcher fetch.Fetcher
	logger  zerolog.Logger
	host    pingback.HostContext
}

func (c *Context) newPingback() *pingback.Pingback {
	return pingback.New(c.fetcher,
		pingback.WithLogger(c.logger),
		pingback.WithHost(c.host),
	)
}

type inspectCommand struct {
	SourceURL string `arg:"" name:"source-url" help:"Page whose links are pinged"`
}

func (cmd *inspectCommand) Run(c *Context) error {
	p := c.newPingback()
	p.Inspect(c, cmd.SourceURL)
	printLog(p.Log())
	return nil
}

type inspectPostsCommand struct {
	File string `name:"file" default:"posts.yaml" type:"path" help:"Posts file"`
}

func (cmd *inspectPostsCommand) Run(c *Context) error {
	loader := posts.NewLoader()
	if err := loader.Load(cmd.File); err != nil {
		return err
	}

	for _, post := range loader.Enabled() {
		fmt.Printf("%s\n", post.URL)
		p := c.newPingback()
		p.Inspect(c, post.URL)
		printLog(p.Log())
	}
	return nil
}

type discoverCommand struct {
	URL string `arg:"" name:"url" help:"Page to look up"`
}

func (cmd *discoverCommand) Run(c *Context) error {
	endpoint, ok := c.newPingback().Discover(c, cmd.URL)
	if !ok {
		return fmt.Errorf("%s does not accept pingbacks", cmd.URL)
	}
	fmt.Println(endpoint)
	return nil
}

type pingCommand struct {
	Endpoint string `arg:"" help:"XML-RPC endpoint"`
	Source   string `arg:"" help:"Page that links to the target"`
	Target   string `arg:"" help:"Page being linked to"`
}

func (cmd *pingCommand) Run(c *Context) error {
	res := c.fetcher.Fetch(c, cmd.Endpoint,
		fetch.WithMethod(http.MethodPost),
		fetch.WithHeader("Content-Type", "text/xml"),
		fetch.WithBody(xmlrpc.EncodePing(cmd.Source, cmd.Target)),
	)
	if res.Err != nil {
		return fmt.Errorf("sending ping: %w", res.Err)
	}

	resp, err := xmlrpc.DecodeResponse([]byte(res.Body))
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if resp.Fault != nil {
		// keep the remote explanation, servers word faults their own way
		return pingback.Fault{Code: resp.Fault.Code, Message: resp.Fault.Message}
	}
	for _, param := range resp.Params {
		fmt.Println(param)
	}
	return nil
}

func printLog(log *pingback.Log) {
	if log.Len() == 0 {
		fmt.Println("no pingback sent")
		return
	}
	fmt.Print(log.String())
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("pingback"),
		kong.Description("Send and inspect pingbacks from the command line."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher, err := fetch.NewHTTPFetcher(fetch.WithRateLimit(cli.FetchRate))
	kctx.FatalIfErrorf(err)

	err = kctx.Run(&Context{
		Context: ctx,
		fetcher: fetcher,
		logger:  logger.New(logger.Options{Service: "pingback-cli", Level: cli.LogLevel}),
		host:    pingback.HostContext{Host: cli.Host, Secure: cli.Secure},
	})

	var fault pingback.Fault
	if errors.As(err, &fault) {
		fmt.Fprintf(os.Stderr, "fault %d: %s\n", fault.Code, fault.Message)
		os.Exit(2)
	}
	kctx.FatalIfErrorf(err)
}
