package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/external/summarizerapi"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/workflow"
)

var cli struct {
	Server   string        `help:"Base URL of the summarizer server." default:"http://localhost:3001" env:"MEETSUM_SERVER"`
	Interval time.Duration `help:"Delay between transcript status requests." default:"3s"`
	MaxPolls int           `help:"Give up after this many status requests (0 = unlimited)." default:"0" name:"max-polls"`
	Verbose  bool          `help:"Log workflow events to stderr." short:"v"`

	Audio string `arg:"" help:"Audio recording to transcribe and summarize." type:"existingfile"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("meetsum"),
		kong.Description("Transcribe a meeting recording and print its summary, key decisions and action items."),
		kong.UsageOnError(),
	)

	logger := zap.NewNop()
	if cli.Verbose {
		l, err := zap.NewDevelopment()
		kctx.FatalIfErrorf(err)
		logger = l
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := summarizerapi.NewClient(cli.Server, &http.Client{}, logger)
	poller := workflow.NewPoller(client.TranscriptStatus,
		workflow.WithInterval(cli.Interval),
		workflow.WithMaxPolls(cli.MaxPolls),
		workflow.WithPollerLogger(logger),
	)
	ctrl := workflow.NewController(client, poller, logger)

	var last workflow.Status
	ctrl.OnChange(func(s workflow.State) {
		if s.Status == last || s.Status == workflow.StatusIdle {
			return
		}
		last = s.Status
		fmt.Fprintln(os.Stdout, presenter.RenderSteps(presenter.ToSteps(s)))
	})

	path := cli.Audio
	err := ctrl.SelectFile(workflow.File{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	})
	kctx.FatalIfErrorf(err)

	if err := ctrl.Analyze(ctx); err != nil {
		logger.Debug("analysis stopped", zap.Error(err))
	}

	final := ctrl.State()
	fmt.Fprintln(os.Stdout)
	fmt.Fprint(os.Stdout, presenter.RenderWorkflow(final))

	switch {
	case ctx.Err() != nil && final.Status != workflow.StatusCompleted:
		fmt.Fprintln(os.Stderr, "interrupted")
		os.Exit(130)
	case final.Status != workflow.StatusCompleted:
		os.Exit(1)
	}
}
