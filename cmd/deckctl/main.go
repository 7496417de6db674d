// Command deckctl submits a presentation request to the backend from a
// terminal and prints each state the submission goes through.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/config"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/logger"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/presentation"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/submission"
)

var errGenerationFailed = errors.New("presentation was not created")

type submitOptions struct {
	endpoint     string
	topic        string
	slides       int
	style        string
	requirements string
	verbose      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "deckctl",
		Short:        "Request slide decks from the presentation backend",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(out)
	root.AddCommand(newSubmitCmd(out))
	return root
}

func newSubmitCmd(out io.Writer) *cobra.Command {
	opts := &submitOptions{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a presentation request and wait for the download link",
		Example: `  deckctl submit --topic "The impact of AI on higher education" --slides 15 --style creative
  deckctl submit -t "Photosynthesis" -r "add a references slide" --endpoint https://decks.example`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd.Context(), out, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.endpoint, "endpoint", "", "Backend base URL (default from config / PRESENTATION_ENDPOINT)")
	f.StringVarP(&opts.topic, "topic", "t", "", "Presentation topic")
	f.IntVarP(&opts.slides, "slides", "n", presentation.DefaultSlides, "Number of slides: 10, 15 or 20")
	f.StringVarP(&opts.style, "style", "s", string(presentation.DefaultStyle), "Style: academic, creative or minimal")
	f.StringVarP(&opts.requirements, "requirements", "r", "", "Optional extra requirements")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log request details")

	return cmd
}

func runSubmit(ctx context.Context, out io.Writer, opts *submitOptions) error {
	endpoint := opts.endpoint
	if endpoint == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		endpoint = cfg.Client.Endpoint
	}

	log := logger.NewNop()
	if opts.verbose {
		l, err := logger.New("debug", "console")
		if err != nil {
			return err
		}
		defer l.Sync()
		log = l
	}

	ctrl := submission.New(submission.Options{Endpoint: endpoint, Logger: log})
	ctrl.OnChange(func(s submission.State) {
		switch s.Status {
		case submission.StatusLoading:
			fmt.Fprintln(out, "Generating...")
		case submission.StatusDone:
			fmt.Fprintf(out, "Draft is ready: %s\n", s.ResultLink)
		case submission.StatusError:
			fmt.Fprintln(out, s.ErrorMessage)
		}
	})

	req := presentation.NewRequest(opts.topic, opts.slides, presentation.Style(opts.style), opts.requirements)
	if err := ctrl.Submit(ctx, req); err != nil {
		return err
	}

	if ctrl.State().Status != submission.StatusDone {
		return errGenerationFailed
	}
	return nil
}
