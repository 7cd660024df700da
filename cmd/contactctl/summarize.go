package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"contact-pipeline/internal/app"
	"contact-pipeline/internal/config"
	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/infra/summarizer"
	contactUC "contact-pipeline/internal/usecase/contact"
	"contact-pipeline/internal/usecase/notify"

	"github.com/spf13/cobra"
)

var summarizeNotify bool

// summarizeCmd re-runs the summary for one stored submission.
var summarizeCmd = &cobra.Command{
	Use:   "summarize <id>",
	Short: "Summarize a stored submission and print the summary",
	Long: `Summarize a stored submission with the configured provider and print
the summary to stdout. With --notify the summary is also delivered to
every configured notification channel.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().BoolVar(&summarizeNotify, "notify", false, "also deliver the summary to the notification channels")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.LoadAppConfig()

	store, err := openStore(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	summary, err := app.NewSummary(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = summary.Close() }()

	var runner *notify.Runner
	if summarizeNotify {
		runner = summary.Runner
	}
	viewer := &contactUC.Viewer{Repo: store.Repo}
	return summarizeOne(ctx, cmd.OutOrStdout(), viewer, summary.Summarizer, runner, args[0])
}

// summarizeOne prints the summary of submission id and, when runner is
// non-nil, delivers it.
func summarizeOne(ctx context.Context, w io.Writer, viewer *contactUC.Viewer, s summarizer.Summarizer, runner *notify.Runner, id string) error {
	sub, err := viewer.Get(ctx, id)
	if err != nil {
		return err
	}

	summary, err := s.Summarize(ctx, entity.SubmissionInput{
		Name:    sub.Name,
		Email:   sub.Email,
		Message: sub.Message,
	})
	if err != nil {
		return fmt.Errorf("summarize %s: %w", id, err)
	}
	if _, err := fmt.Fprintln(w, summary.Summary); err != nil {
		return err
	}

	if runner == nil {
		return nil
	}
	if err := runner.Notify(ctx, sub, summary); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	slog.Info("summary delivered", slog.String("submission_id", id))
	return nil
}
