package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"contact-pipeline/internal/config"
	"contact-pipeline/internal/domain/entity"
	contactUC "contact-pipeline/internal/usecase/contact"
	"contact-pipeline/internal/utils/text"

	"github.com/spf13/cobra"
)

var listJSON bool

// listCmd prints stored submissions, newest first.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored submissions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON instead of a table")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	store, err := openStore(ctx, config.LoadAppConfig(), false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	viewer := &contactUC.Viewer{Repo: store.Repo}
	subs, err := viewer.List(ctx)
	if err != nil {
		return err
	}
	if listJSON {
		return writeJSON(cmd.OutOrStdout(), subs)
	}
	return writeTable(cmd.OutOrStdout(), subs)
}

// 一覧表示では本文を一行に収める
const messageColumnWidth = 48

func writeTable(w io.Writer, subs []*entity.Submission) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBMITTED\tNAME\tEMAIL\tMESSAGE")
	for _, s := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.ID,
			s.SubmissionDate.UTC().Format(time.RFC3339),
			s.Name,
			s.Email,
			text.Truncate(text.PlainText(s.Message), messageColumnWidth))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d submission(s)\n", len(subs))
	return err
}

type submissionJSON struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Message        string           `json:"message"`
	SubmissionDate entity.Timestamp `json:"submissionDate"`
}

func writeJSON(w io.Writer, subs []*entity.Submission) error {
	out := make([]submissionJSON, 0, len(subs))
	for _, s := range subs {
		out = append(out, submissionJSON{
			ID:             s.ID,
			Name:           s.Name,
			Email:          s.Email,
			Message:        s.Message,
			SubmissionDate: s.Timestamp(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
