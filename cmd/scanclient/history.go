package main

import (
	"fmt"
	"io"

	"github.com/gangstaai/scanclient/internal/history"
	"github.com/gangstaai/scanclient/internal/repository"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		local bool
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show past speaker scans",
		Long: `Show past speaker scans recorded by the backend, or with --local the scans
this client stored itself: in DATABASE_URL when set, otherwise in the
SCAN_HISTORY_PATH file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if local {
				return a.localHistory(cmd, args, limit)
			}
			return a.remoteHistory(cmd, args)
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "read the local scan repository")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of local scans to list (0 for all)")
	return cmd
}

func (a *app) remoteHistory(cmd *cobra.Command, args []string) error {
	src, err := do.Invoke[history.Source](a.injector)
	if err != nil {
		return fmt.Errorf("failed to resolve history source: %w", err)
	}
	w := cmd.OutOrStdout()
	if len(args) == 1 {
		item, err := src.GetScanHistory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if a.asJSON {
			return writeJSON(w, item)
		}
		_, err = fmt.Fprintf(w, "ID: %s\nTime: %s\nAuthor: %s (%.0f%%)\nTranscript: %s\n",
			item.ID, item.Timestamp, item.Author, item.Confidence*100, item.Transcript)
		return err
	}
	items, err := src.ListScanHistory(cmd.Context())
	if err != nil {
		return err
	}
	if a.asJSON {
		return writeJSON(w, items)
	}
	for _, it := range items {
		if _, err := fmt.Fprintf(w, "%s  %s  %s  %s\n", it.ID, it.Timestamp, it.Author, oneLine(it.Transcript)); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) localHistory(cmd *cobra.Command, args []string, limit int) error {
	repo, err := do.Invoke[repository.ScanRepository](a.injector)
	if err != nil {
		return fmt.Errorf("failed to resolve scan repository: %w", err)
	}
	defer a.closeRepository()

	w := cmd.OutOrStdout()
	if len(args) == 1 {
		rec, err := repo.GetScan(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if a.asJSON {
			return writeJSON(w, rec)
		}
		return writeRecord(w, *rec)
	}
	list, err := repo.ListScans(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if a.asJSON {
		return writeJSON(w, list)
	}
	for _, rec := range list {
		if _, err := fmt.Fprintf(w, "%s  %s  %-6s  %s  %s\n",
			rec.ID, rec.StartedAt.Format("2006-01-02 15:04:05"), rec.Status, rec.SpeakerName, oneLine(rec.Transcript)); err != nil {
			return err
		}
	}
	return nil
}

func writeRecord(w io.Writer, rec repository.ScanRecord) error {
	speaker := rec.SpeakerName
	if rec.Confidence != nil {
		speaker = fmt.Sprintf("%s (%.0f%%)", rec.SpeakerName, *rec.Confidence*100)
	}
	_, err := fmt.Fprintf(w, "ID: %s\nFile: %s\nStatus: %s\nStarted: %s\nSpeaker: %s\nTranscript: %s\n",
		rec.ID, rec.FileName, rec.Status, rec.StartedAt.Format("2006-01-02 15:04:05"), speaker, rec.Transcript)
	if err != nil {
		return err
	}
	if rec.ErrorMessage != "" {
		_, err = fmt.Fprintf(w, "Error: %s\n", rec.ErrorMessage)
	}
	return err
}
