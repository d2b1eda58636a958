package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gangstaai/scanclient/internal/analysis"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func newTruthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "truth",
		Short: "Run the truth scanner on posts and text",
	}
	cmd.AddCommand(newTruthPostCmd(a), newTruthTextCmd(a), newTruthHistoryCmd(a))
	return cmd
}

func newTruthPostCmd(a *app) *cobra.Command {
	var caption, mediaPath string
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Analyze a post caption against its media",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(mediaPath)
			if err != nil {
				return fmt.Errorf("read media file: %w", err)
			}
			scanner, err := do.Invoke[*analysis.Scanner](a.injector)
			if err != nil {
				return fmt.Errorf("failed to resolve truth scanner: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, err := scanner.ScanPost(ctx, analysis.PostInput{
				Caption: caption,
				Media:   analysis.Media{FileName: mediaPath, Data: data},
			})
			if err != nil {
				return err
			}
			return a.printAnalysis(cmd.OutOrStdout(), *result)
		},
	}
	cmd.Flags().StringVar(&caption, "caption", "", "post caption")
	cmd.Flags().StringVar(&mediaPath, "media", "", "path to the post image or video")
	_ = cmd.MarkFlagRequired("caption")
	_ = cmd.MarkFlagRequired("media")
	return cmd
}

func newTruthTextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "text <text>",
		Short: "Analyze a block of text or a news summary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner, err := do.Invoke[*analysis.Scanner](a.injector)
			if err != nil {
				return fmt.Errorf("failed to resolve truth scanner: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, err := scanner.ScanText(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.printAnalysis(cmd.OutOrStdout(), *result)
		},
	}
}

func newTruthHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past post scans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner, err := do.Invoke[*analysis.Scanner](a.injector)
			if err != nil {
				return fmt.Errorf("failed to resolve truth scanner: %w", err)
			}
			list, err := scanner.History(cmd.Context())
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			for _, r := range list {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %3.0f%%  %s\n", r.ScanID, r.Score*100, oneLine(r.Caption)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) printAnalysis(w io.Writer, r analysis.Result) error {
	if a.asJSON {
		return writeJSON(w, r)
	}
	_, err := io.WriteString(w, formatAnalysis(r))
	return err
}

func formatAnalysis(r analysis.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Scan: %s\n", r.ScanID)
	fmt.Fprintf(&sb, "Score: %.0f%%\n", r.Score*100)
	fmt.Fprintf(&sb, "Summary: %s\n", r.TruthSummary)
	if r.MismatchReason != "" {
		fmt.Fprintf(&sb, "Mismatch: %s\n", r.MismatchReason)
	}
	entities := []struct {
		label string
		names []string
	}{
		{"People", r.Entities.Persons},
		{"Organizations", r.Entities.Organizations},
		{"Locations", r.Entities.Locations},
		{"Events", r.Entities.Events},
	}
	for _, e := range entities {
		if len(e.names) > 0 {
			fmt.Fprintf(&sb, "%s: %s\n", e.label, strings.Join(e.names, ", "))
		}
	}
	return sb.String()
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 60 {
		return string(r[:59]) + "…"
	}
	return s
}
