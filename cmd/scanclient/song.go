package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gangstaai/scanclient/internal/song"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func newSongCmd(a *app) *cobra.Command {
	var (
		summary    string
		style      string
		noAILyrics bool
	)
	cmd := &cobra.Command{
		Use:   "song",
		Short: "Turn a news summary into a song",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := do.Invoke[*song.Service](a.injector)
			if err != nil {
				return fmt.Errorf("failed to resolve song service: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			req := song.NewRequest(summary)
			req.Style = style
			req.UseAILyrics = !noAILyrics
			track, err := svc.Compose(ctx, req)
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), track)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Track: %s\nStyle: %s\nDownload: %s\n\n%s\n",
				track.TrackID, track.Style, track.DownloadURL, track.Lyrics)
			return err
		},
	}
	cmd.Flags().StringVar(&summary, "summary", "", "news summary to sing about")
	cmd.Flags().StringVar(&style, "style", song.DefaultStyle, "music style")
	cmd.Flags().BoolVar(&noAILyrics, "no-ai-lyrics", false, "use the summary as lyrics instead of generating them")
	_ = cmd.MarkFlagRequired("summary")
	cmd.AddCommand(newSongHistoryCmd(a))
	return cmd
}
