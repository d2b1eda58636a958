package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gangstaai/scanclient/internal/repository"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func newNewsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "news",
		Short: "List the latest articles of the smart news feed",
		Long: `List the articles the backend collector stored, newest first, with their
source, detected bias and trust score. Requires DATABASE_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := a.feed()
			if err != nil {
				return err
			}
			defer closeFeed(feed)

			articles, err := feed.ListNews(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.asJSON {
				return writeJSON(w, articles)
			}
			for _, art := range articles {
				if _, err := io.WriteString(w, formatArticle(art)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", repository.DefaultFeedLimit, "maximum number of articles")
	return cmd
}

func newSongHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously generated news songs",
		Long:  `List the news songs the backend generated, newest first. Requires DATABASE_URL.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := a.feed()
			if err != nil {
				return err
			}
			defer closeFeed(feed)

			songs, err := feed.ListSongs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.asJSON {
				return writeJSON(w, songs)
			}
			for _, s := range songs {
				if _, err := io.WriteString(w, formatSongRecord(s)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", repository.DefaultFeedLimit, "maximum number of songs")
	return cmd
}

func (a *app) feed() (repository.FeedRepository, error) {
	feed, err := do.Invoke[repository.FeedRepository](a.injector)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve feed repository: %w", err)
	}
	return feed, nil
}

func closeFeed(feed repository.FeedRepository) {
	if c, ok := feed.(interface{ Close() }); ok {
		c.Close()
	}
}

func formatArticle(art repository.NewsArticle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", art.PublishedAt.Format("2006-01-02 15:04"), art.Title)
	fmt.Fprintf(&b, "  %s  bias %s  trust %.0f%%\n", art.SourceName, strings.ToUpper(art.Bias), art.TrustScore*100)
	if art.Summary != "" {
		fmt.Fprintf(&b, "  %s\n", oneLine(art.Summary))
	}
	if art.SourceURL != "" {
		fmt.Fprintf(&b, "  %s\n", art.SourceURL)
	}
	return b.String()
}

func formatSongRecord(s repository.SongRecord) string {
	return fmt.Sprintf("%s  %s  %s\n  %s\n", s.CreatedAt.Format("2006-01-02 15:04"), strings.ToUpper(s.Genre), s.SongURL, oneLine(s.Lyrics))
}
