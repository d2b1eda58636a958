package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	discordpkg "github.com/gangstaai/scanclient/internal/discord"
	"github.com/gangstaai/scanclient/internal/repository"
	"github.com/gangstaai/scanclient/internal/scan"
	"github.com/gangstaai/scanclient/internal/transcriber"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

const discordConnectTimeout = 20 * time.Second

func newScanCmd(a *app) *cobra.Command {
	var mimeType string
	cmd := &cobra.Command{
		Use:   "scan <audio-file>",
		Short: "Upload an audio file and stream the speaker scan",
		Long: `Upload an audio file to the speaker-scan backend and print the transcript
and detected speaker as they stream in. Ctrl-C cancels the scan and releases
the connection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScan(cmd, args[0], mimeType)
		},
	}
	cmd.Flags().StringVar(&mimeType, "mime-type", "", "content type of the upload (default: from extension)")
	return cmd
}

func (a *app) runScan(cmd *cobra.Command, path, mimeType string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read audio file: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier, err := do.Invoke[discordpkg.Notifier](a.injector)
	if err != nil {
		return fmt.Errorf("failed to resolve discord notifier: %w", err)
	}
	if err := a.connectNotifier(ctx, notifier); err != nil {
		return err
	}
	defer func() {
		if err := notifier.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()
	defer a.closeRepository()

	controller, err := do.Invoke[*scan.Controller](a.injector)
	if err != nil {
		return fmt.Errorf("failed to resolve scan controller: %w", err)
	}
	if !a.quiet {
		controller.SetListener(newProgressPrinter(cmd.ErrOrStderr()))
	}

	run, err := controller.StartScan(ctx, transcriber.Upload{FileName: path, MIMEType: mimeType, Data: data})
	if err != nil {
		return err
	}
	<-run.Done()

	st := controller.State()
	if err := a.printScan(cmd.OutOrStdout(), st); err != nil {
		return err
	}
	if st.Status == scan.StatusFailed {
		if errors.Is(st.Err, context.Canceled) {
			return errors.New("scan canceled")
		}
		return errors.New(scan.UserMessage(st.Err))
	}
	return nil
}

func (a *app) connectNotifier(ctx context.Context, notifier discordpkg.Notifier) error {
	if !a.cfg.DiscordEnabled() {
		return nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, discordConnectTimeout)
	defer cancel()
	if err := notifier.Connect(connectCtx); err != nil {
		return fmt.Errorf("discord connect failed: %w", err)
	}
	channel := a.cfg.DiscordChannelID
	if named, ok := notifier.(interface{ ChannelName(string) string }); ok {
		channel = named.ChannelName(channel)
	}
	slog.Info("discord notifier connected", "channel", channel)
	return nil
}

func (a *app) closeRepository() {
	repo, err := do.Invoke[repository.ScanRepository](a.injector)
	if err != nil {
		return
	}
	if c, ok := repo.(interface{ Close() }); ok {
		c.Close()
	}
}

type scanOutput struct {
	SessionID   string   `json:"session_id"`
	FileName    string   `json:"file_name"`
	Status      string   `json:"status"`
	Transcript  string   `json:"transcript"`
	SpeakerName string   `json:"speaker_name,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	Error       string   `json:"error,omitempty"`
	DurationMS  int64    `json:"duration_ms"`
}

func (a *app) printScan(w io.Writer, st scan.State) error {
	if a.asJSON {
		out := scanOutput{
			SessionID:  st.SessionID,
			FileName:   st.FileName,
			Status:     string(st.Status),
			Transcript: st.Transcript,
			DurationMS: st.Duration().Milliseconds(),
		}
		if st.Speaker != nil {
			out.SpeakerName = st.Speaker.Name
			confidence := st.Speaker.Confidence
			out.Confidence = &confidence
		}
		if st.Err != nil {
			out.Error = st.Err.Error()
		}
		return writeJSON(w, out)
	}
	_, err := io.WriteString(w, formatScan(st))
	return err
}

func formatScan(st scan.State) string {
	if st.Status == scan.StatusFailed {
		return fmt.Sprintf("Status: failed\nError: %s\n", scan.UserMessage(st.Err))
	}
	s := fmt.Sprintf("Status: %s\n", st.Status)
	if st.Speaker != nil {
		s += fmt.Sprintf("Speaker: %s\n", formatSpeaker(*st.Speaker))
	}
	return s + fmt.Sprintf("Transcript: %s\n", st.Transcript)
}

func formatSpeaker(sp scan.Speaker) string {
	return fmt.Sprintf("%s (%d%%)", sp.Name, int(math.Round(sp.Confidence*100)))
}

type progressPrinter struct {
	w          io.Writer
	status     scan.Status
	transcript string
	speaker    string
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w}
}

// OnUpdate prints only what changed since the previous update.
func (p *progressPrinter) OnUpdate(st scan.State) {
	if st.Status != p.status {
		p.status = st.Status
		_, _ = fmt.Fprintf(p.w, "[%s]\n", st.Status)
	}
	if st.Speaker != nil {
		if sp := formatSpeaker(*st.Speaker); sp != p.speaker {
			p.speaker = sp
			_, _ = fmt.Fprintf(p.w, "🎤 %s\n", sp)
		}
	}
	if st.Transcript != p.transcript {
		p.transcript = st.Transcript
		_, _ = fmt.Fprintf(p.w, "> %s\n", st.Transcript)
	}
}
