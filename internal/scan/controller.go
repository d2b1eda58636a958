package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gangstaai/scanclient/internal/sse"
	"github.com/gangstaai/scanclient/internal/transcriber"
	"github.com/google/uuid"
)

const (
	defaultIdleTimeout    = 2 * time.Minute
	defaultPublishTimeout = 15 * time.Second
	defaultReadBufferSize = 4 << 10
)

// Listener receives a snapshot after every state change. Updates for a run
// are delivered in order on that run's own goroutine, so a slow listener
// slows the stream. A listener may call StartScan, for example to retry from
// a terminal update; the run it is called from is then canceled without
// waiting for it to exit.
type Listener interface {
	OnUpdate(state State)
}

type ListenerFunc func(state State)

func (f ListenerFunc) OnUpdate(state State) { f(state) }

// Publisher receives every session that reached a terminal state after an
// upload was attempted.
type Publisher interface {
	Publish(ctx context.Context, state State)
}

type Option func(*Controller)

func WithListener(l Listener) Option {
	return func(c *Controller) { c.listener = l }
}

// WithIdleTimeout bounds the wait for the next chunk once streaming began.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.idleTimeout = d
		}
	}
}

func WithPublisher(p Publisher, timeout time.Duration) Option {
	return func(c *Controller) {
		c.publisher = p
		if timeout > 0 {
			c.publishTimeout = timeout
		}
	}
}

func WithReadBufferSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.readBufferSize = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller drives one speaker scan at a time: upload, stream, reduce.
type Controller struct {
	opener         transcriber.StreamOpener
	publisher      Publisher
	idleTimeout    time.Duration
	publishTimeout time.Duration
	readBufferSize int
	now            func() time.Time
	newID          func() string

	startMu sync.Mutex

	mu       sync.Mutex
	listener Listener
	// state holds the last rejected start; a started run keeps its own.
	state  State
	active *Run
}

// Run is the handle of one started session.
type Run struct {
	id     string
	cancel context.CancelCauseFunc
	done   chan struct{}

	// guarded by Controller.mu
	state     State
	notifying int
}

func (r *Run) ID() string { return r.id }

// Done is closed once the session is terminal and published.
func (r *Run) Done() <-chan struct{} { return r.done }

func (r *Run) Cancel() { r.cancel(context.Canceled) }

func NewController(opener transcriber.StreamOpener, opts ...Option) *Controller {
	c := &Controller{
		opener:         opener,
		idleTimeout:    defaultIdleTimeout,
		publishTimeout: defaultPublishTimeout,
		readBufferSize: defaultReadBufferSize,
		now:            time.Now,
		newID:          uuid.NewString,
		state:          State{Status: StatusIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) SetListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = l
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return c.active.state.Clone()
	}
	return c.state.Clone()
}

// StartScan tears down any session still in flight, then uploads the file
// and streams the transcript in the background. It only returns an error for
// invalid input; transport and stream failures are reported through the
// session state.
func (c *Controller) StartScan(ctx context.Context, upload transcriber.Upload) (*Run, error) {
	c.startMu.Lock()
	c.teardown()

	id := c.newID()
	startedAt := c.now()
	if err := upload.Validate(); err != nil {
		serr := newError(ErrInvalidInput, err)
		failed := State{
			SessionID: id,
			FileName:  upload.FileName,
			Status:    StatusFailed,
			Err:       serr,
			StartedAt: startedAt,
			EndedAt:   startedAt,
		}
		c.mu.Lock()
		c.state = failed
		c.active = nil
		listener := c.listener
		c.mu.Unlock()
		c.startMu.Unlock()

		slog.Warn("scan rejected", "session_id", id, "error", serr)
		if listener != nil {
			listener.OnUpdate(failed.Clone())
		}
		return nil, serr
	}

	runCtx, cancel := context.WithCancelCause(ctx)
	run := &Run{
		id:     id,
		cancel: cancel,
		done:   make(chan struct{}),
		state:  State{SessionID: id, FileName: upload.Name(), Status: StatusUploading, StartedAt: startedAt},
	}
	c.mu.Lock()
	c.active = run
	c.mu.Unlock()
	c.startMu.Unlock()

	slog.Info("scan started", "session_id", id, "file_name", upload.Name(), "bytes", len(upload.Data))
	go c.drive(runCtx, run, upload)
	return run, nil
}

// Cancel stops the active session, if any, and releases its connection.
func (c *Controller) Cancel() {
	c.mu.Lock()
	run := c.active
	c.mu.Unlock()
	if run != nil {
		run.Cancel()
	}
}

// Wait blocks until the active session finished or ctx is done.
func (c *Controller) Wait(ctx context.Context) (State, error) {
	c.mu.Lock()
	run := c.active
	c.mu.Unlock()
	if run != nil {
		select {
		case <-run.done:
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}
	}
	return c.State(), nil
}

// teardown cancels the active run and waits for it to exit, unless the
// caller is that run's listener.
func (c *Controller) teardown() {
	c.mu.Lock()
	prev := c.active
	fromListener := prev != nil && prev.notifying > 0
	c.mu.Unlock()
	if prev == nil {
		return
	}
	prev.cancel(ErrSuperseded)
	if fromListener {
		return
	}
	<-prev.done
}

func (c *Controller) drive(ctx context.Context, run *Run, upload transcriber.Upload) {
	defer close(run.done)
	defer run.cancel(nil)

	// announce the uploading state from here so every update for this run
	// is delivered on one goroutine
	c.mutate(run, func(*State) bool { return true })

	body, err := c.opener.OpenStream(ctx, upload)
	if err != nil {
		c.fail(run, newError(ErrTransport, withCause(ctx, err)))
		c.publish(ctx, run)
		return
	}

	c.mutate(run, func(st *State) bool {
		st.Status = StatusStreaming
		return true
	})
	slog.Info("scan streaming", "session_id", run.id)

	if err := c.consume(ctx, run, body); err != nil {
		c.fail(run, newError(ErrStreamInterrupted, withCause(ctx, err)))
	} else {
		c.mutate(run, func(st *State) bool {
			if st.Status.Terminal() {
				return false
			}
			st.Status = StatusDone
			st.EndedAt = c.now()
			return true
		})
	}
	c.publish(ctx, run)
}

// consume reads body until [DONE], EOF, or a read error. The body is closed
// on return and as soon as ctx is canceled, so a blocked Read returns
// promptly.
func (c *Controller) consume(ctx context.Context, run *Run, body io.ReadCloser) error {
	stopClose := context.AfterFunc(ctx, func() {
		_ = body.Close()
	})
	defer func() {
		if stopClose() {
			_ = body.Close()
		}
	}()

	idle := time.AfterFunc(c.idleTimeout, func() {
		run.cancel(ErrIdleTimeout)
	})
	defer idle.Stop()

	var splitter sse.Splitter
	buf := make([]byte, c.readBufferSize)
	for {
		if cause := context.Cause(ctx); cause != nil {
			return cause
		}
		n, err := body.Read(buf)
		if n > 0 {
			idle.Reset(c.idleTimeout)
			for _, frame := range splitter.Feed(buf[:n]) {
				if c.applyFrame(run, frame) {
					return nil
				}
			}
		}
		if errors.Is(err, io.EOF) {
			if cause := context.Cause(ctx); cause != nil {
				return cause
			}
			if pending := splitter.Pending(); pending > 0 {
				slog.Debug("dropping unterminated trailing frame", "session_id", run.id, "bytes", pending)
			}
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// applyFrame reduces one frame and reports whether the session is terminal.
func (c *Controller) applyFrame(run *Run, frame sse.Frame) bool {
	var (
		terminal  bool
		reduceErr error
	)
	c.mutate(run, func(st *State) bool {
		changed, err := Reduce(st, frame.Payload)
		reduceErr = err
		if changed && st.Status == StatusDone {
			st.EndedAt = c.now()
		}
		terminal = st.Status.Terminal()
		return changed
	})
	if reduceErr != nil {
		slog.Warn("ignoring malformed frame", "session_id", run.id, "frame", frame.Raw, "error", reduceErr)
	}
	return terminal
}

func (c *Controller) fail(run *Run, err *Error) {
	c.mutate(run, func(st *State) bool {
		if st.Status.Terminal() {
			return false
		}
		st.Status = StatusFailed
		st.Err = err
		st.EndedAt = c.now()
		return true
	})
	slog.Error("scan failed", "session_id", run.id, "error", err)
}

// mutate applies fn to the run's state and, while the run is still active,
// notifies the listener when fn reports a change.
func (c *Controller) mutate(run *Run, fn func(st *State) bool) {
	c.mu.Lock()
	changed := fn(&run.state)
	active := c.active == run
	snapshot := run.state.Clone()
	var listener Listener
	if changed && active {
		listener = c.listener
	}
	if listener != nil {
		run.notifying++
	}
	c.mu.Unlock()

	if listener != nil {
		listener.OnUpdate(snapshot)
		c.mu.Lock()
		run.notifying--
		c.mu.Unlock()
	}
}

// publish hands the run's final state to the publisher, also for runs that
// were superseded.
func (c *Controller) publish(ctx context.Context, run *Run) {
	c.mu.Lock()
	final := run.state.Clone()
	c.mu.Unlock()
	if !final.Status.Terminal() {
		return
	}

	slog.Info("scan finished",
		"session_id", final.SessionID,
		"status", final.Status,
		"frames", final.FramesApplied,
		"transcript_length", len(final.Transcript),
		"duration", final.Duration())
	if c.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.publishTimeout)
	defer cancel()
	c.publisher.Publish(pubCtx, final)
}

func withCause(ctx context.Context, err error) error {
	cause := context.Cause(ctx)
	if cause == nil || errors.Is(err, cause) {
		return err
	}
	return fmt.Errorf("%w (%w)", err, cause)
}
