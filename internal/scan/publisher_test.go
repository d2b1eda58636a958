package scan

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gangstaai/scanclient/internal/repository"
	"github.com/gangstaai/scanclient/internal/webhook"
)

type mockRepo struct {
	mu    sync.Mutex
	saved []repository.SaveScanInput
	err   error
}

func (m *mockRepo) SaveScan(_ context.Context, in repository.SaveScanInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, in)
	return m.err
}

func (m *mockRepo) ListScans(context.Context, int) ([]repository.ScanRecord, error) {
	return nil, nil
}

func (m *mockRepo) GetScan(context.Context, string) (*repository.ScanRecord, error) {
	return nil, repository.ErrNotFound
}

type mockSender struct {
	mu       sync.Mutex
	payloads []webhook.ScanWebhookPayload
	err      error
}

func (m *mockSender) SendScanResult(_ context.Context, p webhook.ScanWebhookPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, p)
	return m.err
}

type mockNotifier struct {
	mu       sync.Mutex
	channels []string
	messages []string
}

func (m *mockNotifier) Connect(context.Context) error { return nil }
func (m *mockNotifier) Close() error                  { return nil }

func (m *mockNotifier) SendChannelMessage(channelID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, channelID)
	m.messages = append(m.messages, content)
	return nil
}

func TestFanoutPublisher_SendsToEverySink(t *testing.T) {
	repo := &mockRepo{}
	sender := &mockSender{}
	notifier := &mockNotifier{}
	p := NewFanoutPublisher(repo, sender, notifier, "chan-1")

	p.Publish(context.Background(), finishedState())

	if len(repo.saved) != 1 || repo.saved[0].ID != "session-1" {
		t.Fatalf("unexpected saved scans: %+v", repo.saved)
	}
	if len(sender.payloads) != 1 || sender.payloads[0].SessionID != "session-1" {
		t.Fatalf("unexpected webhook payloads: %+v", sender.payloads)
	}
	if len(notifier.channels) != 1 || notifier.channels[0] != "chan-1" {
		t.Fatalf("unexpected discord channels: %v", notifier.channels)
	}
}

func TestFanoutPublisher_FailingSinkDoesNotBlockOthers(t *testing.T) {
	repo := &mockRepo{err: errors.New("db down")}
	sender := &mockSender{}
	p := NewFanoutPublisher(repo, sender, nil, "")

	p.Publish(context.Background(), finishedState())

	if len(repo.saved) != 1 {
		t.Fatalf("expected save attempt, got %d", len(repo.saved))
	}
	if len(sender.payloads) != 1 {
		t.Fatalf("expected webhook despite repository failure, got %d", len(sender.payloads))
	}
}

func TestFanoutPublisher_SkipsDiscordWithoutChannel(t *testing.T) {
	notifier := &mockNotifier{}
	p := NewFanoutPublisher(nil, nil, notifier, "")

	p.Publish(context.Background(), finishedState())

	if len(notifier.messages) != 0 {
		t.Fatalf("expected no discord message, got %v", notifier.messages)
	}
}

func TestController_PublishesThroughFanout(t *testing.T) {
	repo := &mockRepo{}
	c := NewController(staticOpener("data: Quick Transcript: hi\n\n", "data: [DONE]\n\n"),
		WithPublisher(NewFanoutPublisher(repo, nil, nil, ""), 0))
	runToEnd(t, c, audio())

	if len(repo.saved) != 1 || repo.saved[0].Transcript != "hi" || repo.saved[0].Status != repository.ScanStatusDone {
		t.Fatalf("unexpected saved scans: %+v", repo.saved)
	}
}
