package nats_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	natsadapter "mediavault/internal/adapters/eventbroker/nats"
	"mediavault/internal/adapters/storage"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/port"
	"mediavault/internal/core/service/cleanup"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// recorder wraps a handler and keeps every delivery with its outcome
type recorder struct {
	next      port.MessageService
	mu        sync.Mutex
	payloads  [][]byte
	results   []error
	delivered chan error
}

func newRecorder(next port.MessageService) *recorder {
	return &recorder{next: next, delivered: make(chan error, 16)}
}

func (r *recorder) HandleMessage(ctx context.Context, data []byte) error {
	var err error
	if r.next != nil {
		err = r.next.HandleMessage(ctx, data)
	}

	r.mu.Lock()
	r.payloads = append(r.payloads, data)
	r.results = append(r.results, err)
	r.mu.Unlock()

	select {
	case r.delivered <- err:
	default:
	}
	return err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads)
}

func (r *recorder) await(t *testing.T, within time.Duration) error {
	t.Helper()
	select {
	case err := <-r.delivered:
		return err
	case <-time.After(within):
		t.Fatal("no delivery")
		return nil
	}
}

func (r *recorder) quiet(t *testing.T, during time.Duration) {
	t.Helper()
	select {
	case <-r.delivered:
		t.Fatal("unexpected delivery")
	case <-time.After(during):
	}
}

type failingHandler struct{ err error }

func (f failingHandler) HandleMessage(context.Context, []byte) error { return f.err }

func setupNATS(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping nats container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2.10-alpine",
			ExposedPorts: []string{"4222/tcp"},
			Cmd:          []string{"-js"},
			WaitingFor:   wait.ForLog("Server is ready"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "4222")
	require.NoError(t, err)

	return "nats://" + host + ":" + port.Port()
}

func natsConfig(url string, name string) config.NATSConfig {
	return config.NATSConfig{
		URL:          url,
		StreamName:   "CLEANUP_" + name,
		Subject:      "storage.cleanup." + name,
		ConsumerName: name + "-sweeper",
	}
}

func newJob(keys ...string) domain.CleanupJob {
	return domain.CleanupJob{
		RecordID:  uuid.New(),
		Keys:      keys,
		Reason:    domain.CleanupReasonRecordDestroyed,
		CreatedAt: time.Now().UTC(),
	}
}

// start wires a publisher and a subscribed consumer on the same stream
func start(t *testing.T, ctx context.Context, cfg config.NATSConfig, handler port.MessageService) (*natsadapter.Publisher, *natsadapter.Consumer) {
	t.Helper()
	publisher, err := natsadapter.NewNATSPublisher(ctx, cfg, discardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = publisher.Close() })

	consumer, err := natsadapter.NewNATSConsumer(cfg, discardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = consumer.Close() })

	require.NoError(t, consumer.Subscribe(ctx, handler))
	return publisher, consumer
}

func TestPublisher_PublishCleanupJob(t *testing.T) {
	// Arrange
	url := setupNATS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rec := newRecorder(nil)
	publisher, _ := start(t, ctx, natsConfig(url, "publish"), rec)
	job := newJob("products/a-800.webp", "products/a.png")

	// Act
	require.NoError(t, publisher.PublishCleanupJob(ctx, job))
	require.NoError(t, publisher.PublishCleanupJob(ctx, job))

	// Assert
	require.NoError(t, rec.await(t, 3*time.Second))
	rec.quiet(t, 500*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	var got domain.CleanupJob
	require.NoError(t, json.Unmarshal(rec.payloads[0], &got))
	assert.Equal(t, job.RecordID, got.RecordID)
	assert.Equal(t, job.Keys, got.Keys)
	assert.Equal(t, domain.CleanupReasonRecordDestroyed, got.Reason)
}

func TestConsumer_SweepsKeys(t *testing.T) {
	// Arrange
	url := setupNATS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := storage.NewMockStorage()
	store.On("DeleteObject", mock.Anything, "uploads/a.bin").Return(nil).Once()
	store.On("DeleteObject", mock.Anything, "uploads/gone.bin").Return(domain.ErrObjectNotFound).Once()

	rec := newRecorder(cleanup.NewSweeper(store, discardLogger))
	publisher, _ := start(t, ctx, natsConfig(url, "sweep"), rec)

	// Act
	require.NoError(t, publisher.PublishCleanupJob(ctx, newJob("uploads/a.bin", "uploads/gone.bin")))

	// Assert
	assert.NoError(t, rec.await(t, 3*time.Second))
	rec.quiet(t, 500*time.Millisecond)
	store.AssertExpectations(t)
}

func TestConsumer_RedeliversUntilSwept(t *testing.T) {
	// Arrange
	url := setupNATS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store := storage.NewMockStorage()
	store.On("DeleteObject", mock.Anything, "uploads/stuck.bin").Return(assert.AnError).Twice()
	store.On("DeleteObject", mock.Anything, "uploads/stuck.bin").Return(nil).Once()

	rec := newRecorder(cleanup.NewSweeper(store, discardLogger))
	publisher, _ := start(t, ctx, natsConfig(url, "redeliver"), rec)

	// Act
	require.NoError(t, publisher.PublishCleanupJob(ctx, newJob("uploads/stuck.bin")))

	// Assert
	assert.Error(t, rec.await(t, 3*time.Second))
	assert.Error(t, rec.await(t, 3*time.Second))
	assert.NoError(t, rec.await(t, 3*time.Second))
	rec.quiet(t, time.Second)
	assert.Equal(t, 3, rec.count())
	store.AssertExpectations(t)
}

func TestConsumer_MalformedPayloadIsAcked(t *testing.T) {
	// Arrange
	url := setupNATS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := natsConfig(url, "malformed")
	store := storage.NewMockStorage()
	rec := newRecorder(cleanup.NewSweeper(store, discardLogger))
	start(t, ctx, cfg, rec)

	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	// Act
	_, err = js.Publish(ctx, cfg.Subject, []byte("{not json"))
	require.NoError(t, err)

	// Assert
	assert.NoError(t, rec.await(t, 3*time.Second))
	rec.quiet(t, 500*time.Millisecond)
	store.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
}

func TestConsumer_HandlerErrorNaks(t *testing.T) {
	// Arrange
	url := setupNATS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rec := newRecorder(failingHandler{err: assert.AnError})
	publisher, _ := start(t, ctx, natsConfig(url, "nak"), rec)

	// Act
	require.NoError(t, publisher.PublishCleanupJob(ctx, newJob("uploads/x.bin")))

	// Assert
	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, rec.await(t, 3*time.Second), assert.AnError)
	}
	assert.GreaterOrEqual(t, rec.count(), 2)
}

func TestConsumer_Close(t *testing.T) {
	// Arrange
	url := setupNATS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rec := newRecorder(nil)
	publisher, consumer := start(t, ctx, natsConfig(url, "close"), rec)

	// Act
	require.NoError(t, consumer.Close())
	require.NoError(t, consumer.Close())
	require.NoError(t, publisher.PublishCleanupJob(ctx, newJob("uploads/late.bin")))

	// Assert
	rec.quiet(t, 500*time.Millisecond)
}
