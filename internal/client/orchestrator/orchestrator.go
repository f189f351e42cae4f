package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
	"slices"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultFileConcurrency = 3
	DefaultPartConcurrency = 4
	DefaultChunkThreshold  = 50 << 20
	DefaultPartSize        = 10 << 20
	DefaultMaxAttempts     = 3
	DefaultRetryBackoff    = time.Second

	abortTimeout = 30 * time.Second
)

// Config tunes an Orchestrator, zero values take the defaults
type Config struct {
	FileConcurrency  int
	PartConcurrency  int
	ChunkThreshold   int64
	MaxAttempts      int
	RetryBackoff     time.Duration
	AllowedMimetypes []string
	// AbortOnFailure releases the server session of a failed multipart file
	AbortOnFailure bool
	// OnStateChange is called after every state mutation, outside any lock
	OnStateChange func(FileState)
}

// DefaultConfig returns the default upload policy
func DefaultConfig() Config {
	return Config{
		FileConcurrency: DefaultFileConcurrency,
		PartConcurrency: DefaultPartConcurrency,
		ChunkThreshold:  DefaultChunkThreshold,
		MaxAttempts:     DefaultMaxAttempts,
		RetryBackoff:    DefaultRetryBackoff,
		AbortOnFailure:  true,
	}
}

func (c Config) withDefaults() Config {
	if c.FileConcurrency <= 0 {
		c.FileConcurrency = DefaultFileConcurrency
	}
	if c.PartConcurrency <= 0 {
		c.PartConcurrency = DefaultPartConcurrency
	}
	if c.ChunkThreshold <= 0 {
		c.ChunkThreshold = DefaultChunkThreshold
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryBackoff < 0 {
		c.RetryBackoff = 0
	}
	return c
}

// Source is a file to upload. Reader is read through section readers,
// parts of one file are read concurrently.
type Source struct {
	ID          string
	Name        string
	Size        int64
	ContentType string
	Reader      io.ReaderAt
}

// Session is a server side multipart session as seen by the client
type Session struct {
	UploadID   string
	Key        string
	TotalParts int
	PartSize   int64
}

// SimpleTarget is a presigned single shot upload
type SimpleTarget struct {
	URL string
	Key string
}

// UploadAPI is the server side of the upload protocol
type UploadAPI interface {
	PresignSimple(ctx context.Context, name string, contentType string, size int64) (*SimpleTarget, error)
	CreateSession(ctx context.Context, name string, contentType string, size int64) (*Session, error)
	SignPart(ctx context.Context, key string, uploadID string, partNumber int) (string, error)
	Complete(ctx context.Context, key string, uploadID string, parts []domain.UploadPart) error
	Abort(ctx context.Context, key string, uploadID string) error
}

// PartTransport writes bytes to a presigned URL and returns the ETag
type PartTransport interface {
	Put(ctx context.Context, url string, body io.Reader, size int64, contentType string) (string, error)
}

// RecordStore persists a file record once a file reached storage
type RecordStore interface {
	StoreRecord(ctx context.Context, name string, entries []domain.StorageEntry) error
}

// Completed is a file that reached storage
type Completed struct {
	ID  string
	Key string
}

// Failed is a file that did not
type Failed struct {
	ID  string
	Err error
}

// BatchResult is the outcome of UploadFiles. Removed files only appear in Discarded.
type BatchResult struct {
	Succeeded []Completed
	Failed    []Failed
	Discarded []string
}

// Orchestrator uploads batches of files with bounded file and part concurrency
type Orchestrator struct {
	api       UploadAPI
	transport PartTransport
	records   RecordStore
	cfg       Config
	allow     config.Rule
	states    *stateStore
	logger    *slog.Logger
}

// New creates an Orchestrator
func New(api UploadAPI, transport PartTransport, cfg Config, logger *slog.Logger) *Orchestrator {
	cfg = cfg.withDefaults()
	return &Orchestrator{
		api:       api,
		transport: transport,
		cfg:       cfg,
		allow:     config.Rule{AllowedMimetypes: cfg.AllowedMimetypes},
		states:    newStateStore(cfg.OnStateChange),
		logger:    logger,
	}
}

// WithRecordStore makes every succeeded file persist a record
func (o *Orchestrator) WithRecordStore(records RecordStore) *Orchestrator {
	o.records = records
	return o
}

// States returns a snapshot of every tracked file
func (o *Orchestrator) States() []FileState {
	return o.states.snapshot()
}

// RemoveFileState stops tracking id. In flight work keeps running but its result is discarded.
func (o *Orchestrator) RemoveFileState(id string) bool {
	return o.states.remove(id)
}

type outcome struct {
	id  string
	run uint64
	key string
	err error
}

// UploadFiles starts uploading files and returns a channel yielding exactly one BatchResult.
// It never panics past its caller, failures are reported per file.
func (o *Orchestrator) UploadFiles(ctx context.Context, files []Source) <-chan BatchResult {
	results := make(chan BatchResult, 1)

	files = slices.Clone(files)
	outcomes := make([]outcome, len(files))
	for i := range files {
		if files[i].ID == "" {
			files[i].ID = uuid.NewString()
		}
		run, err := o.states.admit(FileState{ID: files[i].ID, Name: files[i].Name, Size: files[i].Size})
		outcomes[i] = outcome{id: files[i].ID, run: run, err: err}
	}

	go func() {
		defer close(results)

		sem := semaphore.NewWeighted(int64(o.cfg.FileConcurrency))
		var wg sync.WaitGroup
		for i, src := range files {
			if outcomes[i].err != nil {
				continue
			}
			run := outcomes[i].run

			// rejected files never wait for a slot nor touch the network
			contentType, err := o.checkMimetype(src)
			if err != nil {
				o.fail(run, err)
				outcomes[i].err = err
				continue
			}
			src.ContentType = contentType

			if err := sem.Acquire(ctx, 1); err != nil {
				o.fail(run, err)
				outcomes[i].err = err
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer sem.Release(1)
				outcomes[i].key, outcomes[i].err = o.uploadFile(ctx, run, src)
			}()
		}
		wg.Wait()

		results <- o.collect(outcomes)
	}()

	return results
}

func (o *Orchestrator) collect(outcomes []outcome) BatchResult {
	var result BatchResult
	for _, out := range outcomes {
		switch {
		case out.run != 0 && o.states.isRemoved(out.run):
			result.Discarded = append(result.Discarded, out.id)
		case out.err != nil:
			result.Failed = append(result.Failed, Failed{ID: out.id, Err: out.err})
		default:
			result.Succeeded = append(result.Succeeded, Completed{ID: out.id, Key: out.key})
		}
	}
	return result
}

// checkMimetype resolves the content type, sniffing the head of the file when
// none was given, and matches it against the allow list
func (o *Orchestrator) checkMimetype(src Source) (contentType string, err error) {
	defer func() {
		if r := recover(); r != nil {
			contentType, err = "", fmt.Errorf("mimetype detection of %s panicked: %v", src.Name, r)
		}
	}()

	contentType = src.ContentType
	if contentType == "" && src.Reader != nil {
		mtype, err := mimetype.DetectReader(io.NewSectionReader(src.Reader, 0, min(src.Size, 3072)))
		if err != nil {
			return "", fmt.Errorf("failed to detect mimetype of %s: %w", src.Name, err)
		}
		contentType = mtype.String()
	}
	if !o.allow.Allows(contentType) {
		return "", fmt.Errorf("%w: %s (%s)", ErrMimetypeNotAllowed, src.Name, contentType)
	}
	return contentType, nil
}

func (o *Orchestrator) uploadFile(ctx context.Context, run uint64, src Source) (key string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("upload of %s panicked: %v", src.Name, r)
		}
		if err != nil {
			o.fail(run, err)
		}
	}()

	strategy := StrategySimple
	if src.Size > o.cfg.ChunkThreshold {
		strategy = StrategyMultipart
	}
	o.states.update(run, func(st *FileState) {
		st.Status = StatusUploading
		st.Strategy = strategy
	})

	if strategy == StrategySimple {
		key, err = o.uploadSimple(ctx, run, src)
	} else {
		key, err = o.uploadMultipart(ctx, run, src)
	}
	if err != nil {
		return "", err
	}

	if o.records != nil {
		entry := domain.StorageEntry{Key: key, Mimetype: src.ContentType, Size: src.Size}
		if err := o.records.StoreRecord(ctx, src.Name, []domain.StorageEntry{entry}); err != nil {
			return "", fmt.Errorf("failed to store record for %s: %w", key, err)
		}
	}

	o.states.update(run, func(st *FileState) {
		st.Status = StatusCompleted
		st.Key = key
	})
	o.logger.Info("file uploaded", "name", src.Name, "key", key, "strategy", strategy)
	return key, nil
}

func (o *Orchestrator) fail(run uint64, err error) {
	o.states.update(run, func(st *FileState) {
		st.Status = StatusError
		st.Err = err
	})
}

// uploadSimple is a single attempt, a failed file is resubmitted as a whole
func (o *Orchestrator) uploadSimple(ctx context.Context, run uint64, src Source) (string, error) {
	target, err := o.api.PresignSimple(ctx, src.Name, src.ContentType, src.Size)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", src.Name, err)
	}
	o.states.update(run, func(st *FileState) { st.Key = target.Key })

	if _, err := o.transport.Put(ctx, target.URL, io.NewSectionReader(src.Reader, 0, src.Size), src.Size, src.ContentType); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", src.Name, err)
	}
	return target.Key, nil
}

func (o *Orchestrator) abort(ctx context.Context, session *Session) {
	if !o.cfg.AbortOnFailure {
		return
	}
	// the batch context may already be cancelled
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), abortTimeout)
	defer cancel()
	if err := o.api.Abort(ctx, session.Key, session.UploadID); err != nil && !errors.Is(err, context.Canceled) {
		o.logger.Warn("failed to abort upload session", "key", session.Key, "upload_id", session.UploadID, "error", err)
	}
}
