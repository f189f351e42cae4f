package orchestrator

import (
	"context"
	"fmt"
	"io"
	"mediavault/internal/core/domain"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

func (o *Orchestrator) uploadMultipart(ctx context.Context, run uint64, src Source) (string, error) {
	session, err := o.api.CreateSession(ctx, src.Name, src.ContentType, src.Size)
	if err != nil {
		return "", fmt.Errorf("failed to create session for %s: %w", src.Name, err)
	}
	o.states.update(run, func(st *FileState) { st.Key = session.Key })

	partSize := session.PartSize
	if partSize <= 0 {
		partSize = DefaultPartSize
	}
	totalParts := session.TotalParts
	if totalParts <= 0 {
		totalParts = domain.TotalPartsFor(src.Size, partSize)
	}

	parts := make([]domain.UploadPart, totalParts)
	var (
		mu       sync.Mutex
		uploaded int64
	)

	// one limiter per file, siblings never compete for part slots
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.PartConcurrency)
	for n := 1; n <= totalParts; n++ {
		offset := int64(n-1) * partSize
		length := min(partSize, src.Size-offset)
		g.Go(func() (err error) {
			// uploadFile only recovers on its own goroutine
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("part %d of %s panicked: %v", n, src.Name, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			etag, err := o.uploadPart(gctx, session, src, n, offset, length)
			if err != nil {
				return err
			}
			parts[n-1] = domain.UploadPart{PartNumber: n, ETag: etag}

			mu.Lock()
			uploaded += length
			progress := int(uploaded * 100 / src.Size)
			mu.Unlock()
			o.states.update(run, func(st *FileState) { st.Progress = progress })
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		o.abort(ctx, session)
		return "", err
	}

	if err := o.api.Complete(ctx, session.Key, session.UploadID, domain.SortParts(parts)); err != nil {
		o.abort(ctx, session)
		return "", fmt.Errorf("failed to complete %s: %w", src.Name, err)
	}
	return session.Key, nil
}

// uploadPart signs and puts one part, every attempt gets a fresh URL
func (o *Orchestrator) uploadPart(ctx context.Context, session *Session, src Source, n int, offset, length int64) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= o.cfg.MaxAttempts; attempt++ {
		etag, err := o.putPart(ctx, session, src, n, offset, length)
		if err == nil {
			return etag, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt == o.cfg.MaxAttempts {
			break
		}

		o.logger.Warn("part upload failed, retrying", "key", session.Key, "part", n, "attempt", attempt, "error", err)
		timer := time.NewTimer(time.Duration(attempt) * o.cfg.RetryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", fmt.Errorf("%w: part %d of %s after %d attempts: %w", ErrPartFailed, n, session.Key, o.cfg.MaxAttempts, lastErr)
}

func (o *Orchestrator) putPart(ctx context.Context, session *Session, src Source, n int, offset, length int64) (string, error) {
	url, err := o.api.SignPart(ctx, session.Key, session.UploadID, n)
	if err != nil {
		return "", fmt.Errorf("failed to sign part %d: %w", n, err)
	}
	etag, err := o.transport.Put(ctx, url, io.NewSectionReader(src.Reader, offset, length), length, "")
	if err != nil {
		return "", err
	}
	if etag == "" {
		return "", ErrMissingETag
	}
	return etag, nil
}
