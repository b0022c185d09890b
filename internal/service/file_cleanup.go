package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/student-portal-api/pkg/jobs"
)

type fileEnqueuer interface {
	Enqueue(name string) error
}

// FileCleaner removes stored files in the background. When the queue cannot
// take the job the file is removed inline so nothing is orphaned silently.
type FileCleaner struct {
	queue  fileEnqueuer
	files  fileRemover
	logger *zap.Logger
}

// NewFileCleanupQueue builds the worker queue that deletes stored files.
func NewFileCleanupQueue(files fileRemover, cfg jobs.QueueConfig) *jobs.Queue[string] {
	return jobs.NewQueue("file-cleanup", func(_ context.Context, name string) error {
		return files.Delete(name)
	}, cfg)
}

// NewFileCleaner constructs a FileCleaner over queue and the fallback remover.
func NewFileCleaner(queue fileEnqueuer, files fileRemover, logger *zap.Logger) *FileCleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileCleaner{queue: queue, files: files, logger: logger}
}

// Delete schedules removal of a stored file.
func (c *FileCleaner) Delete(name string) error {
	if c.queue != nil {
		err := c.queue.Enqueue(name)
		if err == nil {
			return nil
		}
		c.logger.Warn("file cleanup queue unavailable, deleting inline", zap.String("file", name), zap.Error(err))
	}
	return c.files.Delete(name)
}
