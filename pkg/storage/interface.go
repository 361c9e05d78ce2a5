// Package storage defines the persistence contracts of the renewer: where run
// reports go and how scheduled runs are enqueued. Backends live in
// subpackages (file, postgres).
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import (
	"context"

	"renewer/pkg/domain"

	"github.com/riverqueue/river"
)

// ReportStorage persists run reports.
type ReportStorage interface {
	// SaveReport stores report. Saving a report with an existing ID overwrites it.
	SaveReport(ctx context.Context, report domain.RunReport) error
	// LastReport returns the most recent report, or an error of kind
	// serrors.ErrNotFound when nothing was stored yet.
	LastReport(ctx context.Context) (*domain.RunReport, error)
}

// JobStorage enqueues background jobs.
type JobStorage interface {
	// AddJob enqueues a job and reports whether it was inserted (false when a
	// uniqueness rule skipped it as a duplicate).
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}

// Storage is a database backed handle offering every capability.
type Storage interface {
	ReportStorage
	JobStorage

	// Close releases the underlying connections.
	Close() error
}
