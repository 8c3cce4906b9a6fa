package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/ports"
	"github.com/auditra/auditra/internal/service/logger"
)

// DeliveryUseCase evaluates artifact deliveries against an external object
// store. Lookups are read-only; a failed lookup counts as not delivered and
// never aborts the sibling lookups.
type DeliveryUseCase struct {
	store         ports.ObjectStore
	log           logger.Logger
	workerLimit   int
	lookupTimeout time.Duration
}

// NewDeliveryUseCase creates a new delivery evaluator
func NewDeliveryUseCase(store ports.ObjectStore, log logger.Logger, workerLimit int, lookupTimeout time.Duration) *DeliveryUseCase {
	if workerLimit <= 0 {
		workerLimit = 4
	}
	if lookupTimeout <= 0 {
		lookupTimeout = 5 * time.Second
	}
	return &DeliveryUseCase{
		store:         store,
		log:           log,
		workerLimit:   workerLimit,
		lookupTimeout: lookupTimeout,
	}
}

// EvaluateAudit runs the delivery check for every expected artifact of one
// audit. Lookups fan out concurrently and results come back in catalog
// order regardless of completion order.
func (uc *DeliveryUseCase) EvaluateAudit(ctx context.Context, audit *domain.Audit) []domain.DeliveryRecord {
	catalog := domain.ArtifactCatalog()
	records := make([]domain.DeliveryRecord, len(catalog))

	g := new(errgroup.Group)
	g.SetLimit(uc.workerLimit)
	for i, spec := range catalog {
		i, spec := i, spec
		g.Go(func() error {
			records[i] = uc.evaluateOne(ctx, spec, audit)
			return nil
		})
	}
	_ = g.Wait()
	return records
}

// EvaluateArtifact runs the delivery check for a single artifact type
func (uc *DeliveryUseCase) EvaluateArtifact(ctx context.Context, audit *domain.Audit, artifactType domain.ArtifactType) (domain.DeliveryRecord, error) {
	spec, err := domain.ArtifactSpecFor(artifactType)
	if err != nil {
		return domain.DeliveryRecord{}, err
	}
	return uc.evaluateOne(ctx, spec, audit), nil
}

func (uc *DeliveryUseCase) evaluateOne(ctx context.Context, spec domain.ArtifactSpec, audit *domain.Audit) domain.DeliveryRecord {
	lookupCtx, cancel := context.WithTimeout(ctx, uc.lookupTimeout)
	defer cancel()

	info, err := uc.store.Stat(lookupCtx, spec.Bucket, spec.ObjectPath(audit))
	if err != nil {
		uc.log.Warn(ctx, "storage lookup failed, treating artifact as not delivered", map[string]interface{}{
			"audit_id": audit.ID,
			"artifact": spec.Type,
			"error":    err.Error(),
		})
		info = nil
	}

	var deliveredAt *time.Time
	var size int64
	if info != nil {
		at := info.LastModifiedAt
		deliveredAt = &at
		size = info.SizeBytes
	}

	rec := domain.EvaluateDelivery(spec, audit, deliveredAt)
	rec.SizeBytes = size
	return rec
}
