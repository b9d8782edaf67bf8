package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/shelfaware/pkg/logger"
	"github.com/ghuser/shelfaware/services/inventory/domain"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
)

// ScanInput is one reader observation of a tag.
type ScanInput struct {
	UID       string
	Type      models.EventType
	Timestamp *time.Time
	Weight    *float64
	Position  models.Position
}

// ScanResult reports what a scan did. Event is nil when the tag was new or
// not attached to an item.
type ScanResult struct {
	Tag     *models.Tag
	Event   *models.ItemEvent
	Created bool
}

// ScanIngestor turns raw tag scans into events.
type ScanIngestor struct {
	store    repositories.Store
	recorder *EventRecorder
	log      logger.Logger
	now      func() time.Time
	metrics  *metrics
}

// Ingest resolves the scanned uid. An unknown uid registers an unattached tag
// named after the uid. A known tag on an item records an event for that item.
// A known unattached tag is returned as is.
func (s *ScanIngestor) Ingest(ctx context.Context, in ScanInput) (*ScanResult, error) {
	uid, err := models.NewTagUID(in.UID)
	if err != nil {
		return nil, domain.NewValidationError("uid", err.Error())
	}

	res := &ScanResult{}
	var item *models.Item
	err = s.store.WithTx(ctx, func(tx repositories.Tx) error {
		tag, err := tx.Tags().GetByUID(ctx, uid)
		switch {
		case err == nil:
		case isNotFound(err):
			now := models.Truncate(s.now())
			tag = &models.Tag{Name: uid.String(), UID: uid, CreatedAt: now, UpdatedAt: now}
			if err := tx.Tags().Create(ctx, tag); err != nil {
				return err
			}
			res.Tag, res.Created = tag, true
			return nil
		default:
			return err
		}

		res.Tag = tag
		if !tag.Attached() {
			return nil
		}
		res.Event, item, err = s.recorder.record(ctx, tx, RecordEventInput{
			ItemID:    *tag.ItemID,
			Type:      in.Type,
			Timestamp: in.Timestamp,
			Weight:    in.Weight,
			Position:  in.Position,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ingest scan: %w", err)
	}

	switch {
	case res.Created:
		s.metrics.scanned(ctx, "registered")
		s.log.InfoContext(ctx, "unknown tag registered from scan", "tag_id", res.Tag.ID, "uid", uid.String())
	case res.Event != nil:
		s.metrics.scanned(ctx, "recorded")
		s.recorder.Announce(ctx, res.Event, item)
	default:
		s.metrics.scanned(ctx, "unattached")
	}
	return res, nil
}
