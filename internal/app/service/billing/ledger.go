package billing

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/internal/platform/stripeevent"
	"github.com/fatflowers/community/pkg/logctx"
)

// receive records the event as received unless a row already exists.
func (r *Reconciler) receive(ctx context.Context, evt *stripeevent.Event) error {
	row := &models.WebhookEvent{
		ID:       evt.ID,
		Provider: provider,
		Type:     evt.Type,
		Status:   models.WebhookEventStatusReceived,
		TraceID:  logctx.TraceID(ctx),
		EventAt:  evt.Created,
		Data:     datatypes.JSON(evt.Object),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
		return fmt.Errorf("failed to record webhook event: %w", err)
	}
	return nil
}

func lockEvent(ctx context.Context, tx *gorm.DB, id string) (*models.WebhookEvent, error) {
	var row models.WebhookEvent
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to load webhook event: %w", err)
	}
	return &row, nil
}

func finishEvent(ctx context.Context, db *gorm.DB, id string, status models.WebhookEventStatus, res map[string]any) error {
	if err := db.WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": status,
			"result": datatypes.JSONMap(res),
		}).Error; err != nil {
		return fmt.Errorf("failed to update webhook event: %w", err)
	}
	return nil
}
