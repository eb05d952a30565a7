package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"stagelink/internal/errs"
	"stagelink/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateRequest(ctx context.Context, request models.PerformanceRequest) error {
	_, err := d.Bun.NewInsert().Model(&request).Exec(ctx)
	return err
}

func (d *DB) GetRequestByID(ctx context.Context, id string) (*models.PerformanceRequest, error) {
	var request models.PerformanceRequest
	err := d.Bun.NewSelect().
		Model(&request).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("request %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// SettleRequest moves a pending request into its terminal status.
// The WHERE clause only matches pending rows, so a request that was
// already decided stays decided even when two responses race; the
// loser sees zero rows affected and gets ErrConflict.
func (d *DB) SettleRequest(ctx context.Context, id, status string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.PerformanceRequest)(nil)).
		Set("status = ?", status).
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Where("status = ?", models.RequestPending).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("request %s is no longer pending: %w", id, errs.ErrConflict)
	}
	return nil
}

func (d *DB) ListRequestsByArtist(ctx context.Context, artistID string) ([]models.PerformanceRequest, error) {
	var requests []models.PerformanceRequest
	err := d.Bun.NewSelect().
		Model(&requests).
		Where("artist_id = ?", artistID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (d *DB) ListRequestsByVenues(ctx context.Context, venueIDs []string) ([]models.PerformanceRequest, error) {
	if len(venueIDs) == 0 {
		return []models.PerformanceRequest{}, nil
	}
	var requests []models.PerformanceRequest
	err := d.Bun.NewSelect().
		Model(&requests).
		Where("venue_id IN (?)", bun.In(venueIDs)).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return requests, nil
}
