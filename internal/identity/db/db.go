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

func (d *DB) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := d.Bun.NewSelect().
		Model(&profile).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (d *DB) CreateProfile(ctx context.Context, profile models.Profile) error {
	_, err := d.Bun.NewInsert().Model(&profile).Exec(ctx)
	return err
}

func (d *DB) UpdateProfile(ctx context.Context, profile models.Profile) error {
	_, err := d.Bun.NewUpdate().
		Model(&profile).
		Column("display_name", "contact_email", "avatar_url", "updated_at").
		Where("id = ?", profile.ID).
		Exec(ctx)
	return err
}

func (d *DB) UpdateVerification(ctx context.Context, profileID, status string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Profile)(nil)).
		Set("verification_status = ?", status).
		Where("id = ?", profileID).
		Exec(ctx)
	return err
}

func (d *DB) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	var artist models.Artist
	err := d.Bun.NewSelect().
		Model(&artist).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("artist %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

func (d *DB) ArtistExists(ctx context.Context, id string) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.Artist)(nil)).
		Where("id = ?", id).
		Exists(ctx)
}

func (d *DB) CreateArtist(ctx context.Context, artist models.Artist) error {
	_, err := d.Bun.NewInsert().Model(&artist).Exec(ctx)
	return err
}

func (d *DB) UpdateArtist(ctx context.Context, artist models.Artist) error {
	_, err := d.Bun.NewUpdate().
		Model(&artist).
		Column("bio", "experience", "genres", "intro_video_url", "updated_at").
		Where("id = ?", artist.ID).
		Exec(ctx)
	return err
}
