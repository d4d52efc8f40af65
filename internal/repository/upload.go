package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/folio/internal/model"
)

var (
	ErrUploadNotFound = errors.New("upload not found")
)

type UploadRepository interface {
	Create(ctx context.Context, upload *model.Upload) error
	ByFilename(ctx context.Context, filename string) (*model.Upload, error)
	List(ctx context.Context) ([]*model.Upload, error)
	Delete(ctx context.Context, filename string) error
}

type uploadRepository struct {
	db *sqlx.DB
}

func NewUploadRepository(db *sqlx.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(ctx context.Context, upload *model.Upload) error {
	query := `INSERT INTO uploads (id, filename, original_name, mime_type, size, url, mirrored, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		upload.ID,
		upload.Filename,
		upload.OriginalName,
		upload.MimeType,
		upload.Size,
		upload.URL,
		upload.Mirrored,
		upload.CreatedAt,
	)

	return err
}

func (r *uploadRepository) ByFilename(ctx context.Context, filename string) (*model.Upload, error) {
	upload := &model.Upload{}
	query := `SELECT * FROM uploads WHERE filename = $1`

	err := r.db.GetContext(ctx, upload, query, filename)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUploadNotFound
	}
	if err != nil {
		return nil, err
	}

	return upload, nil
}

func (r *uploadRepository) List(ctx context.Context) ([]*model.Upload, error) {
	uploads := []*model.Upload{}
	query := `SELECT * FROM uploads ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &uploads, query)
	if err != nil {
		return nil, err
	}

	return uploads, nil
}

func (r *uploadRepository) Delete(ctx context.Context, filename string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM uploads WHERE filename = $1`, filename)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUploadNotFound
	}

	return nil
}
