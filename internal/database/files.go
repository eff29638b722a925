package database

import (
	"context"
	"errors"
	"file-panel/internal/models"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

var ErrFileNotFound = errors.New("uploaded file not found")

const fileColumns = `id, file, original_name, size_bytes, mime_type, uploaded_at, updated_at`

type CreateFileParams struct {
	File         string
	OriginalName string
	SizeBytes    int64
	MimeType     string
}

func scanFile(row pgx.Row) (*models.UploadedFile, error) {
	var file models.UploadedFile
	err := row.Scan(
		&file.ID,
		&file.File,
		&file.OriginalName,
		&file.SizeBytes,
		&file.MimeType,
		&file.UploadedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (q *Queries) CreateFile(ctx context.Context, arg CreateFileParams) (*models.UploadedFile, error) {
	if arg.File == "" {
		return nil, fmt.Errorf("create file: empty blob reference")
	}

	query := `
		INSERT INTO uploaded_files (file, original_name, size_bytes, mime_type, uploaded_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + fileColumns
	now := time.Now().UTC().Truncate(time.Microsecond)

	return scanFile(q.db.QueryRow(ctx, query,
		arg.File,
		arg.OriginalName,
		arg.SizeBytes,
		arg.MimeType,
		now,
		now,
	))
}

// CreateFiles inserts an upload batch. Either every record is created or none is.
func (s *Store) CreateFiles(ctx context.Context, args []CreateFileParams) ([]models.UploadedFile, error) {
	var created []models.UploadedFile

	err := s.ExecTx(ctx, func(q *Queries) error {
		created = make([]models.UploadedFile, 0, len(args))
		for _, arg := range args {
			file, err := q.CreateFile(ctx, arg)
			if err != nil {
				return fmt.Errorf("create file %q: %w", arg.OriginalName, err)
			}
			created = append(created, *file)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (q *Queries) GetFileByID(ctx context.Context, id int64) (*models.UploadedFile, error) {
	query := `SELECT ` + fileColumns + ` FROM uploaded_files WHERE id = $1`

	file, err := scanFile(q.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return file, nil
}

func (q *Queries) lockFile(ctx context.Context, id int64) (*models.UploadedFile, error) {
	query := `SELECT ` + fileColumns + ` FROM uploaded_files WHERE id = $1 FOR UPDATE`

	file, err := scanFile(q.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return file, nil
}

// ListFiles returns records newest first. A limit <= 0 returns every record.
func (q *Queries) ListFiles(ctx context.Context, limit int) ([]models.UploadedFile, error) {
	query := `SELECT ` + fileColumns + ` FROM uploaded_files ORDER BY uploaded_at DESC, id DESC`

	var rows pgx.Rows
	var err error
	if limit > 0 {
		rows, err = q.db.Query(ctx, query+` LIMIT $1`, limit)
	} else {
		rows, err = q.db.Query(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.UploadedFile
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *file)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if files == nil {
		return []models.UploadedFile{}, nil
	}

	return files, nil
}

// TouchFile bumps updated_at without changing the content reference.
// updated_at always moves forward, even within the same clock tick.
func (q *Queries) TouchFile(ctx context.Context, id int64) (*models.UploadedFile, error) {
	query := `
		UPDATE uploaded_files
		SET updated_at = GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')
		WHERE id = $1
		RETURNING ` + fileColumns

	file, err := scanFile(q.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return file, nil
}

func (q *Queries) setFileContent(ctx context.Context, id int64, arg CreateFileParams) (*models.UploadedFile, error) {
	query := `
		UPDATE uploaded_files
		SET file = $1,
			original_name = $2,
			size_bytes = $3,
			mime_type = $4,
			updated_at = GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')
		WHERE id = $5
		RETURNING ` + fileColumns

	file, err := scanFile(q.db.QueryRow(ctx, query, arg.File, arg.OriginalName, arg.SizeBytes, arg.MimeType, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return file, nil
}

func (q *Queries) deleteFileRow(ctx context.Context, id int64) error {
	res, err := q.db.Exec(ctx, `DELETE FROM uploaded_files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrFileNotFound
	}
	return nil
}

// ReplaceFileContent points the record at a new blob and returns the updated
// record together with the blob key it referenced before.
func (s *Store) ReplaceFileContent(ctx context.Context, id int64, arg CreateFileParams) (*models.UploadedFile, string, error) {
	if arg.File == "" {
		return nil, "", fmt.Errorf("replace file %d: empty blob reference", id)
	}

	var updated *models.UploadedFile
	var previousKey string

	err := s.ExecTx(ctx, func(q *Queries) error {
		current, err := q.lockFile(ctx, id)
		if err != nil {
			return err
		}
		previousKey = current.File

		updated, err = q.setFileContent(ctx, id, arg)
		return err
	})
	if err != nil {
		return nil, "", err
	}

	return updated, previousKey, nil
}

// DeleteFile removes the record and releases its blob in one transaction.
// If release fails the row deletion is rolled back.
func (s *Store) DeleteFile(ctx context.Context, id int64, release func(ctx context.Context, key string) error) (*models.UploadedFile, error) {
	var deleted *models.UploadedFile

	err := s.ExecTx(ctx, func(q *Queries) error {
		current, err := q.lockFile(ctx, id)
		if err != nil {
			return err
		}

		if err := q.deleteFileRow(ctx, id); err != nil {
			return err
		}

		if err := release(ctx, current.File); err != nil {
			return fmt.Errorf("release blob %s: %w", current.File, err)
		}

		deleted = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return deleted, nil
}
