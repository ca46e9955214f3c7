package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/cloudlocker/file-vault/internal/models"
	"github.com/cloudlocker/file-vault/internal/storage/migrations"
)

// ErrDuplicate reports a unique-constraint violation (taken username).
var ErrDuplicate = errors.New("duplicate record")

// Postgres implements UserStore, FileStore, FolderStore and SessionStore on a
// single connection pool.
type Postgres struct {
	db *sql.DB
}

// NewPostgres connects, verifies the connection and applies pending
// migrations.
func NewPostgres(connectionString string) (*Postgres, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	p := &Postgres{db: db}
	if err := p.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Connected to PostgreSQL successfully")
	return p, nil
}

func (p *Postgres) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, p.db, ".")
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

// --- users ---

func (p *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	query := `
    INSERT INTO users (id, username, password_hash)
    VALUES ($1, $2, $3)
    RETURNING created_at
    `
	err := p.db.QueryRowContext(ctx, query, user.ID, user.Username, user.PasswordHash).
		Scan(&user.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	query := `
    SELECT id, username, password_hash, created_at
    FROM users WHERE username = $1
    `
	var user models.User
	err := p.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &user, true, nil
}

// --- files ---

const fileColumns = `id, name, locator, size, content_type, scan_status, user_id, folder_id, created_at`

func (p *Postgres) CreateFile(ctx context.Context, file *models.File) error {
	query := `
    INSERT INTO files (id, name, locator, size, content_type, scan_status, user_id, folder_id)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING created_at
    `
	return p.db.QueryRowContext(ctx, query,
		file.ID,
		file.Name,
		file.Locator,
		file.Size,
		file.ContentType,
		file.ScanStatus,
		file.UserID,
		file.FolderID,
	).Scan(&file.CreatedAt)
}

func (p *Postgres) GetFile(ctx context.Context, fileID, userID string) (*models.File, bool, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND user_id = $2`

	var file models.File
	err := p.db.QueryRowContext(ctx, query, fileID, userID).Scan(
		&file.ID,
		&file.Name,
		&file.Locator,
		&file.Size,
		&file.ContentType,
		&file.ScanStatus,
		&file.UserID,
		&file.FolderID,
		&file.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &file, true, nil
}

func (p *Postgres) ListFiles(ctx context.Context, userID string) ([]models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE user_id = $1 ORDER BY created_at DESC`
	return p.queryFiles(ctx, query, userID)
}

func (p *Postgres) ListRecentFiles(ctx context.Context, userID string, limit int) ([]models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	return p.queryFiles(ctx, query, userID, limit)
}

func (p *Postgres) listFolderFiles(ctx context.Context, folderID string) ([]models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE folder_id = $1 ORDER BY created_at DESC`
	return p.queryFiles(ctx, query, folderID)
}

func (p *Postgres) queryFiles(ctx context.Context, query string, args ...interface{}) ([]models.File, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		if cerr := rows.Close(); cerr != nil {
			log.Printf("Error closing rows: %v", cerr)
		}
	}(rows)

	var files []models.File
	for rows.Next() {
		var file models.File
		if err := rows.Scan(
			&file.ID,
			&file.Name,
			&file.Locator,
			&file.Size,
			&file.ContentType,
			&file.ScanStatus,
			&file.UserID,
			&file.FolderID,
			&file.CreatedAt,
		); err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func (p *Postgres) CountFiles(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

func (p *Postgres) DeleteFile(ctx context.Context, fileID, userID string) (bool, error) {
	result, err := p.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1 AND user_id = $2`, fileID, userID)
	if err != nil {
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	return rowsAffected > 0, err
}

func (p *Postgres) UpdateFileScanStatus(ctx context.Context, fileID, status string, scannedAt time.Time) error {
	query := `UPDATE files SET scan_status = $1, scanned_at = $2 WHERE id = $3`
	_, err := p.db.ExecContext(ctx, query, status, scannedAt, fileID)
	return err
}

// --- folders ---

func (p *Postgres) CreateFolder(ctx context.Context, folder *models.Folder) error {
	query := `
    INSERT INTO folders (id, name, user_id)
    VALUES ($1, $2, $3)
    RETURNING created_at
    `
	return p.db.QueryRowContext(ctx, query, folder.ID, folder.Name, folder.UserID).
		Scan(&folder.CreatedAt)
}

func (p *Postgres) GetFolder(ctx context.Context, folderID, userID string) (*models.Folder, bool, error) {
	query := `
    SELECT id, name, user_id, created_at
    FROM folders WHERE id = $1 AND user_id = $2
    `
	var folder models.Folder
	err := p.db.QueryRowContext(ctx, query, folderID, userID).Scan(
		&folder.ID,
		&folder.Name,
		&folder.UserID,
		&folder.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	files, err := p.listFolderFiles(ctx, folder.ID)
	if err != nil {
		return nil, false, err
	}
	folder.Files = files
	return &folder, true, nil
}

func (p *Postgres) ListFolders(ctx context.Context, userID string) ([]models.Folder, error) {
	query := `
    SELECT id, name, user_id, created_at
    FROM folders WHERE user_id = $1 ORDER BY created_at DESC
    `
	rows, err := p.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		if cerr := rows.Close(); cerr != nil {
			log.Printf("Error closing rows: %v", cerr)
		}
	}(rows)

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		if err := rows.Scan(&folder.ID, &folder.Name, &folder.UserID, &folder.CreatedAt); err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range folders {
		files, err := p.listFolderFiles(ctx, folders[i].ID)
		if err != nil {
			return nil, err
		}
		folders[i].Files = files
	}
	return folders, nil
}

func (p *Postgres) CountFolders(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM folders WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

func (p *Postgres) DeleteFolder(ctx context.Context, folderID, userID string) (bool, error) {
	result, err := p.db.ExecContext(ctx, `DELETE FROM folders WHERE id = $1 AND user_id = $2`, folderID, userID)
	if err != nil {
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	return rowsAffected > 0, err
}

// --- sessions ---

func (p *Postgres) CreateSession(ctx context.Context, session *models.Session) error {
	query := `INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := p.db.ExecContext(ctx, query, session.Token, session.UserID, session.ExpiresAt)
	return err
}

func (p *Postgres) GetSession(ctx context.Context, token string) (*models.Session, bool, error) {
	query := `SELECT token, user_id, expires_at FROM sessions WHERE token = $1 AND expires_at > NOW()`

	var session models.Session
	err := p.db.QueryRowContext(ctx, query, token).Scan(
		&session.Token,
		&session.UserID,
		&session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &session, true, nil
}

func (p *Postgres) DeleteSession(ctx context.Context, token string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

func (p *Postgres) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := p.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
