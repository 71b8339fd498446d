package kingdom

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/clock"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kingdoms (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	faction TEXT NOT NULL,
	power INTEGER NOT NULL,
	data_json TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_kingdoms_power ON kingdoms(power DESC);
`

// kingdomRow is the stored form. Resources, buildings, queue and army
// live in data_json; the indexed columns are copies for lookups.
type kingdomRow struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	Faction   string `db:"faction"`
	Power     int    `db:"power"`
	DataJSON  string `db:"data_json"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

func toRow(k *entities.Kingdom) (*kingdomRow, error) {
	data, err := json.Marshal(k)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal kingdom")
	}
	return &kingdomRow{
		ID:        k.ID,
		Username:  k.Username,
		Faction:   string(k.Faction),
		Power:     k.Power,
		DataJSON:  string(data),
		CreatedAt: k.CreatedAt,
		UpdatedAt: k.UpdatedAt,
	}, nil
}

func (row *kingdomRow) toKingdom() (*entities.Kingdom, error) {
	var k entities.Kingdom
	if err := json.Unmarshal([]byte(row.DataJSON), &k); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal kingdom %s", row.ID)
	}
	return &k, nil
}

type sqliteRepository struct {
	db    *sqlx.DB
	clock clock.Clock
}

var _ Repository = (*sqliteRepository)(nil)

// SQLiteConfig contains configuration for the SQLite kingdom repository
type SQLiteConfig struct {
	DB    *sqlx.DB
	Clock clock.Clock
}

// Validate validates the SQLiteConfig
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.DB == nil {
		return errors.InvalidArgument("db cannot be nil")
	}
	return nil
}

// OpenSQLite opens or creates a SQLite database file
func OpenSQLite(path string) (*sqlx.DB, error) {
	if path == "" {
		return nil, errors.InvalidArgument("sqlite path is required")
	}

	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite database %s", path)
	}
	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewSQLite creates a SQLite-backed kingdom repository, creating the schema
// if needed
func NewSQLite(ctx context.Context, cfg *SQLiteConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if _, err := cfg.DB.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, errors.Wrapf(err, "failed to migrate kingdoms schema")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &sqliteRepository{
		db:    cfg.DB,
		clock: c,
	}, nil
}

func (r *sqliteRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateKingdom(input.Kingdom); err != nil {
		return nil, err
	}

	k := input.Kingdom.Clone()
	now := r.clock.Now().Unix()
	if k.CreatedAt == 0 {
		k.CreatedAt = now
	}
	k.UpdatedAt = now
	k.Version = 1

	row, err := toRow(k)
	if err != nil {
		return nil, err
	}

	_, err = r.db.NamedExecContext(ctx, `INSERT INTO kingdoms
		(id, username, faction, power, data_json, created_at, updated_at)
		VALUES (:id, :username, :faction, :power, :data_json, :created_at, :updated_at)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.AlreadyExistsf("kingdom %s or username %s already exists", k.ID, k.Username).
				WithMeta("username", k.Username)
		}
		return nil, errors.Wrapf(err, "failed to create kingdom")
	}

	return &CreateOutput{Kingdom: k.Clone()}, nil
}

func (r *sqliteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errKingdomIDEmpty)
	}

	k, err := r.getOne(ctx, "id", input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Kingdom: k}, nil
}

func (r *sqliteRepository) GetByUsername(ctx context.Context, input GetByUsernameInput) (*GetByUsernameOutput, error) {
	if input.Username == "" {
		return nil, errors.InvalidArgument(errUsernameEmpty)
	}

	k, err := r.getOne(ctx, "username", input.Username)
	if err != nil {
		return nil, err
	}
	return &GetByUsernameOutput{Kingdom: k}, nil
}

func (r *sqliteRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateKingdom(input.Kingdom); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var existing kingdomRow
	err = tx.GetContext(ctx, &existing, `SELECT * FROM kingdoms WHERE id = ?`, input.Kingdom.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("kingdom with ID %s not found", input.Kingdom.ID)
		}
		return nil, errors.Wrapf(err, "failed to get kingdom")
	}
	if existing.Username != input.Kingdom.Username {
		return nil, errors.InvalidArgument(errUsernameImmutable)
	}
	stored, err := existing.toKingdom()
	if err != nil {
		return nil, err
	}
	if stored.Version != input.Kingdom.Version {
		return nil, versionConflict(stored.ID, input.Kingdom.Version, stored.Version)
	}

	k := input.Kingdom.Clone()
	k.CreatedAt = existing.CreatedAt
	k.UpdatedAt = r.clock.Now().Unix()
	k.Version = stored.Version + 1

	row, err := toRow(k)
	if err != nil {
		return nil, err
	}

	// the version guard also covers writers in other processes
	res, err := tx.ExecContext(ctx, `UPDATE kingdoms SET
		faction = ?, power = ?, data_json = ?, updated_at = ?
		WHERE id = ? AND COALESCE(json_extract(data_json, '$.version'), 0) = ?`,
		row.Faction, row.Power, row.DataJSON, row.UpdatedAt, row.ID, stored.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update kingdom")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read update result")
	}
	if n == 0 {
		return nil, versionConflict(k.ID, input.Kingdom.Version, stored.Version)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrapf(err, "failed to commit kingdom update")
	}

	return &UpdateOutput{Kingdom: k.Clone()}, nil
}

func (r *sqliteRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errKingdomIDEmpty)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM kingdoms WHERE id = ?`, input.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete kingdom")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read delete result")
	}
	if n == 0 {
		return nil, errors.NotFoundf("kingdom with ID %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

func (r *sqliteRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	query := `SELECT * FROM kingdoms ORDER BY power DESC, id ASC`
	args := []any{}
	if input.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, input.Limit)
	}

	var rows []kingdomRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "failed to list kingdoms")
	}

	kingdoms := make([]*entities.Kingdom, 0, len(rows))
	for i := range rows {
		k, err := rows[i].toKingdom()
		if err != nil {
			return nil, err
		}
		kingdoms = append(kingdoms, k)
	}

	return &ListOutput{Kingdoms: kingdoms}, nil
}

// getOne loads by a unique column; column is never user input
func (r *sqliteRepository) getOne(ctx context.Context, column, value string) (*entities.Kingdom, error) {
	var row kingdomRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM kingdoms WHERE `+column+` = ?`, value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("kingdom with %s %s not found", column, value)
		}
		return nil, errors.Wrapf(err, "failed to get kingdom")
	}
	return row.toKingdom()
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
