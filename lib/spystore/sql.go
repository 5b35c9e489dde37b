package spystore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	devenv "brotherowl-backend/dev/env"
	"brotherowl-backend/lib/timezone"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
	sqlx.BindDriver("libsql", sqlx.QUESTION)
}

type spyTableModel struct {
	PlayerID  string `db:"player_id"`
	Strength  int64  `db:"strength"`
	Speed     int64  `db:"speed"`
	Dexterity int64  `db:"dexterity"`
	Defense   int64  `db:"defense"`
	Total     int64  `db:"total"`
	Source    string `db:"source"`
	SpiedAt   int64  `db:"spied_at"`
}

func (m spyTableModel) record() Record {
	return Record{
		PlayerID:  m.PlayerID,
		Strength:  m.Strength,
		Speed:     m.Speed,
		Dexterity: m.Dexterity,
		Defense:   m.Defense,
		Total:     m.Total,
		Source:    m.Source,
		Timestamp: time.Unix(m.SpiedAt, 0).In(timezone.Location),
	}
}

type SQLStore struct {
	db *sqlx.DB
}

// driverFor maps a DSN to a registered database/sql driver and the DSN that
// driver expects.
func driverFor(dsn string) (driver string, source string, err error) {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "pgx", dsn, nil
	case strings.HasPrefix(lower, "libsql://"),
		strings.HasPrefix(lower, "http://"),
		strings.HasPrefix(lower, "https://"):
		return "libsql", dsn, nil
	}

	if dsn == "" || dsn == ":memory:" {
		return "sqlite", ":memory:", nil
	}
	path, err := devenv.ResolvePath(dsn)
	if err != nil {
		return "", "", err
	}
	return "sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path), nil
}

// OpenSQL connects to postgres, libsql or a local sqlite file depending on
// the DSN and makes sure the schema exists.
func OpenSQL(dsn string) (*SQLStore, error) {
	driver, source, err := driverFor(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driver, source)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one writer, and an in-memory database only lives as long as its connection
		db.SetMaxOpenConns(1)
	}
	return NewSQLStore(db)
}

func NewSQLStore(db *sqlx.DB) (*SQLStore, error) {
	_, err := db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("apply spy schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Put(ctx context.Context, record Record) (Record, error) {
	record = record.withTotal()
	if record.Timestamp.IsZero() {
		record.Timestamp = timezone.Now()
	}
	record.Timestamp = record.Timestamp.Truncate(time.Second)

	query := s.db.Rebind(`insert into spies (player_id, strength, speed, dexterity, defense, total, source, spied_at)
values (?, ?, ?, ?, ?, ?, ?, ?)
on conflict (player_id) do update set
    strength = excluded.strength,
    speed = excluded.speed,
    dexterity = excluded.dexterity,
    defense = excluded.defense,
    total = excluded.total,
    source = excluded.source,
    spied_at = excluded.spied_at`)
	_, err := s.db.ExecContext(
		ctx, query,
		record.PlayerID,
		record.Strength,
		record.Speed,
		record.Dexterity,
		record.Defense,
		record.Total,
		record.Source,
		record.Timestamp.Unix(),
	)
	if err != nil {
		return Record{}, fmt.Errorf("put spy record: %w", err)
	}
	record.Timestamp = record.Timestamp.In(timezone.Location)
	return record, nil
}

func (s *SQLStore) Get(ctx context.Context, playerID string) (Record, error) {
	var row spyTableModel
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`select * from spies where player_id = ?`), playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get spy record: %w", err)
	}
	return row.record(), nil
}

func (s *SQLStore) List(ctx context.Context) ([]Record, error) {
	var rows []spyTableModel
	err := s.db.SelectContext(ctx, &rows, `select * from spies order by player_id`)
	if err != nil {
		return nil, fmt.Errorf("list spy records: %w", err)
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}

func (s *SQLStore) Delete(ctx context.Context, playerID string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`delete from spies where player_id = ?`), playerID)
	if err != nil {
		return fmt.Errorf("delete spy record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
