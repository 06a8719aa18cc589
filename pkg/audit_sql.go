package soaprouter

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/microsoft/go-mssqldb"
)

// sqlAuditStore persists each dispatch sample as a row via
// database/sql, using whichever of the four imported drivers matches
// AuditConfig.Driver. The table is created (if missing) when the
// store is opened rather than through a migration step, since a
// dispatch log has exactly one table and no schema evolution concerns
// worth a migrator.
type sqlAuditStore struct {
	db     *sql.DB
	driver string
}

// AuditConfig selects and configures the audit store's backing SQL
// database.
type AuditConfig struct {
	Driver string // "mysql", "postgres", "sqlite3", or "sqlserver"
	DSN    string
}

// NewAuditStore opens a sqlAuditStore for the given configuration, or
// returns a NoopAuditStore if no driver/DSN pair is configured.
func NewAuditStore(cfg AuditConfig) (AuditStore, error) {
	if !isAuditDSNConfigured(cfg.Driver, cfg.DSN) {
		return NoopAuditStore{}, nil
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("soaprouter: opening audit database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("soaprouter: pinging audit database: %w", err)
	}

	store := &sqlAuditStore{db: db, driver: cfg.Driver}
	if err := store.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *sqlAuditStore) createTable() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS dispatch_audit (
		id INTEGER PRIMARY KEY,
		namespace_uri TEXT NOT NULL,
		local_name TEXT NOT NULL,
		duration_ns BIGINT NOT NULL,
		faulted BOOLEAN NOT NULL,
		fault_code TEXT,
		dispatched_at TIMESTAMP NOT NULL
	)`)
	return err
}

func (s *sqlAuditStore) Record(sample DispatchSample) error {
	query := "INSERT INTO dispatch_audit (namespace_uri, local_name, duration_ns, faulted, fault_code, dispatched_at) VALUES (" +
		s.placeholders(6) + ")"
	_, err := s.db.Exec(
		query,
		sample.NamespaceURI, sample.LocalName, sample.Duration.Nanoseconds(), sample.Faulted, sample.FaultCode, sample.Timestamp,
	)
	return err
}

// placeholders builds a comma-separated bind-parameter list in the
// dialect the configured driver expects: postgres and sqlserver use
// numbered placeholders, mysql and sqlite use positional "?".
func (s *sqlAuditStore) placeholders(n int) string {
	switch s.driver {
	case "postgres":
		out := ""
		for i := 1; i <= n; i++ {
			if i > 1 {
				out += ", "
			}
			out += fmt.Sprintf("$%d", i)
		}
		return out
	case "sqlserver":
		out := ""
		for i := 1; i <= n; i++ {
			if i > 1 {
				out += ", "
			}
			out += fmt.Sprintf("@p%d", i)
		}
		return out
	default:
		out := ""
		for i := 0; i < n; i++ {
			if i > 0 {
				out += ", "
			}
			out += "?"
		}
		return out
	}
}

func (s *sqlAuditStore) Close() error {
	return s.db.Close()
}
