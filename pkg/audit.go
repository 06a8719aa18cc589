package soaprouter

// NoopAuditStore is the router's default AuditStore: it accepts every
// record and discards it. It exists so Router works out of the box
// with no configured DSN, the same role the ambient framework's
// no-op database manager plays for its session/token/tenant stores.
type NoopAuditStore struct{}

func (NoopAuditStore) Record(sample DispatchSample) error { return nil }
func (NoopAuditStore) Close() error                        { return nil }

// isAuditDSNConfigured reports whether both a driver name and a DSN
// are set, mirroring the ambient framework's isDatabaseConfigured
// check: an empty driver or DSN means "run with the no-op store".
func isAuditDSNConfigured(driver, dsn string) bool {
	return driver != "" && dsn != ""
}
