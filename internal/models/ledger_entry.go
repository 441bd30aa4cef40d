package models

// LedgerEntry records one attempted call to an external service.
// Entries are append-only: nothing mutates or removes them for the
// lifetime of the process.
type LedgerEntry struct {
	Service   string `json:"service"`
	Endpoint  string `json:"endpoint"`
	Outcome   string `json:"outcome"`
	Timestamp string `json:"timestamp"`
}
