package cnst

// Tracer names used across the services
const (
	TraceAccount = "scentory/account"
	TraceCatalog = "scentory/catalog"
	TraceLedger  = "scentory/ledger"
	TraceStats   = "scentory/stats"
)
