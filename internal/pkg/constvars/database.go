package constvars

const (
	MongoCollectionSlotLocks     = "slot_locks"
	MongoCollectionAppointments  = "appointments"
	MongoCollectionLedgerEntries = "ledger_entries"
	MongoCollectionCareLinks     = "care_links"
	MongoCollectionDoctors       = "doctors"
	MongoCollectionPatients      = "patients"
)

const (
	StorageDriverMongo    = "mongo"
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

const (
	PaymentGatewayOmise   = "omise"
	PaymentGatewaySandbox = "sandbox"
)
