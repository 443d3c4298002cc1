package metrics

// Prometheus metric namespaces
const (
	namespaceExecution = "execution"
	namespaceStorage   = "storage"
)

// Execution subsystems
const (
	subsystemProtocolUpgrade = "protocol_upgrade"
	subsystemBlockSession    = "block_session"
)

// Storage subsystems
const (
	subsystemCache        = "cache"
	subsystemOverlayCache = "overlay_cache"
)
