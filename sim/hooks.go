package sim

// Hooks receives notable events from the tick engine, one call per event as
// it happens. The telemetry collector implements this; a nil Hooks disables
// reporting entirely.
type Hooks interface {
	RecordBirth()
	RecordDeath()
	RecordMove()
	RecordAttack(taken float32)
	RecordRecycle(absorbed float32)
}
