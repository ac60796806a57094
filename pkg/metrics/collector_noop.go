package metrics

var _ Collector = (*NoOpCollector)(nil)

// NoOpCollector discards every observation. It exists so callers that want
// to disable metrics can pass it to NewInstrumentedCache instead of adding
// nil checks on every InstrumentedCache call.
type NoOpCollector struct{}

func (NoOpCollector) IncHit()                    {}
func (NoOpCollector) IncMiss()                   {}
func (NoOpCollector) IncInsertion()              {}
func (NoOpCollector) IncEviction(EvictionReason) {}
func (NoOpCollector) SetLength(int64)            {}
func (NoOpCollector) SetSizeBytes(int64)         {}
