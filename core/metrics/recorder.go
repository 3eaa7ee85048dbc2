package metrics

// Recorder records configuration activity for observability purposes.
type Recorder interface {
	// RecordLoad records one document load. format is "json", "yaml",
	// "env" or "unknown"; err is the load outcome.
	RecordLoad(format string, err error)
	// RecordSet records a successful key write.
	RecordSet(key string)
}

// NopRecorder discards all records.
type NopRecorder struct{}

func (NopRecorder) RecordLoad(string, error) {}
func (NopRecorder) RecordSet(string)         {}
