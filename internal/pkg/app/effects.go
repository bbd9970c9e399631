package app

// Effect is a side effect requested by [App.Update], executed by the [Driver].
type Effect interface {
	isEffect()
}

// Persist asks for the snapshot to be written.
type Persist struct {
	Blob []byte
}

// Measure asks for the width available to the graphs. It resolves into [Measured] or
// [MeasureFailed].
type Measure struct{}

// ReportError hands an error over to diagnostics.
type ReportError struct {
	Err error
}

func (Persist) isEffect()     {}
func (Measure) isEffect()     {}
func (ReportError) isEffect() {}
