package recast

import "time"

// noOpContexter discards every log message and timer sample. It exists so
// the handful of Recast functions still typed against *Context (rather than
// the newer *BuildContext) have a concrete Contexter to run against; nothing
// in this package ever implemented Contexter otherwise.
type noOpContexter struct{}

func (noOpContexter) doResetLog()                                        {}
func (noOpContexter) doLog(category LogCategory, msg string)             {}
func (noOpContexter) doResetTimers()                                     {}
func (noOpContexter) doStartTimer(label TimerLabel)                      {}
func (noOpContexter) doStopTimer(label TimerLabel)                       {}
func (noOpContexter) doGetAccumulatedTime(label TimerLabel) time.Duration { return 0 }

// NewLogContext returns a *Context for the Recast functions that require
// one, backed by a Contexter that drops everything. Callers that want real
// logging use a *BuildContext directly with the functions that accept it.
func NewLogContext(state bool) *Context {
	return NewContext(state, noOpContexter{})
}
