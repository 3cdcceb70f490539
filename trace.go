package odata

import (
	"io"

	"github.com/sirupsen/logrus"
	p "github.com/vektah/goparsify"
)

// traceLogger is the logrus logger whose output and level EnableTrace and
// DisableTrace switch. goparsify's own combinator trace does not pass
// through it: EnableTrace hands the writer to goparsify directly. It
// defaults to panic-level -- effectively silent -- until a caller opts in.
var traceLogger = logrus.New()

func init() {
	traceLogger.SetLevel(logrus.PanicLevel) // effectively silent until EnableTrace
}

// EnableTrace turns on verbose combinator-level tracing, writing goparsify's
// own rule-entry/backtrack log to w. This is a debugging aid for grammar
// authors, not something a production caller should leave on: every
// combinator invocation gets logged, so throughput drops sharply.
func EnableTrace(w io.Writer) {
	traceLogger.SetOutput(w)
	traceLogger.SetLevel(logrus.DebugLevel)
	p.EnableLogging(w)
}

// DisableTrace reverts EnableTrace.
func DisableTrace() {
	traceLogger.SetLevel(logrus.PanicLevel)
	p.EnableLogging(io.Discard)
}
