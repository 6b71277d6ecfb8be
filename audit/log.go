package audit

import (
	log "log/slog"
	"time"

	"github.com/gocql/gocql"

	dispatch "github.com/sharedcode-labs/dispatchtable"
	"github.com/sharedcode-labs/dispatchtable/idgen"
)

// Now lambda to allow unit tests to inject replayable time.Now.
var Now = time.Now

// Logger appends one row per dispatch call to the call_log table. It is
// intentionally narrow: Append never returns an error to its caller
// beyond logging it, since an audit-log write is never allowed to turn a
// successful dispatch into a failed one.
type Logger struct {
	consistency gocql.Consistency
}

// NewLogger returns a Logger bound to the currently open Connection.
// OpenConnection must have been called first.
func NewLogger() *Logger {
	return &Logger{consistency: gocql.LocalOne}
}

// Append records one call: the opcode's canonical hex key, the handler's
// (or pipeline's) status, and a correlation id. Failures are logged at
// warn level and swallowed.
func (l *Logger) Append(id idgen.ID, opcodeKey string, status int32) {
	if connection == nil {
		log.Warn("dispatch/audit: append skipped, no open connection", "opcode", opcodeKey)
		return
	}
	insertStatement := "INSERT INTO " + connection.Config.Keyspace +
		".call_log (id, opcode, status, ts) VALUES(?,?,?,?);"
	qry := connection.Session.Query(insertStatement, gocqlUUID(id), opcodeKey, status, Now().UnixMilli()).
		Consistency(l.consistency)
	if err := qry.Exec(); err != nil {
		log.Warn("dispatch/audit: append failed", "opcode", opcodeKey, "error", err)
	}
}

func gocqlUUID(id idgen.ID) gocql.UUID {
	return gocql.UUID(id)
}

// Observer returns a dispatch.ObserverFunc suitable for Table.Observe that
// appends one call_log row per dispatch, table-owned return buffer or not.
// If owner implements idgen.CorrelationCarrier, its correlation id is
// reused (and stamped if not already set) so a caller's own request id
// flows into the log; otherwise a fresh id is minted per call.
func (l *Logger) Observer() dispatch.ObserverFunc {
	return func(owner any, op *dispatch.OpDesc, ret []byte, status int32) {
		id := idgen.Stamp(owner)
		if id.IsNil() {
			id = idgen.New()
		}
		l.Append(id, dispatch.EncodeKey(op.Opcode), status)
	}
}
