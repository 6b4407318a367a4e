package bootstrap

import "context"

// AuditLog captures an operational event worth keeping outside the regular
// application log stream.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
