package inventory

import "time"

// WorkflowObserver recibe el resultado de cada flujo transaccional (métricas).
type WorkflowObserver interface {
	// ObserveWorkflow kind: inbound, outbound, bulk_inbound, bulk_outbound. err nil = confirmado.
	ObserveWorkflow(kind string, lines int, units int64, err error, elapsed time.Duration)
}
