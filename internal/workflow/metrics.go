package workflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	workflowTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholarhub_workflow_operations_total",
		Help: "Workflow procedure outcomes by operation.",
	}, []string{"op", "outcome"})

	// TxRetries counts serialization aborts that were retried by the
	// transaction runner. Wired as its OnRetry hook in cmd/api.
	TxRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scholarhub_workflow_tx_retries_total",
		Help: "Transactions retried after a serialization or deadlock abort.",
	})

	reconcileDrift = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholarhub_reconcile_drift_total",
		Help: "Denormalized records found out of sync during reconciliation.",
	}, []string{"kind"})
)
