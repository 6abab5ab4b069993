// Package ledger persists the deployment ledger: one row per release and
// distributor pairing, tracking delivery status from submission through to
// live. Rows are append-and-update only; completed deployments stay in the
// database as the audit trail.
package ledger
