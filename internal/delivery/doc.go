// Package delivery orchestrates the release pipeline end to end: generating
// the document package (ern.xml plus the resources tree), validating it
// against the supplied assets and partner expectations, and driving a
// submission through an adapter with a bounded transport session.
package delivery
