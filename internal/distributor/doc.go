// Package distributor integrates distribution partners behind one adapter
// contract: connection lifecycle, requirement-driven validation, release
// submission through the document/package/transport pipeline, status polling,
// takedowns, and earnings lookups. Each partner is described declaratively
// by a profile; the registry resolves adapters by id and payout terms by
// DDEX party id.
package distributor
