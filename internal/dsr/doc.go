// Package dsr ingests digital sales reports: tab-separated usage and revenue
// lines reported back by distribution partners. Malformed rows never abort a
// parse; they are counted and skipped so a partial report still settles.
package dsr
