// Package royalty settles parsed sales reports against release metadata:
// distributor fee deduction matched by reporting party, then per-contributor
// split payouts. Amounts are rounded to four decimal places independently;
// rounding remainders are not redistributed.
package royalty
