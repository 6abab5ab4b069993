// Command tonearm is the release delivery CLI: it validates submissions,
// generates and delivers document packages to distribution partners, tracks
// deployments, and settles sales reports.
package main
