// Package audit keeps a persistent trail of compile attempts.
//
// Every call into the compiler - successful or rejected - produces one
// immutable audit record: a UUID, the hash of the merged policy document,
// the hashes of the compiled blocks, and the validation outcome including
// the offending field path on rejection. Records answer "what policy was
// in effect when" and "why did provisioning halt" after the fact.
//
// Records are stored in SQLite (pure-Go driver). A cron-scheduled pruner
// enforces the retention window so the trail does not grow without bound.
package audit
