package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"limen-hq/limen/pkg/compiler"
	"limen-hq/limen/pkg/policy"
)

// Outcome classifies a compile attempt.
type Outcome string

const (
	// OutcomeCompiled means validation passed and both blocks were produced.
	OutcomeCompiled Outcome = "compiled"

	// OutcomeRejected means validation failed and no output was produced.
	OutcomeRejected Outcome = "rejected"
)

// Record is one immutable audit entry for a compile attempt.
type Record struct {
	// ID is a UUID assigned when the record is created.
	ID string

	// CompiledAt is when the compile attempt finished.
	CompiledAt time.Time

	// PolicyHash is the canonical SHA-256 of the merged policy document.
	PolicyHash string

	// AuthHash and LimitHash are SHA-256 hashes of the compiled blocks.
	// Empty string for a rejected attempt.
	AuthHash  string
	LimitHash string

	// AuthEmpty and LimitEmpty record the empty-block outcomes that
	// trigger the provisioner's fallback contract.
	AuthEmpty  bool
	LimitEmpty bool

	// Outcome is compiled or rejected.
	Outcome Outcome

	// Field and Reason carry the offending field path and message for a
	// rejected attempt; both empty otherwise.
	Field  string
	Reason string
}

// NewCompiledRecord builds the audit record for a successful compile.
func NewCompiledRecord(merged policy.Document, out *compiler.Output) *Record {
	return &Record{
		ID:         uuid.New().String(),
		CompiledAt: time.Now().UTC(),
		PolicyHash: HashDocument(merged),
		AuthHash:   hashBlock(out.AuthBlock),
		LimitHash:  hashBlock(out.LimitBlock),
		AuthEmpty:  out.AuthBlock == "",
		LimitEmpty: out.LimitBlock == "",
		Outcome:    OutcomeCompiled,
	}
}

// NewRejectedRecord builds the audit record for a validation failure.
func NewRejectedRecord(merged policy.Document, verr *policy.ValidationError) *Record {
	return &Record{
		ID:         uuid.New().String(),
		CompiledAt: time.Now().UTC(),
		PolicyHash: HashDocument(merged),
		Outcome:    OutcomeRejected,
		Field:      verr.Field,
		Reason:     verr.Message,
	}
}

// HashDocument returns the canonical SHA-256 of a policy document. JSON
// encoding is used because it sorts map keys, making the hash independent
// of map iteration order.
func HashDocument(doc policy.Document) string {
	data, err := json.Marshal(map[string]any(doc))
	if err != nil {
		// Policy documents are built from YAML scalars, maps and lists;
		// they always marshal. Hash the error text rather than panic.
		data = []byte(err.Error())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hashBlock(block string) string {
	sum := sha256.Sum256([]byte(block))
	return hex.EncodeToString(sum[:])
}
