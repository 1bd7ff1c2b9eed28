package compiler

import (
	"limen-hq/limen/pkg/policy"
)

// Output holds the two compiled directive blocks. Either block may be
// empty, which is a valid, signaled outcome (not an error): the caller
// must apply the documented fallback for an empty block.
type Output struct {
	// AuthBlock is the authentication directive block, or "" when no
	// authentication method is enabled.
	AuthBlock string

	// LimitBlock is the HTTP-method limit directive block, or "" when the
	// policy names no principals.
	LimitBlock string
}

// Compile merges an override document onto the built-in default policy,
// validates the result and compiles both directive blocks, as one atomic
// unit. On validation failure the caller receives no output at all, never
// a partially compiled one.
//
// Compile is pure and safe for concurrent use with distinct inputs.
func Compile(override policy.Document) (*Output, error) {
	merged := policy.Merge(policy.DefaultDocument(), override)
	return CompileMerged(merged)
}

// CompileMerged validates and compiles an already-merged document. Callers
// that assemble the merged document themselves (e.g. to inspect it first)
// use this entry point; Compile is the common path.
func CompileMerged(merged policy.Document) (*Output, error) {
	if err := policy.Validate(merged); err != nil {
		return nil, err
	}
	p, err := policy.Decode(merged)
	if err != nil {
		return nil, err
	}
	return CompilePolicy(p), nil
}

// CompilePolicy compiles a typed, validated policy. Both compilers run
// independently; neither sees the other's output.
func CompilePolicy(p *policy.Policy) *Output {
	return &Output{
		AuthBlock:  CompileAuth(p.Methods),
		LimitBlock: CompileLimits(p.Limits),
	}
}
