// Package core implements the import pipeline, fork-choice and query
// surface of the chain database: decoding and verifying candidate
// blocks, deciding canonical-versus-side-chain membership, and
// maintaining the bloom-filter hierarchy and tree-route index that
// back historical queries.
package core

import "fmt"

// Kind classifies why an import did not produce a route.
type Kind int

const (
	// KindNone is the zero value; never returned as an actual error.
	KindNone Kind = iota
	// KindAlreadyHave means the block hash is already persisted. The
	// caller may treat this as success.
	KindAlreadyHave
	// KindUnknownParent means the parent hash is not yet known. The
	// caller should hold the block and retry once the parent arrives.
	KindUnknownParent
	// KindFutureTime means the header's timestamp is further in the
	// future than the configured clock-skew allowance. Transient:
	// resubmit later.
	KindFutureTime
	// KindMalformedRecord means the block failed a structural check.
	// Permanent: the block is marked bad and never persisted.
	KindMalformedRecord
	// KindConsensusMismatch means difficulty, state root or seal
	// disagreed with the recomputed value. Permanent.
	KindConsensusMismatch
	// KindInvariantViolation means a database inconsistency was
	// detected that the import path cannot itself repair. Callers
	// should treat this as an operator-facing rescue advisory.
	KindInvariantViolation
	// KindStorageError wraps an underlying key-value failure. Writes
	// are rolled back; caches and head pointer are left untouched.
	KindStorageError
)

func (k Kind) String() string {
	switch k {
	case KindAlreadyHave:
		return "AlreadyHave"
	case KindUnknownParent:
		return "UnknownParent"
	case KindFutureTime:
		return "FutureTime"
	case KindMalformedRecord:
		return "MalformedRecord"
	case KindConsensusMismatch:
		return "ConsensusMismatch"
	case KindInvariantViolation:
		return "InvariantViolation"
	case KindStorageError:
		return "StorageError"
	default:
		return "None"
	}
}

// Transient reports whether an error of this kind should be retried
// rather than treated as a bad block.
func (k Kind) Transient() bool {
	return k == KindFutureTime || k == KindUnknownParent
}

// ImportError carries a Kind plus context. Sync and callers dispatch
// on Kind rather than string-matching.
type ImportError struct {
	Kind Kind
	Hash [32]byte
	Err  error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *ImportError) Unwrap() error { return e.Err }

func newImportError(kind Kind, hash [32]byte, err error) *ImportError {
	return &ImportError{Kind: kind, Hash: hash, Err: err}
}
