package bridge

import (
	"errors"
)

var (
	// ErrUserRejected is returned when the signer declines a transaction.
	ErrUserRejected = errors.New("user rejected signing")
	// ErrInsufficientAttestations is returned when fewer than the threshold of validators signed.
	ErrInsufficientAttestations = errors.New("insufficient attestations")
	// ErrAlreadyClaimed is returned when the destination contract reports a prior claim.
	ErrAlreadyClaimed = errors.New("already claimed")
	// ErrValidatorUnavailable marks a validator endpoint that failed after all retries.
	ErrValidatorUnavailable = errors.New("validator unavailable")
	// ErrMalformedAttestation is returned when a response lacks fields the claim variant needs.
	ErrMalformedAttestation = errors.New("malformed attestation")
	// ErrDivergentAttestations is returned when validators disagree on the transfer they sign.
	ErrDivergentAttestations = errors.New("divergent attestations")
	// ErrSubmissionFailed covers chain-level rejections not classified otherwise.
	ErrSubmissionFailed = errors.New("submission failed")
	// ErrChainMismatch is returned when the connected chain differs from the one the token lives on.
	ErrChainMismatch = errors.New("chain mismatch")
	// ErrInvalidRequest is returned for caller errors detected before any submission.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrAllowanceRequired is returned when approval is needed and the policy forbids issuing one.
	ErrAllowanceRequired = errors.New("allowance required")
	// ErrNotFound is returned when a ledger entry does not exist.
	ErrNotFound = errors.New("transaction not found")
	// ErrInvalidTransition is returned when a ledger update breaks the status lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Kind tags a failure so callers can decide whether trying again is meaningful.
type Kind string

const (
	KindNone                     Kind = ""
	KindUserRejected             Kind = "user_rejected"
	KindInsufficientAttestations Kind = "insufficient_attestations"
	KindAlreadyClaimed           Kind = "already_claimed"
	KindValidatorUnavailable     Kind = "validator_unavailable"
	KindMalformedAttestation     Kind = "malformed_attestation"
	KindDivergentAttestations    Kind = "divergent_attestations"
	KindSubmissionFailed         Kind = "submission_failed"
	KindChainMismatch            Kind = "chain_mismatch"
	KindInvalidRequest           Kind = "invalid_request"
	KindAllowanceRequired        Kind = "allowance_required"
	KindNotFound                 Kind = "not_found"
	KindInvalidTransition        Kind = "invalid_transition"
	KindInternal                 Kind = "internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrUserRejected, KindUserRejected},
	{ErrInsufficientAttestations, KindInsufficientAttestations},
	{ErrAlreadyClaimed, KindAlreadyClaimed},
	{ErrValidatorUnavailable, KindValidatorUnavailable},
	{ErrMalformedAttestation, KindMalformedAttestation},
	{ErrDivergentAttestations, KindDivergentAttestations},
	{ErrSubmissionFailed, KindSubmissionFailed},
	{ErrChainMismatch, KindChainMismatch},
	{ErrInvalidRequest, KindInvalidRequest},
	{ErrAllowanceRequired, KindAllowanceRequired},
	{ErrNotFound, KindNotFound},
	{ErrInvalidTransition, KindInvalidTransition},
}

// KindOf maps err to its taxonomy kind. Unknown errors are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// Retryable reports whether the same request may succeed if issued again later.
func (k Kind) Retryable() bool {
	switch k {
	case KindInsufficientAttestations, KindValidatorUnavailable, KindSubmissionFailed, KindInternal:
		return true
	}
	return false
}
