package attestation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/chainsafe/bridge-claims/internal/metrics"
	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config tunes collection. Zero values fall back to sequential collection,
// three attempts per validator and a one second retry delay.
type Config struct {
	Threshold    int
	Attempts     int
	RetryDelay   time.Duration
	Strategy     string
	Concurrency  int
	PollInterval time.Duration
	PollAttempts int
}

// ConfigFrom maps the validators config section.
func ConfigFrom(cfg config.ValidatorsConfig) Config {
	return Config{
		Threshold:    cfg.Threshold,
		Attempts:     cfg.Attempts,
		RetryDelay:   cfg.RetryDelay,
		Strategy:     cfg.Strategy,
		Concurrency:  cfg.Concurrency,
		PollInterval: cfg.PollInterval,
		PollAttempts: cfg.PollAttempts,
	}
}

// Result is the outcome of one collection round.
type Result struct {
	// Attestations hold at most Threshold signed attestations in collection order.
	Attestations []bridge.Attestation
	// LastResponse is the last parsed validator response, signed or not.
	LastResponse *bridge.Attestation
}

// Signatures concatenates the collected signatures in collection order.
func (r *Result) Signatures() []byte {
	var out []byte
	for _, a := range r.Attestations {
		out = append(out, a.Signature...)
	}
	return out
}

// Aggregator gathers validator signatures until the threshold is reached.
type Aggregator struct {
	validators []Validator
	cfg        Config
	logger     *zap.Logger
}

// NewAggregator validates cfg against the validator set. The threshold must be
// at least one and strictly below the number of validators.
func NewAggregator(validators []Validator, cfg Config, logger *zap.Logger) (*Aggregator, error) {
	if cfg.Threshold < 1 || cfg.Threshold >= len(validators) {
		return nil, fmt.Errorf("threshold %d must be in [1, %d)", cfg.Threshold, len(validators))
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Strategy == "" {
		cfg.Strategy = config.StrategySequential
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = len(validators)
	}
	if cfg.PollAttempts < 1 {
		cfg.PollAttempts = 1
	}
	return &Aggregator{
		validators: validators,
		cfg:        cfg,
		logger:     logger.With(zap.String("component", "attestation")),
	}, nil
}

// Threshold is the number of signatures a claim needs.
func (a *Aggregator) Threshold() int { return a.cfg.Threshold }

// Validators is the configured validator count.
func (a *Aggregator) Validators() int { return len(a.validators) }

// CollectAttestations queries validators until Threshold signatures are collected or
// every validator has been asked. Unavailable validators are skipped, so the result may
// hold fewer than Threshold attestations. Only context cancellation is returned as an error.
func (a *Aggregator) CollectAttestations(ctx context.Context, txHash string, chainID uint64) (*Result, error) {
	var (
		res *Result
		err error
	)
	if a.cfg.Strategy == config.StrategyFanOut {
		res, err = a.collectFanOut(ctx, txHash, chainID)
	} else {
		res, err = a.collectSequential(ctx, txHash, chainID)
	}
	if err != nil {
		return nil, err
	}

	metrics.AttestationsCollected.Observe(float64(len(res.Attestations)))
	a.logger.Debug("Collected attestations",
		zap.String("source_tx_hash", txHash),
		zap.Uint64("chain_id", chainID),
		zap.Int("collected", len(res.Attestations)),
		zap.Int("threshold", a.cfg.Threshold))
	return res, nil
}

func (a *Aggregator) collectSequential(ctx context.Context, txHash string, chainID uint64) (*Result, error) {
	res := &Result{}
	for _, v := range a.validators {
		att, err := a.fetch(ctx, v, txHash, chainID)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			continue
		}
		res.LastResponse = att
		if att.HasSignature() {
			res.Attestations = append(res.Attestations, *att)
			if len(res.Attestations) >= a.cfg.Threshold {
				break
			}
		}
	}
	return res, nil
}

// collectFanOut queries validators concurrently and stops once the threshold is met.
// Collected attestations are ordered by validator position.
func (a *Aggregator) collectFanOut(ctx context.Context, txHash string, chainID uint64) (*Result, error) {
	roundCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type indexed struct {
		pos int
		att bridge.Attestation
	}

	var (
		mu        sync.Mutex
		collected []indexed
		last      *bridge.Attestation
	)

	g, gctx := errgroup.WithContext(roundCtx)
	g.SetLimit(a.cfg.Concurrency)

	for i, v := range a.validators {
		mu.Lock()
		done := len(collected) >= a.cfg.Threshold
		mu.Unlock()
		if done {
			break
		}

		g.Go(func() error {
			att, err := a.fetch(gctx, v, txHash, chainID)
			if err != nil {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			if len(collected) >= a.cfg.Threshold {
				return nil
			}
			last = att
			if att.HasSignature() {
				collected = append(collected, indexed{pos: i, att: *att})
				if len(collected) >= a.cfg.Threshold {
					cancel()
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].pos < collected[j].pos })
	res := &Result{LastResponse: last}
	for _, c := range collected {
		res.Attestations = append(res.Attestations, c.att)
	}
	return res, nil
}

// fetch asks one validator with a fixed number of attempts and a constant delay.
// A validator still failing afterwards is reported as unavailable.
func (a *Aggregator) fetch(ctx context.Context, v Validator, txHash string, chainID uint64) (*bridge.Attestation, error) {
	endpoint := v.Endpoint()
	start := time.Now()
	attempt := 0

	var att *bridge.Attestation
	op := func() error {
		attempt++
		var err error
		att, err = v.Fetch(ctx, txHash, chainID)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(a.cfg.RetryDelay), uint64(a.cfg.Attempts-1)),
		ctx,
	)
	notify := func(err error, wait time.Duration) {
		a.logger.Debug("Validator request failed, retrying",
			zap.String("validator", endpoint),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	err := backoff.RetryNotify(op, policy, notify)
	metrics.ValidatorRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result := "unavailable"
		if isMalformed(err) {
			result = "malformed"
		} else {
			err = fmt.Errorf("%w: %s: %v", bridge.ErrValidatorUnavailable, endpoint, err)
		}
		metrics.ValidatorRequests.WithLabelValues(endpoint, result).Inc()
		a.logger.Warn("Validator skipped",
			zap.String("validator", endpoint),
			zap.String("source_tx_hash", txHash),
			zap.Int("attempt", attempt),
			zap.String("result", result),
			zap.Error(err))
		return nil, err
	}

	result := "rejected"
	if att.HasSignature() {
		result = "signed"
	}
	metrics.ValidatorRequests.WithLabelValues(endpoint, result).Inc()
	return att, nil
}

func isMalformed(err error) bool {
	return errors.Is(err, bridge.ErrMalformedAttestation)
}

// CheckConsistency verifies that every attestation authorizes the same transfer.
func CheckConsistency(atts []bridge.Attestation) error {
	if len(atts) < 2 {
		return nil
	}
	first := &atts[0]
	for i := 1; i < len(atts); i++ {
		if ok, field := first.SameClaim(&atts[i]); !ok {
			return fmt.Errorf("%w: %s differs between %s and %s",
				bridge.ErrDivergentAttestations, field, first.Validator, atts[i].Validator)
		}
	}
	return nil
}

// IsClaimReady reports whether a threshold of consistent signatures is available now.
// Divergent attestations are returned as an error.
func (a *Aggregator) IsClaimReady(ctx context.Context, txHash string, chainID uint64) (bool, error) {
	res, err := a.CollectAttestations(ctx, txHash, chainID)
	if err != nil {
		return false, err
	}
	if len(res.Attestations) < a.cfg.Threshold {
		return false, nil
	}
	if err := CheckConsistency(res.Attestations); err != nil {
		return false, err
	}
	return true, nil
}

// PollUntilReady repeats collection at a fixed interval until the threshold of
// consistent signatures is reached or the attempts run out.
func (a *Aggregator) PollUntilReady(ctx context.Context, txHash string, chainID uint64) (*Result, error) {
	var last *Result
	for attempt := 1; attempt <= a.cfg.PollAttempts; attempt++ {
		res, err := a.CollectAttestations(ctx, txHash, chainID)
		if err != nil {
			return nil, err
		}
		last = res
		if len(res.Attestations) >= a.cfg.Threshold {
			if err := CheckConsistency(res.Attestations); err != nil {
				return res, err
			}
			return res, nil
		}

		if attempt == a.cfg.PollAttempts {
			break
		}
		a.logger.Debug("Waiting for validator consensus",
			zap.String("source_tx_hash", txHash),
			zap.Int("attempt", attempt),
			zap.Int("collected", len(res.Attestations)))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.cfg.PollInterval):
		}
	}
	return last, fmt.Errorf("%w: %d of %d after %d polls",
		bridge.ErrInsufficientAttestations, len(last.Attestations), a.cfg.Threshold, a.cfg.PollAttempts)
}
