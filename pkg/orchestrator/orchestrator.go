// Package orchestrator coordinates one simulated agent interaction:
// fingerprint the request, serve a stored response when one exists,
// otherwise route to a model tier, generate, and persist the result
// for future reuse.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rehash-ai/rehash/pkg/bucket"
	"github.com/rehash-ai/rehash/pkg/budget"
	"github.com/rehash-ai/rehash/pkg/ledger"
	"github.com/rehash-ai/rehash/pkg/models"
	"github.com/rehash-ai/rehash/pkg/pricing"
	"github.com/rehash-ai/rehash/pkg/router"
	"github.com/rehash-ai/rehash/pkg/selector"
	"github.com/rehash-ai/rehash/pkg/signature"
	"github.com/rehash-ai/rehash/pkg/store"
)

// ErrGenerationFailed marks a failure of the LLM collaborator. Nothing
// is cached on this path: every stored record is a real usable
// response.
var ErrGenerationFailed = errors.New("generation failed")

// Generator is the external LLM invocation collaborator, the one
// latent operation in the pipeline. Retries and backoff are its
// responsibility, not this package's.
type Generator interface {
	Generate(ctx context.Context, prompt, tier string) (*models.GeneratedContent, error)
}

// Stage identifies where in the pipeline a failure occurred, so
// callers can tell "never tried the cache" from "missed and generation
// failed" from "hit but serving failed".
type Stage string

const (
	StageValidate Stage = "validate"
	StageLookup   Stage = "lookup"
	StageRoute    Stage = "route"
	StageBudget   Stage = "budget"
	StageGenerate Stage = "generate"
	StagePersist  Stage = "persist"
)

// PipelineError wraps a pipeline failure with its stage and the
// computed signature, when one exists.
type PipelineError struct {
	Stage     Stage
	Signature string
	Err       error
}

func (e *PipelineError) Error() string {
	if e.Signature != "" {
		return fmt.Sprintf("%s (signature %s): %v", e.Stage, e.Signature, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Options carries the optional collaborators and policy knobs.
type Options struct {
	// Bucketer quantizes world state; nil uses the default breakpoint
	// table.
	Bucketer *bucket.Bucketer
	// Ledger receives one entry per interaction. Best-effort: a failed
	// write never fails the interaction. Nil disables cost recording.
	Ledger ledger.Ledger
	// Budget gates misses against session token limits when set.
	Budget *budget.Manager
	// Pricing computes per-generation dollar cost; nil uses defaults.
	Pricing pricing.Table
	// DegradeOnStoreFailure treats a store read failure during lookup
	// as a forced miss instead of failing the interaction. Off by
	// default: degrading silently turns a store outage into unbounded
	// spend, so it must be opted into.
	DegradeOnStoreFailure bool
	Logger                *zap.Logger
}

// Orchestrator is the top-level coordinator. Construct once, share
// across goroutines; all mutable state lives in the injected
// collaborators.
type Orchestrator struct {
	store     store.Store
	selector  *selector.Selector
	router    *router.Router
	generator Generator
	bucketer  *bucket.Bucketer
	ledger    ledger.Ledger
	budget    *budget.Manager
	pricing   pricing.Table
	degrade   bool
	logger    *zap.Logger
}

// New wires an Orchestrator with its collaborators. Store, selector,
// router, and generator are required.
func New(st store.Store, sel *selector.Selector, rt *router.Router, gen Generator, opts Options) (*Orchestrator, error) {
	if st == nil || sel == nil || rt == nil || gen == nil {
		return nil, errors.New("orchestrator: store, selector, router, and generator are required")
	}
	if opts.Bucketer == nil {
		opts.Bucketer = bucket.New(nil)
	}
	if opts.Pricing == nil {
		opts.Pricing = pricing.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Orchestrator{
		store:     st,
		selector:  sel,
		router:    rt,
		generator: gen,
		bucketer:  opts.Bucketer,
		ledger:    opts.Ledger,
		budget:    opts.Budget,
		pricing:   opts.Pricing,
		degrade:   opts.DegradeOnStoreFailure,
		logger:    opts.Logger,
	}, nil
}

// Process handles one interaction end to end. On a hit the result
// carries the stored content at zero cost; on a miss it carries the
// freshly generated content, which is persisted before returning.
// Caller cancellation during generation does not abort the provider
// call or skip caching: the abandoned caller gets ctx.Err() while the
// response is still persisted in the background.
func (o *Orchestrator) Process(ctx context.Context, req models.InteractionRequest) (*models.InteractionResult, error) {
	state := o.bucketer.Bucket(req.WorldState)
	sig, err := signature.Compute(req.AgentID, req.SituationCategory, state, signature.NormalizeIntent(req.InputIntent))
	if err != nil {
		return nil, &PipelineError{Stage: StageValidate, Err: err}
	}
	o.logger.Debug("request fingerprinted",
		zap.String("signature", sig),
		zap.String("state", state.String()))

	rec, hit, err := o.selector.Select(ctx, sig)
	if err != nil {
		if !o.degrade {
			return nil, &PipelineError{Stage: StageLookup, Signature: sig, Err: err}
		}
		o.logger.Warn("store lookup failed, degrading to miss",
			zap.String("signature", sig), zap.Error(err))
	}

	if hit {
		o.recordLedger(ctx, models.LedgerEntry{
			Signature: sig,
			Hit:       true,
			Tier:      rec.SourceTier,
		})
		return &models.InteractionResult{
			Content:   rec.Content,
			FromCache: true,
			Signature: sig,
			Tier:      rec.SourceTier,
			RecordID:  rec.ID,
		}, nil
	}

	tier, err := o.router.Resolve(req.TaskType, req.TierOverride)
	if err != nil {
		return nil, &PipelineError{Stage: StageRoute, Signature: sig, Err: err}
	}

	if o.budget != nil {
		if d := o.budget.Check(budget.EstimateTokens(req.Prompt)); !d.Allowed {
			return nil, &PipelineError{
				Stage:     StageBudget,
				Signature: sig,
				Err:       fmt.Errorf("%w: %s", budget.ErrExhausted, d.Reason),
			}
		}
	}

	// The generation and append run on a context detached from the
	// caller's so an abandoned interaction still completes and its
	// response is not lost to the cache.
	type outcome struct {
		result *models.InteractionResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := o.generateAndStore(context.WithoutCancel(ctx), req, sig, tier)
		done <- outcome{result, err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (o *Orchestrator) generateAndStore(ctx context.Context, req models.InteractionRequest, sig, tier string) (*models.InteractionResult, error) {
	content, err := o.generator.Generate(ctx, req.Prompt, tier)
	if err != nil {
		// A failed attempt leaves no trace in the store.
		return nil, &PipelineError{
			Stage:     StageGenerate,
			Signature: sig,
			Err:       errors.Join(ErrGenerationFailed, err),
		}
	}

	cost := o.pricing.Cost(tier, content.InputTokens, content.OutputTokens)
	stored, err := o.store.Append(ctx, models.CachedResponse{
		Signature:    sig,
		Content:      content.Content,
		SourceTier:   tier,
		InputTokens:  content.InputTokens,
		OutputTokens: content.OutputTokens,
		UsageCost:    cost,
	})
	if err != nil {
		return nil, &PipelineError{Stage: StagePersist, Signature: sig, Err: err}
	}

	if o.budget != nil {
		o.budget.RecordUsage(content.InputTokens, content.OutputTokens)
	}
	o.recordLedger(ctx, models.LedgerEntry{
		Signature:    sig,
		Hit:          false,
		Tier:         tier,
		InputTokens:  content.InputTokens,
		OutputTokens: content.OutputTokens,
		Cost:         cost,
	})

	o.logger.Debug("response generated",
		zap.String("signature", sig),
		zap.String("tier", tier),
		zap.Float64("cost", cost))

	return &models.InteractionResult{
		Content:   content.Content,
		FromCache: false,
		Signature: sig,
		Tier:      tier,
		Cost:      cost,
		RecordID:  stored.ID,
	}, nil
}

// recordLedger writes a ledger entry best-effort; observability never
// fails the interaction.
func (o *Orchestrator) recordLedger(ctx context.Context, entry models.LedgerEntry) {
	if o.ledger == nil {
		return
	}
	if err := o.ledger.Record(ctx, entry); err != nil {
		o.logger.Warn("ledger write failed",
			zap.String("signature", entry.Signature), zap.Error(err))
	}
}
