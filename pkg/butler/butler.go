package butler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alfredlabs/butler/pkg/butler/compose"
	"github.com/alfredlabs/butler/pkg/butler/dispatch"
	"github.com/alfredlabs/butler/pkg/butler/extract"
	"github.com/alfredlabs/butler/pkg/butler/intent"
	"github.com/alfredlabs/butler/pkg/butler/internalerr"
	"github.com/alfredlabs/butler/pkg/butler/lexicon"
	"github.com/alfredlabs/butler/pkg/butler/message"
	"github.com/alfredlabs/butler/pkg/butler/store"
)

// Butler is the message-understanding engine facade: it normalizes a
// raw message, extracts entities, ranks intents, and composes an
// explainable result. With a store attached it also applies the
// resulting action.
type Butler struct {
	normalizer *message.Normalizer
	lexicon    *lexicon.Store
	scorer     *intent.Scorer
	composer   *compose.Composer
	units      extract.Units
	store      store.Store
	dispatcher *dispatch.Dispatcher
}

// Options configures a Butler instance. Zero-valued fields select the
// built-in defaults; Store is optional and enables dispatch.
type Options struct {
	Normalizer *message.Normalizer
	Lexicon    *lexicon.Store
	Scorer     *intent.Scorer
	Composer   *compose.Composer
	Units      extract.Units
	Store      store.Store
}

// New creates a Butler instance.
func New(opts Options) *Butler {
	b := &Butler{
		normalizer: opts.Normalizer,
		lexicon:    opts.Lexicon,
		scorer:     opts.Scorer,
		composer:   opts.Composer,
		units:      opts.Units,
		store:      opts.Store,
	}
	if b.normalizer == nil {
		b.normalizer = message.NewNormalizer(0)
	}
	if b.lexicon == nil {
		b.lexicon = lexicon.NewStore(lexicon.Seed())
	}
	if b.scorer == nil {
		b.scorer = intent.NewScorer(intent.DefaultSpecs(), intent.DefaultWeights())
	}
	if b.composer == nil {
		b.composer = compose.New(intent.DefaultSpecs(), compose.DefaultThresholds())
	}
	if b.units == nil {
		b.units = extract.DefaultUnits()
	}
	if b.store != nil {
		b.dispatcher = dispatch.New(b.store)
	}
	return b
}

// Close releases the attached store, if any.
func (b *Butler) Close() error {
	if b.store == nil {
		return nil
	}
	return b.store.Close()
}

// Lexicon exposes the live lexicon store for runtime additions.
func (b *Butler) Lexicon() *lexicon.Store {
	return b.lexicon
}

// Request is one message to understand.
type Request struct {
	Text string
	// ReferenceTime anchors relative dates; zero selects the wall
	// clock.
	ReferenceTime time.Time
	// LexiconSnapshotID optionally pins the request to a lexicon
	// snapshot. When set and the live snapshot has moved on, Classify
	// fails with internalerr.ErrLexiconUnavailable instead of
	// answering from a lexicon the caller did not ask for.
	LexiconSnapshotID string
}

// Response pairs the normalized message with the composed result and,
// when dispatched, the applied outcome.
type Response struct {
	Message message.Message
	Result  compose.Result
	Outcome dispatch.Outcome
}

// Classify runs the understanding pipeline without touching the store.
func (b *Butler) Classify(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	msg, err := b.normalizer.Normalize(req.Text)
	if err != nil {
		return Response{}, err
	}
	snap, err := b.lexicon.Current()
	if err != nil {
		return Response{}, err
	}
	if req.LexiconSnapshotID != "" && req.LexiconSnapshotID != snap.ID() {
		return Response{}, fmt.Errorf("snapshot %s is no longer current: %w",
			req.LexiconSnapshotID, internalerr.ErrLexiconUnavailable)
	}

	ref := req.ReferenceTime
	if ref.IsZero() {
		ref = time.Now()
	}

	var entities []extract.Entity
	entities = append(entities, extract.Temporal(msg.Normalized, ref)...)
	entities = append(entities, extract.Quantity(msg.Normalized, b.units)...)
	entities = append(entities, extract.People(msg)...)
	entities = append(entities, extract.Lookup(msg.Normalized, snap)...)
	entities = append(entities, extract.FreeText(msg.Normalized)...)
	entities = compose.ResolveSpans(entities)

	words := strings.Fields(msg.Normalized)
	candidates := b.scorer.Rank(words, entities, snap)
	result := b.composer.Compose(snap, candidates, entities)

	return Response{Message: msg, Result: result}, nil
}

// Handle classifies the message and, when a store is attached, applies
// the action for auto-actionable results.
func (b *Butler) Handle(ctx context.Context, req Request) (Response, error) {
	resp, err := b.Classify(ctx, req)
	if err != nil {
		return Response{}, err
	}
	if b.dispatcher == nil {
		return resp, nil
	}

	ref := req.ReferenceTime
	if ref.IsZero() {
		ref = time.Now()
	}
	outcome, err := b.dispatcher.Dispatch(ctx, resp.Message, resp.Result, ref)
	if err != nil {
		return resp, err
	}
	resp.Outcome = outcome
	return resp, nil
}
