// Package session orchestrates one end-to-end recommendation run: attribute
// collection, the three-way provider fan-out, aggregation, artifact
// persistence and playlist publication. The runner owns nothing global;
// every collaborator is constructed once and passed in.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/lexcodex/tunecouncil/collect"
	"github.com/lexcodex/tunecouncil/config"
	"github.com/lexcodex/tunecouncil/llm"
	"github.com/lexcodex/tunecouncil/persistence"
	"github.com/lexcodex/tunecouncil/playlist"
	"github.com/lexcodex/tunecouncil/recommend"
)

// Runner wires the whole pipeline for a single session. Fields are exported
// so tests can substitute any collaborator.
type Runner struct {
	Config     *config.Config
	Logger     *zap.Logger
	Prompter   Prompter
	Validator  collect.Validator
	Requesters []*recommend.Requester
	Namer      *recommend.Namer
	Publisher  *playlist.Publisher
	Artifacts  *persistence.ArtifactStore
	Catalog    *persistence.SessionCatalog
	Out        io.Writer

	stamp string
}

// New assembles a runner with real provider clients and stores, reading API
// keys from the environment. The caller owns the logger lifetime.
func New(cfg *config.Config, logger *zap.Logger) (*Runner, error) {
	if err := config.ValidateAPIKeys(); err != nil {
		return nil, err
	}
	stamp := persistence.SessionStamp(time.Now())
	artifacts, err := persistence.NewArtifactStore(cfg.OutputDir, stamp)
	if err != nil {
		return nil, err
	}
	catalog, err := persistence.OpenSessionCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	anthropic := llm.NewAnthropicClient(os.Getenv("ANTHROPIC_API_KEY"), cfg.AnthropicModel)
	openai := llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), cfg.OpenAIModel)
	openai.JSONMode = true
	google := llm.NewGoogleClient(os.Getenv("GOOGLE_API_KEY"), cfg.GoogleModel)
	google.JSONMode = true
	// The validator and namer share the plain (non-JSON) OpenAI client: both
	// expect short free-text answers.
	utility := llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), cfg.ValidatorModel)

	runner := &Runner{
		Config:    cfg,
		Logger:    logger,
		Prompter:  NewLinePrompter(os.Stdin, os.Stdout),
		Validator: recommend.NewInputValidator(utility, cfg.ValidatorModel, cfg.SearchTimeout(), logger),
		Namer: &recommend.Namer{
			Client:  utility,
			Model:   cfg.ValidatorModel,
			Timeout: cfg.SearchTimeout(),
			Logger:  logger,
		},
		Publisher: &playlist.Publisher{
			Platform:    playlist.NewYouTubeClient(os.Getenv("YOUTUBE_API_KEY")),
			CallTimeout: cfg.SearchTimeout(),
			Logger:      logger,
		},
		Artifacts: artifacts,
		Catalog:   catalog,
		Out:       os.Stdout,
		stamp:     stamp,
	}
	clients := map[recommend.Provider]struct {
		client llm.Completer
		model  string
	}{
		recommend.ProviderAnthropic: {anthropic, cfg.AnthropicModel},
		recommend.ProviderOpenAI:    {openai, cfg.OpenAIModel},
		recommend.ProviderGoogle:    {google, cfg.GoogleModel},
	}
	for _, provider := range recommend.Providers {
		c := clients[provider]
		runner.Requesters = append(runner.Requesters, &recommend.Requester{
			Provider:    provider,
			Client:      c.client,
			Model:       c.model,
			Songs:       cfg.Songs,
			Temperature: cfg.Temperature,
			Timeout:     cfg.RequestTimeout(),
			Artifacts:   artifacts,
			Logger:      logger,
		})
	}
	return runner, nil
}

// Close releases the runner's durable resources.
func (r *Runner) Close() error {
	if r.Catalog != nil {
		return r.Catalog.Close()
	}
	return nil
}

// Run drives one complete session. The session always ends with a consensus
// table on screen when at least one provider answered; playlist publication
// failing entirely degrades the report, never the run.
func (r *Runner) Run(ctx context.Context) error {
	fmt.Fprintln(r.Out, Banner(r.Config.Songs))

	finalPrompt, err := r.collectAttributes(ctx)
	if err != nil {
		return err
	}
	r.Logger.Info("final prompt assembled", zap.String("prompt", finalPrompt))
	fmt.Fprintln(r.Out, dimStyle.Render("\nProcessing your request..."))

	entries, err := r.recommendAndAggregate(ctx, finalPrompt)
	if err != nil {
		return err
	}
	if path, err := r.Artifacts.SaveConsensus(entries); err != nil {
		r.Logger.Error("consensus artifact not saved", zap.Error(err))
	} else {
		r.Logger.Info("consensus saved", zap.String("path", path))
	}

	fmt.Fprintln(r.Out, "\n"+headerStyle.Render("Consensus ranking"))
	fmt.Fprintln(r.Out, ConsensusTable(entries, r.Config.PlaylistTopN))

	outcome := r.publish(ctx, finalPrompt, entries)
	return r.record(ctx, finalPrompt, outcome)
}

// collectAttributes runs the interactive state machine to completion.
func (r *Runner) collectAttributes(ctx context.Context) (string, error) {
	sess := collect.NewSession(collect.Params{
		Attributes:  collect.Specs(r.Config.SongAttributes),
		Songs:       r.Config.Songs,
		MaxChars:    r.Config.MaxChars,
		MaxAttempts: r.Config.MaxAttempts,
	}, r.Validator)

	for !sess.Done() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		input, err := r.Prompter.Ask(sess.Prompt())
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		step, err := sess.Advance(ctx, input)
		if err != nil {
			return "", err
		}
		fmt.Fprintln(r.Out, stepMessage(step))
	}
	return sess.FinalPrompt(), nil
}

// recommendAndAggregate fans the prompt out to every provider, waits for all
// of them, and aggregates whatever succeeded. All providers failing is fatal
// for the session; anything else degrades gracefully.
func (r *Runner) recommendAndAggregate(ctx context.Context, finalPrompt string) ([]recommend.ConsensusEntry, error) {
	results, errs := recommend.FanOut(ctx, r.Requesters, finalPrompt)
	for i, err := range errs {
		if err != nil {
			fmt.Fprintln(r.Out, warnStyle.Render(
				fmt.Sprintf("! %s returned no usable result", r.Requesters[i].Provider)))
		}
	}
	entries, err := recommend.Aggregate(results)
	if err != nil {
		if errors.Is(err, recommend.ErrNoResults) {
			return nil, fmt.Errorf("every provider failed: %w", errors.Join(errs...))
		}
		return nil, err
	}
	return entries, nil
}

// publish names the playlist and pushes the top entries to the platform.
// Never returns an error: a failed publication is reported and the session
// still delivers its consensus.
func (r *Runner) publish(ctx context.Context, finalPrompt string, entries []recommend.ConsensusEntry) *playlist.Outcome {
	name := r.Namer.Name(ctx, finalPrompt)
	outcome, err := r.Publisher.Publish(ctx, name, "AI-generated music recommendations", entries, r.Config.PlaylistTopN)
	if err != nil {
		r.Logger.Error("playlist publication failed", zap.Error(err))
		fmt.Fprintln(r.Out, errorStyle.Render("✗ Playlist could not be created; the consensus above still stands."))
		return outcome
	}
	total := len(recommend.Top(entries, r.Config.PlaylistTopN))
	fmt.Fprintln(r.Out, successStyle.Render(fmt.Sprintf("✓ Playlist %q created: added %d/%d songs", name, outcome.Added, total)))
	fmt.Fprintln(r.Out, dimStyle.Render("  "+playlist.WatchURL(outcome.PlaylistID)))
	if len(outcome.Failed) > 0 {
		fmt.Fprintln(r.Out, warnStyle.Render(fmt.Sprintf("! %d songs could not be added:", len(outcome.Failed))))
		fmt.Fprint(r.Out, failureReport(outcome.Failed))
	}
	return outcome
}

// record files the session summary in the catalog.
func (r *Runner) record(ctx context.Context, finalPrompt string, outcome *playlist.Outcome) error {
	if r.Catalog == nil {
		return nil
	}
	rec := persistence.SessionRecord{
		Stamp:     r.stamp,
		Prompt:    finalPrompt,
		CreatedAt: time.Now(),
	}
	if outcome != nil {
		rec.PlaylistID = outcome.PlaylistID
		rec.Added = outcome.Added
		rec.Failed = len(outcome.Failed)
	}
	if err := r.Catalog.Record(ctx, rec); err != nil {
		// The catalog is a convenience index; losing one row is not worth
		// failing an otherwise successful session.
		r.Logger.Error("session not recorded in catalog", zap.Error(err))
	}
	return nil
}
