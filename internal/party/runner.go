package party

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fedqlab/fedq/internal/aggregate"
	"github.com/fedqlab/fedq/internal/config"
	"github.com/fedqlab/fedq/internal/match"
	"github.com/fedqlab/fedq/internal/query"
	"github.com/fedqlab/fedq/internal/relay"
	"github.com/fedqlab/fedq/internal/report"
	"github.com/fedqlab/fedq/internal/source"
	"github.com/fedqlab/fedq/internal/store"
)

// Resource kind requested from every source. Only observations carry the
// numeric quantities the query grammar compares against.
const ResourceKind = "Observation"

// Default coordinator output file names, relative to the output directory.
const (
	AggregateFileName = "aggregated_results.csv"
	TestDataFileName  = "test_data.csv"
)

// Runner executes one party's state machine.
//
// A Runner is built once per run. The relay is shared with every other
// party in the run; everything else is exclusively this party's.
type Runner struct {
	cfg     *config.Config
	role    Role
	fetcher source.Fetcher
	relay   *relay.Relay
	tokens  TokenGenerator

	// log is the optional run log; nil disables logging without changing
	// any orchestration behavior.
	log *store.Store
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunLog attaches a run log store.
func WithRunLog(s *store.Store) RunnerOption {
	return func(r *Runner) {
		r.log = s
	}
}

// WithTokenGenerator overrides the run token generator (tests).
func WithTokenGenerator(g TokenGenerator) RunnerOption {
	return func(r *Runner) {
		r.tokens = g
	}
}

// NewRunner builds a Runner for cfg. The transition table is validated
// here: a table that strands any role fails construction, not the run.
func NewRunner(cfg *config.Config, fetcher source.Fetcher, rl *relay.Relay, opts ...RunnerOption) (*Runner, error) {
	role, err := ParseRole(cfg.Role)
	if err != nil {
		return nil, err
	}
	if err := validateTransitions(); err != nil {
		return nil, err
	}
	if fetcher == nil {
		return nil, fmt.Errorf("runner: fetcher is required")
	}
	if rl == nil {
		return nil, fmt.Errorf("runner: relay is required")
	}

	r := &Runner{
		cfg:     cfg,
		role:    role,
		fetcher: fetcher,
		relay:   rl,
		tokens:  UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Role returns the runner's parsed role.
func (r *Runner) Role() Role {
	return r.role
}

// Run drives the state machine from Init to Terminal.
//
// The returned RunContext is the run's final state, handed back to the
// caller once no state handler owns it anymore. On a fatal step the error
// is a *RunError naming the state that failed, and the context reflects
// everything completed up to that point.
func (r *Runner) Run(ctx context.Context) (*RunContext, error) {
	rc := &RunContext{
		Token:   r.tokens.Generate(),
		Party:   r.cfg.Client,
		Role:    r.role,
		Spec:    r.cfg.Query,
		Sources: r.cfg.Servers,
	}

	logger := slog.With("party", rc.Party, "role", rc.Role.String(), "run", rc.Token)
	logger.Info("run starting")
	r.recordStart(ctx, rc)

	state := StateInit
	seq := 0
	for state != StateTerminal {
		rc.Trail = append(rc.Trail, state)
		logger.Debug("entering state", "state", state.String())

		if err := r.handle(ctx, state, rc); err != nil {
			runErr := &RunError{State: state, Party: rc.Party, Err: err}
			logger.Error("run failed", "state", state.String(), "error", err)
			r.recordFinish(ctx, rc, true)
			return rc, runErr
		}

		next, ok := nextState(state, r.role)
		if !ok {
			// Unreachable after validateTransitions; kept as a guard
			// against a table edited without revalidation.
			runErr := &RunError{State: state, Party: rc.Party,
				Err: fmt.Errorf("no transition from %s for role %s", state, r.role)}
			r.recordFinish(ctx, rc, true)
			return rc, runErr
		}

		seq++
		r.recordTransition(ctx, rc, seq, state, next)
		logger.Info("state complete", "from", state.String(), "to", next.String())
		state = next
	}

	rc.Trail = append(rc.Trail, StateTerminal)
	r.recordFinish(ctx, rc, false)
	logger.Info("run finished")
	return rc, nil
}

// handle dispatches one state. Terminal never reaches here.
func (r *Runner) handle(ctx context.Context, state State, rc *RunContext) error {
	switch state {
	case StateInit:
		return r.runInit(rc)
	case StateFetch:
		return r.runFetch(ctx, rc)
	case StateWrite:
		return r.runWrite(rc)
	case StateAggregate:
		return r.runAggregate(ctx, rc)
	case StateGenerateTestData:
		return r.runGenerateTestData(rc)
	default:
		return fmt.Errorf("no handler for state %s", state)
	}
}

// runInit validates and compiles the query and computes output paths.
func (r *Runner) runInit(rc *RunContext) error {
	if err := query.Validate(rc.Spec); err != nil {
		return err
	}
	rc.CompiledQuery = query.Compile(rc.Spec)
	rc.ResultFile = filepath.Join(r.cfg.OutputDir, r.cfg.ResultFile)
	rc.AggregatePath = filepath.Join(r.cfg.OutputDir, AggregateFileName)
	rc.TestDataPath = filepath.Join(r.cfg.OutputDir, TestDataFileName)

	slog.Debug("query compiled", "party", rc.Party, "query", rc.CompiledQuery)
	return nil
}

// runFetch pulls records from every configured source and filters them.
func (r *Runner) runFetch(ctx context.Context, rc *RunContext) error {
	records, err := r.fetcher.Fetch(ctx, rc.Party, ResourceKind, rc.Sources)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	rc.Filtered = match.Filter(rc.Spec, records)
	for src, count := range rc.Filtered.Counts() {
		slog.Info("source filtered", "party", rc.Party, "source", src, "rows", count)
	}
	return nil
}

// runWrite writes the local report and sends the contribution to the
// coordinator. The send happens for every role: the coordinator's
// self-send is what triggers its own fan-in accounting.
func (r *Runner) runWrite(rc *RunContext) error {
	slog.Info("writing local report", "party", rc.Party, "path", rc.ResultFile)
	if err := report.WriteLocal(rc.Filtered, rc.ResultFile); err != nil {
		return err
	}

	if !r.relay.Send(rc.Party, rc.Filtered) {
		return fmt.Errorf("relay refused contribution from %s", rc.Party)
	}
	if r.role == RoleParticipant {
		slog.Info("contribution sent to coordinator", "party", rc.Party, "rows", rc.Filtered.TotalRows())
	}
	return nil
}

// runAggregate gathers every party's contribution and writes the combined
// report. Coordinator only.
func (r *Runner) runAggregate(ctx context.Context, rc *RunContext) error {
	res, err := r.relay.Gather(ctx, r.cfg.Parties, r.cfg.GatherTimeout)
	if err != nil {
		return fmt.Errorf("gather: %w", err)
	}
	if !res.Complete() {
		return aggregate.NewIncompleteError(res.Missing, res.TimedOut)
	}

	for _, contrib := range res.Contributions {
		r.recordReceipt(ctx, rc, contrib)
	}

	rep, err := aggregate.Reduce(res.Contributions)
	if err != nil {
		return err
	}

	slog.Info("writing aggregate report",
		"party", rc.Party, "path", rc.AggregatePath,
		"contributions", len(res.Contributions), "rows", len(rep.Rows))
	return report.WriteAggregate(rep, rc.AggregatePath)
}

// runGenerateTestData samples the held-out dataset. Coordinator only.
func (r *Runner) runGenerateTestData(rc *RunContext) error {
	slog.Info("sampling test data",
		"party", rc.Party, "input", rc.AggregatePath, "output", rc.TestDataPath,
		"frac", r.cfg.SampleFrac, "seed", r.cfg.SampleSeed)
	return report.Sample(rc.AggregatePath, rc.TestDataPath, r.cfg.SampleFrac, r.cfg.SampleSeed)
}

// Run log hooks. All best-effort: a logging failure is reported and the
// run proceeds.

func (r *Runner) recordStart(ctx context.Context, rc *RunContext) {
	if r.log == nil {
		return
	}
	if err := r.log.RecordStart(ctx, rc.Token, rc.Party, rc.Role.String()); err != nil {
		slog.Warn("run log write failed", "party", rc.Party, "error", err)
	}
}

func (r *Runner) recordTransition(ctx context.Context, rc *RunContext, seq int, from, to State) {
	if r.log == nil {
		return
	}
	if err := r.log.RecordTransition(ctx, rc.Token, seq, from.String(), to.String()); err != nil {
		slog.Warn("run log write failed", "party", rc.Party, "error", err)
	}
}

func (r *Runner) recordReceipt(ctx context.Context, rc *RunContext, contrib relay.Contribution) {
	if r.log == nil {
		return
	}
	if err := r.log.RecordReceipt(ctx, rc.Token, contrib.PartyID, contrib.Result.TotalRows()); err != nil {
		slog.Warn("run log write failed", "party", rc.Party, "error", err)
	}
}

func (r *Runner) recordFinish(ctx context.Context, rc *RunContext, failed bool) {
	if r.log == nil {
		return
	}
	if err := r.log.RecordFinish(ctx, rc.Token, failed); err != nil {
		slog.Warn("run log write failed", "party", rc.Party, "error", err)
	}
}
