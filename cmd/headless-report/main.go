package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Striker-Sense/internal/config"
	"github.com/Garsondee/Striker-Sense/internal/journal"
	"github.com/Garsondee/Striker-Sense/internal/logging"
	"github.com/Garsondee/Striker-Sense/internal/sim"
)

// chainKinds is the report order of decision kinds.
var chainKinds = []string{"shoot", "pass", "cross", "dribble", "hold", "clear", "tackle"}

type runStats struct {
	runIndex int
	seed     int64
	session  string

	goalsFor     int
	goalsAgainst int
	outs         int

	firstDecisionTick int
	firstShotTick     int
	firstGoalTick     int
	firstTackleTick   int

	kinds             map[string]int
	possessionChanges int
	tackleAttempts    int
	tacklesWon        int

	searches       int
	evaluations    int
	exhausted      int
	searchDuration time.Duration
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var configPath string
	var journalPath string
	var logLevel string
	var logsDir string
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless match runs")
	flag.IntVar(&ticks, "ticks", 600, "cycles per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "counter-attack", "scenario name ("+strings.Join(sim.Scenarios(), ", ")+")")
	flag.StringVar(&configPath, "config", "", "config file (json, yaml or toml); defaults when empty")
	flag.StringVar(&journalPath, "journal", "", "sqlite file to journal every decision into")
	flag.StringVar(&logLevel, "log-level", "", "override the configured log level")
	flag.StringVar(&logsDir, "logs-dir", "", "also write the log to a timestamped file in this directory")
	flag.BoolVar(&verbose, "verbose", false, "print the full match log of every run")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if _, err := sim.Scenario(scenario); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logOpts := logging.Options{Level: cfg.LogLevel, Console: true, Writer: os.Stderr}
	if logsDir != "" {
		if err := os.MkdirAll(logsDir, 0o755); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		f, err := os.Create(logging.LogFilePath(logsDir, "headless-report", time.Now()))
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		defer f.Close()
		logOpts.File = f
	}
	log := logging.New(logOpts)

	var jr *journal.Journal
	if journalPath != "" {
		var err error
		jr, err = journal.Open(journalPath, log)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		defer func() {
			if err := jr.Close(); err != nil {
				log.Error().Err(err).Msg("closing journal")
			}
		}()
	}

	evaluator := cfg.Evaluator.Kind
	if evaluator == "" {
		evaluator = "default"
	}
	fmt.Printf("=== Headless Match Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d evaluator=%s max_depth=%d max_evaluations=%d\n\n",
		scenario, runs, ticks, seedBase, seedStep, evaluator, cfg.Search.MaxDepth, cfg.Search.MaxEvaluations)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runScenario(i+1, seed, ticks, scenario, cfg, log, jr, verbose)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func runScenario(runIndex int, seed int64, ticks int, scenario string, cfg config.Config, log zerolog.Logger, jr *journal.Journal, verbose bool) (runStats, error) {
	rs := runStats{runIndex: runIndex, seed: seed, kinds: map[string]int{}}

	var session *journal.Session
	var rows []journal.Decision
	if jr != nil {
		var err error
		session, err = jr.StartSession(scenario, seed, cfg.Evaluator.Kind)
		if err != nil {
			return rs, err
		}
		rs.session = session.ID
	}

	opts, err := sim.Scenario(scenario)
	if err != nil {
		return rs, err
	}
	opts = append(opts,
		sim.WithSeed(seed),
		sim.WithConfig(cfg),
		sim.WithLogger(log),
		sim.WithVerbose(verbose),
		sim.WithDecisionHook(func(d sim.Decision) {
			rs.kinds[d.Kind]++
			if d.Kind != "tackle" {
				rs.searches++
				rs.evaluations += d.Evaluations
				rs.searchDuration += d.Elapsed
				if d.Exhausted {
					rs.exhausted++
				}
			}
			if session != nil {
				rows = append(rows, journalRow(session.ID, d))
			}
		}),
	)
	ms, err := sim.NewMatch(opts...)
	if err != nil {
		return rs, err
	}
	ms.RunTicks(ticks)

	if verbose {
		fmt.Print(ms.SimLog.Format())
	}

	sl := ms.SimLog
	rs.goalsFor = ms.Score.Ours
	rs.goalsAgainst = ms.Score.Theirs
	rs.outs = sl.CountCategory("ball", "out")
	rs.firstDecisionTick = sl.FirstTick("decision", "chain", "")
	rs.firstShotTick = sl.FirstTick("decision", "chain", "shoot")
	rs.firstGoalTick = sl.FirstTick("ball", "goal", "ours")
	rs.firstTackleTick = sl.FirstTick("tackle", "attempt", "")
	rs.possessionChanges = sl.CountCategory("ball", "possession")
	rs.tackleAttempts = sl.CountCategory("tackle", "attempt")
	rs.tacklesWon = sl.CountCategory("tackle", "won")

	if session != nil {
		if err := jr.Record(rows...); err != nil {
			return rs, err
		}
		if err := jr.FinishSession(session.ID, ticks, rs.goalsFor, rs.goalsAgainst); err != nil {
			return rs, err
		}
	}
	return rs, nil
}

func journalRow(session string, d sim.Decision) journal.Decision {
	return journal.Decision{
		SessionID:   session,
		Cycle:       d.Cycle,
		Player:      d.Player.String(),
		Kind:        d.Kind,
		Action:      d.Action,
		Score:       d.Score,
		Depth:       d.Depth,
		Evaluations: d.Evaluations,
		Expanded:    d.Expanded,
		ElapsedUs:   d.Elapsed.Microseconds(),
		Exhausted:   d.Exhausted,
		BallX:       d.Ball.X,
		BallY:       d.Ball.Y,
		Probability: d.Probability,
		Chain:       journal.ChainJSON(d.Chain),
	}
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	if rs.session != "" {
		fmt.Printf("journal_session=%s\n", rs.session)
	}
	fmt.Printf("score: ours=%d theirs=%d outs=%d\n", rs.goalsFor, rs.goalsAgainst, rs.outs)
	fmt.Printf("phase_markers: first_decision=%d first_shot=%d first_goal=%d first_tackle=%d\n",
		rs.firstDecisionTick, rs.firstShotTick, rs.firstGoalTick, rs.firstTackleTick)
	fmt.Printf("decisions: %s\n", joinCounts(rs.kinds))
	fmt.Printf("ball_events: possession_changes=%d tackle_attempts=%d tackles_won=%d\n",
		rs.possessionChanges, rs.tackleAttempts, rs.tacklesWon)
	fmt.Printf("search: runs=%d avg_evaluations=%.1f exhausted=%d avg_ms=%.3f\n",
		rs.searches, avg(rs.evaluations, rs.searches), rs.exhausted, avgMillis(rs.searchDuration, rs.searches))
	if stale, reason := detectStalemate(rs); stale {
		fmt.Printf("verdict: stalemate (%s)\n", reason)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalFor := 0
	totalAgainst := 0
	totalPossession := 0
	totalTackles := 0
	totalWon := 0
	totalSearches := 0
	totalEvaluations := 0
	totalExhausted := 0
	stalemates := 0
	var totalDuration time.Duration

	kinds := map[string]int{}
	shotTicks := make([]int, 0, len(all))
	goalTicks := make([]int, 0, len(all))
	tackleTicks := make([]int, 0, len(all))

	for _, rs := range all {
		totalFor += rs.goalsFor
		totalAgainst += rs.goalsAgainst
		totalPossession += rs.possessionChanges
		totalTackles += rs.tackleAttempts
		totalWon += rs.tacklesWon
		totalSearches += rs.searches
		totalEvaluations += rs.evaluations
		totalExhausted += rs.exhausted
		totalDuration += rs.searchDuration
		for k, n := range rs.kinds {
			kinds[k] += n
		}
		if rs.firstShotTick >= 0 {
			shotTicks = append(shotTicks, rs.firstShotTick)
		}
		if rs.firstGoalTick >= 0 {
			goalTicks = append(goalTicks, rs.firstGoalTick)
		}
		if rs.firstTackleTick >= 0 {
			tackleTicks = append(tackleTicks, rs.firstTackleTick)
		}
		if stale, _ := detectStalemate(rs); stale {
			stalemates++
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d stalemates=%d\n", len(all), stalemates)
	fmt.Printf("avg_goals_per_run: ours=%.2f theirs=%.2f\n", avg(totalFor, len(all)), avg(totalAgainst, len(all)))
	fmt.Printf("avg_events_per_run: possession_changes=%.1f tackle_attempts=%.1f tackles_won=%.1f\n",
		avg(totalPossession, len(all)), avg(totalTackles, len(all)), avg(totalWon, len(all)))
	fmt.Printf("decision_mix: %s\n", joinShares(kinds))
	fmt.Printf("search: avg_evaluations=%.1f exhausted_rate=%.1f%% avg_ms=%.3f\n",
		avg(totalEvaluations, totalSearches), 100*avg(totalExhausted, totalSearches), avgMillis(totalDuration, totalSearches))
	fmt.Printf("phase_marker_avg_ticks: first_shot=%s first_goal=%s first_tackle=%s\n",
		avgTickString(shotTicks), avgTickString(goalTicks), avgTickString(tackleTicks))
}

// detectStalemate flags runs where the ball changed hands often but
// nobody got a shot away.
func detectStalemate(rs runStats) (bool, string) {
	if rs.goalsFor > 0 || rs.goalsAgainst > 0 {
		return false, "goals_scored"
	}
	if rs.kinds["shoot"] > 0 {
		return false, "shots_taken"
	}
	if rs.possessionChanges < 10 {
		return false, "low_turnover"
	}
	return true, fmt.Sprintf("no_shots high_turnover=%d", rs.possessionChanges)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgMillis(total time.Duration, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(total.Microseconds()) / 1000 / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// joinCounts renders known kinds in report order, then any others sorted.
func joinCounts(counts map[string]int) string {
	keys := orderedKinds(counts)
	if len(keys) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}

func joinShares(counts map[string]int) string {
	total := 0
	for _, n := range counts {
		total += n
	}
	keys := orderedKinds(counts)
	if total == 0 {
		return "none"
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.0f%%", k, 100*float64(counts[k])/float64(total)))
	}
	return strings.Join(parts, " ")
}

func orderedKinds(counts map[string]int) []string {
	var keys []string
	seen := map[string]bool{}
	for _, k := range chainKinds {
		if counts[k] > 0 {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k, n := range counts {
		if n > 0 && !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
