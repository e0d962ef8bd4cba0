package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Garsondee/Lane-Clash/internal/config"
	"github.com/Garsondee/Lane-Clash/internal/game"
	"github.com/Garsondee/Lane-Clash/internal/replay"
)

type runStats struct {
	runIndex int
	seed     int64
	endTick  int

	outcome game.OutcomeReason
	baseHP  float64

	firstDeathTick  int
	firstSiegeTick  int
	firstAllySiege  int
	firstEnemySiege int

	spawned   [2]int // ally, enemy
	killed    [2]int
	despawned int
	sieges    [2]int
	tierMix   [2]map[int]int

	windowSummary *game.WindowReport
	grades        []game.UnitGrade
	frames        int
}

type runParams struct {
	cfg       *config.Config
	allyMode  game.DirectorMode
	enemyMode game.DirectorMode
	maxTicks  int
	replayDir string
}

func main() {
	var runs int
	var seconds float64
	var seedBase int64
	var seedStep int64
	var lanes int
	var cfgPath string
	var ally, enemy string
	var replayDir string

	flag.IntVar(&runs, "runs", 5, "number of headless matches")
	flag.Float64Var(&seconds, "seconds", 0, "match length in seconds (0 uses the config)")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&lanes, "lanes", 0, "lane count (0 uses the config)")
	flag.StringVar(&cfgPath, "config", "", "YAML config file")
	flag.StringVar(&ally, "ally", "ai1", "ally director mode (ai1|ai2)")
	flag.StringVar(&enemy, "enemy", "ai2", "enemy director mode (ai1|ai2)")
	flag.StringVar(&replayDir, "replay-dir", "", "write one replay file per run into this directory")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	cfg := config.Default()
	if cfgPath != "" {
		c, err := config.Load(cfgPath)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		cfg = c
	}
	if seconds > 0 {
		cfg.Match.MaxSec = seconds
	}
	if lanes > 0 {
		cfg.Match.LaneCount = lanes
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if replayDir != "" {
		if err := os.MkdirAll(replayDir, 0o755); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
	}

	p := runParams{
		cfg:       cfg,
		allyMode:  game.ParseDirectorMode(ally),
		enemyMode: game.ParseDirectorMode(enemy),
		maxTicks:  int(cfg.Match.MaxSec*60) + 60,
		replayDir: replayDir,
	}

	fmt.Printf("=== Headless Lane Report ===\n")
	fmt.Printf("ally=%s enemy=%s runs=%d lanes=%d max_sec=%.0f seed_base=%d seed_step=%d\n\n",
		p.allyMode, p.enemyMode, runs, cfg.Match.LaneCount, cfg.Match.MaxSec, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runDirectorMatch(i+1, seed, p)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runDirectorMatch plays one match with a director on each side.
func runDirectorMatch(runIndex int, seed int64, p runParams) (runStats, error) {
	ts := game.NewTestSim(
		game.WithArena(p.cfg.Match.ArenaWidth, p.cfg.Match.ArenaHeight),
		game.WithLanes(p.cfg.Match.LaneCount),
		game.WithSeed(seed),
		game.WithTimeLimit(p.cfg.Match.MaxSec),
		game.WithSimBalance(p.cfg.GameBalance()),
		game.WithDirector(game.SideAlly, p.allyMode),
		game.WithDirector(game.SideEnemy, p.enemyMode),
	)
	rep := ts.Report(600)
	ts.TrackPerformance()

	var rec *replay.Recorder
	if p.replayDir != "" {
		f, err := os.Create(filepath.Join(p.replayDir, fmt.Sprintf("run-%02d.lcr", runIndex)))
		if err != nil {
			return runStats{}, err
		}
		defer f.Close()
		rec, err = replay.NewRecorder(f, replay.Header{
			MatchID: ts.Match.ID(),
			Lanes:   p.cfg.Match.LaneCount,
			ArenaW:  ts.Width,
			ArenaH:  ts.Height,
			Seed:    seed,
			MaxSec:  p.cfg.Match.MaxSec,
		})
		if err != nil {
			return runStats{}, err
		}
	}

	for i := 0; i < p.maxTicks && !ts.State().Ended; i++ {
		ts.RunTicks(1)
		if rec != nil && ts.CurrentTick()%6 == 0 {
			if err := rec.Record(replay.FromState(ts.CurrentTick(), ts.State())); err != nil {
				return runStats{}, err
			}
		}
	}
	frames := 0
	if rec != nil {
		if err := rec.Record(replay.FromState(ts.CurrentTick(), ts.State())); err != nil {
			return runStats{}, err
		}
		if err := rec.Flush(); err != nil {
			return runStats{}, err
		}
		frames = rec.Frames()
	}

	entries := ts.SimLog.Entries()
	rs := runStats{
		runIndex:        runIndex,
		seed:            seed,
		endTick:         ts.CurrentTick(),
		outcome:         game.DetermineOutcome(ts.State()),
		baseHP:          p.cfg.Balance.BaseHP,
		firstDeathTick:  firstTick(entries, "death", "killed", ""),
		firstSiegeTick:  firstTick(entries, "base", "siege", ""),
		firstAllySiege:  firstSideTick(entries, "base", "siege", game.SideAlly),
		firstEnemySiege: firstSideTick(entries, "base", "siege", game.SideEnemy),
		despawned:       ts.SimLog.CountCategory("despawn", "out_of_bounds"),
		tierMix:         [2]map[int]int{{}, {}},
		windowSummary:   rep.WindowSummary(),
		grades:          ts.UnitGrades(),
		frames:          frames,
	}
	for _, e := range entries {
		side := sideIndex(e.Side)
		if side < 0 {
			continue
		}
		switch e.Category {
		case "spawn":
			rs.spawned[side]++
			rs.tierMix[side][tierOf(e.Value)]++
		case "death":
			rs.killed[side]++
		case "base":
			if e.Key == "siege" {
				rs.sieges[side]++
			}
		}
	}
	return rs, nil
}

func sideIndex(side string) int {
	switch side {
	case game.SideAlly.String():
		return 0
	case game.SideEnemy.String():
		return 1
	}
	return -1
}

// tierOf reads the tier out of a spawn entry value such as "tier=3 lane=0 ...".
func tierOf(value string) int {
	var tier int
	if _, err := fmt.Sscanf(value, "tier=%d", &tier); err != nil {
		return 0
	}
	return tier
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func firstSideTick(entries []game.SimLogEntry, category, key string, side game.Side) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key && e.Side == side.String() {
			return e.Tick
		}
	}
	return -1
}

// detectStalemate flags matches that reached time-up with both bases mostly
// intact and little siege pressure.
func detectStalemate(rs runStats) (bool, string) {
	if !strings.HasPrefix(rs.outcome.Description, "time_up_") {
		return false, "decided_by_base:" + rs.outcome.Description
	}
	if rs.baseHP <= 0 {
		return false, "no_base_hp"
	}
	allyLeft := rs.outcome.BaseAlly / rs.baseHP
	enemyLeft := rs.outcome.BaseEnemy / rs.baseHP
	if allyLeft < 0.75 || enemyLeft < 0.75 {
		return false, fmt.Sprintf("base_pressure ally=%.2f enemy=%.2f", allyLeft, enemyLeft)
	}
	if rs.sieges[0]+rs.sieges[1] > 3 {
		return false, fmt.Sprintf("sieges=%d", rs.sieges[0]+rs.sieges[1])
	}
	return true, fmt.Sprintf("high_mutual_base_hp ally=%.2f enemy=%.2f sieges=%d",
		allyLeft, enemyLeft, rs.sieges[0]+rs.sieges[1])
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome: %s winner=%s end_tick=%d t=%.1fs\n",
		rs.outcome.Description, rs.outcome.Winner, rs.endTick, rs.outcome.TimeSec)
	fmt.Printf("bases: ally=%.0f enemy=%.0f  score: ally=%.0f enemy=%.0f\n",
		rs.outcome.BaseAlly, rs.outcome.BaseEnemy, rs.outcome.ScoreAlly, rs.outcome.ScoreEnemy)
	fmt.Printf("phase_markers: first_death=%d first_siege=%d ally_siege=%d enemy_siege=%d\n",
		rs.firstDeathTick, rs.firstSiegeTick, rs.firstAllySiege, rs.firstEnemySiege)
	fmt.Printf("event_totals: spawned=%d:%d killed=%d:%d sieges=%d:%d despawned=%d\n",
		rs.spawned[0], rs.spawned[1], rs.killed[0], rs.killed[1], rs.sieges[0], rs.sieges[1], rs.despawned)
	fmt.Printf("tier_mix: ally=%s enemy=%s\n", formatTierMix(rs.tierMix[0]), formatTierMix(rs.tierMix[1]))
	if stalemate, reason := detectStalemate(rs); stalemate {
		fmt.Printf("stalemate: %s\n", reason)
	}
	if rs.windowSummary != nil {
		fmt.Print(rs.windowSummary.Format())
	}
	if rs.frames > 0 {
		fmt.Printf("replay_frames=%d\n", rs.frames)
	}
	fmt.Print(game.FormatGradesSummary(rs.grades))
	fmt.Println()
}

func printAggregate(all []runStats) {
	wins := map[game.Winner]int{}
	reasons := map[string]int{}
	var totalSpawned, totalKilled [2]int
	var endTicks, deathTicks, siegeTicks []int
	stalemates := 0

	for _, rs := range all {
		wins[rs.outcome.Winner]++
		reasons[rs.outcome.Description]++
		for s := 0; s < 2; s++ {
			totalSpawned[s] += rs.spawned[s]
			totalKilled[s] += rs.killed[s]
		}
		endTicks = append(endTicks, rs.endTick)
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
		if rs.firstSiegeTick >= 0 {
			siegeTicks = append(siegeTicks, rs.firstSiegeTick)
		}
		if ok, _ := detectStalemate(rs); ok {
			stalemates++
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d wins: ally=%d enemy=%d draw=%d undecided=%d stalemates=%d\n",
		len(all), wins[game.WinnerAlly], wins[game.WinnerEnemy], wins[game.WinnerDraw], wins[game.WinnerNone], stalemates)
	fmt.Printf("avg_per_run: spawned=%.1f:%.1f killed=%.1f:%.1f\n",
		avg(totalSpawned[0], len(all)), avg(totalSpawned[1], len(all)),
		avg(totalKilled[0], len(all)), avg(totalKilled[1], len(all)))
	fmt.Printf("phase_marker_avg_ticks: end=%s first_death=%s first_siege=%s\n",
		avgTickString(endTicks), avgTickString(deathTicks), avgTickString(siegeTicks))
	fmt.Printf("outcomes: %s\n", joinCounts(reasons))

	if len(all) > 0 {
		fmt.Println("\n--- Side Summary (across all runs) ---")
		fmt.Print(game.FormatGradesSummary(collectAllGrades(all)))
	}
}

func collectAllGrades(all []runStats) []game.UnitGrade {
	var out []game.UnitGrade
	for _, rs := range all {
		out = append(out, rs.grades...)
	}
	return out
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
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

func formatTierMix(m map[int]int) string {
	if len(m) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(m))
	for tier := 1; tier <= game.MaxTier; tier++ {
		if n := m[tier]; n > 0 {
			parts = append(parts, fmt.Sprintf("t%d=%d", tier, n))
		}
	}
	return strings.Join(parts, ",")
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ",")
}
