package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Garsondee/Lane-Clash/internal/config"
	"github.com/Garsondee/Lane-Clash/internal/game"
	"github.com/Garsondee/Lane-Clash/internal/replay"
)

func TestTierOf(t *testing.T) {
	if got := tierOf("tier=4 lane=1 at (60,200)"); got != 4 {
		t.Fatalf("tierOf = %d, want 4", got)
	}
	if got := tierOf("garbage"); got != 0 {
		t.Fatalf("tierOf(garbage) = %d, want 0", got)
	}
}

func TestDetectStalemate_TrueWhenBothBasesIntactAtTimeUp(t *testing.T) {
	rs := runStats{
		baseHP: 500,
		outcome: game.OutcomeReason{
			Description: "time_up_ally_ahead_on_score",
			BaseAlly:    480,
			BaseEnemy:   450,
		},
		sieges: [2]int{1, 1},
	}
	isStalemate, reason := detectStalemate(rs)
	if !isStalemate {
		t.Fatalf("expected stalemate=true, got false (reason=%s)", reason)
	}
	if !strings.Contains(reason, "high_mutual_base_hp") {
		t.Fatalf("expected reason to mention high_mutual_base_hp, got: %s", reason)
	}
}

func TestDetectStalemate_FalseWhenBaseDestroyed(t *testing.T) {
	rs := runStats{
		baseHP:  500,
		outcome: game.OutcomeReason{Description: "enemy_base_destroyed", BaseAlly: 500},
	}
	if isStalemate, reason := detectStalemate(rs); isStalemate {
		t.Fatalf("expected stalemate=false for a base kill (reason=%s)", reason)
	}
}

func TestDetectStalemate_FalseUnderBasePressure(t *testing.T) {
	rs := runStats{
		baseHP: 500,
		outcome: game.OutcomeReason{
			Description: "time_up_enemy_ahead_on_score",
			BaseAlly:    200,
			BaseEnemy:   500,
		},
	}
	if isStalemate, reason := detectStalemate(rs); isStalemate {
		t.Fatalf("expected stalemate=false under base pressure (reason=%s)", reason)
	}
}

func TestDetectStalemate_FalseWithManySieges(t *testing.T) {
	rs := runStats{
		baseHP:  500,
		outcome: game.OutcomeReason{Description: "time_up_level_on_score", BaseAlly: 500, BaseEnemy: 500},
		sieges:  [2]int{3, 2},
	}
	if isStalemate, reason := detectStalemate(rs); isStalemate {
		t.Fatalf("expected stalemate=false with repeated sieges (reason=%s)", reason)
	}
}

func TestRunDirectorMatch_CountsAndReplay(t *testing.T) {
	cfg := config.Default()
	cfg.Match.MaxSec = 20
	cfg.Match.LaneCount = 2
	dir := t.TempDir()

	rs, err := runDirectorMatch(1, 7, runParams{
		cfg:       cfg,
		allyMode:  game.DirectorAI1,
		enemyMode: game.DirectorAI2,
		maxTicks:  int(cfg.Match.MaxSec*60) + 60,
		replayDir: dir,
	})
	if err != nil {
		t.Fatalf("runDirectorMatch: %v", err)
	}
	if rs.spawned[0] == 0 || rs.spawned[1] == 0 {
		t.Fatalf("both directors should spawn, got %v", rs.spawned)
	}
	for tier := range rs.tierMix[1] {
		if tier < 2 {
			t.Errorf("ai2 spawned tier %d", tier)
		}
	}
	if rs.windowSummary == nil {
		t.Fatal("no window summary collected")
	}
	if len(rs.grades) == 0 || len(rs.grades) > rs.spawned[0]+rs.spawned[1] {
		t.Fatalf("grades = %d for %v spawned", len(rs.grades), rs.spawned)
	}
	if !rs.outcome.Decided {
		t.Fatalf("20s match did not end within the tick budget: %+v", rs.outcome)
	}

	f, err := os.Open(filepath.Join(dir, "run-01.lcr"))
	if err != nil {
		t.Fatalf("open replay: %v", err)
	}
	defer f.Close()
	rd, err := replay.NewReader(f)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if rd.Header().Seed != 7 || rd.Header().Lanes != 2 {
		t.Fatalf("header = %+v", rd.Header())
	}
	frames, err := rd.All()
	if err != nil {
		t.Fatalf("read frames: %v", err)
	}
	if len(frames) != rs.frames {
		t.Fatalf("frames = %d, recorded %d", len(frames), rs.frames)
	}
	if last := frames[len(frames)-1]; !last.Ended {
		t.Error("final frame is not the ended state")
	}
}
