package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnGap_Ramp(t *testing.T) {
	assert.InDelta(t, 3.2, SpawnGap(0, 1), 1e-9)
	assert.InDelta(t, 2.4, SpawnGap(90, 1), 1e-9)
	assert.InDelta(t, 1.6, SpawnGap(180, 1), 1e-9)
	assert.InDelta(t, 1.6, SpawnGap(500, 1), 1e-9, "ramp saturates")
	assert.InDelta(t, 1.44, SpawnGap(180, 3), 1e-9, "multi-lane discount")
	assert.GreaterOrEqual(t, SpawnGap(1e6, 8), directorMinGapSec)
}

func TestPickTier_Bands(t *testing.T) {
	assert.Equal(t, 1, DirectorAI1.PickTier(0, 0.1))
	assert.Equal(t, 2, DirectorAI1.PickTier(0, 0.9))
	assert.Equal(t, 4, DirectorAI1.PickTier(180, 0.1))
	assert.Equal(t, 5, DirectorAI1.PickTier(180, 0.9))

	assert.Equal(t, 2, DirectorAI2.PickTier(0, 0.1))
	assert.Equal(t, 5, DirectorAI2.PickTier(180, 0.1))
	assert.Equal(t, 6, DirectorAI2.PickTier(180, 0.9))

	for ts := 0.0; ts <= 300; ts += 7.5 {
		for _, roll := range []float64{0, 0.49, 0.5, 0.99} {
			got := DirectorAI1.PickTier(ts, roll)
			assert.True(t, got >= 1 && got <= 5, "ai1 tier %d at t=%.1f", got, ts)
			got = DirectorAI2.PickTier(ts, roll)
			assert.True(t, got >= 2 && got <= 6, "ai2 tier %d at t=%.1f", got, ts)
		}
	}
}

func TestParseDirectorMode(t *testing.T) {
	assert.Equal(t, DirectorAI2, ParseDirectorMode("ai2"))
	assert.Equal(t, DirectorAI1, ParseDirectorMode("ai1"))
	assert.Equal(t, DirectorAI1, ParseDirectorMode("bogus"))
	assert.Equal(t, "ai2", DirectorAI2.String())
}

func TestDirector_IdleWhilePaused(t *testing.T) {
	m := NewMatch(2)
	d := NewDirector(SideEnemy, DirectorAI1, 1)
	assert.Empty(t, d.Update(m, 1), "not-started match")
	assert.Empty(t, m.State().Units)
}

func TestDirector_SpawnsPerLaneThenWaits(t *testing.T) {
	m := NewMatch(3)
	m.Start(0)
	d := NewDirector(SideEnemy, DirectorAI2, 5)

	first := d.Update(m, harnessDT)
	require.Len(t, first, 3)
	for i, u := range first {
		assert.Equal(t, i, u.Lane)
		assert.Equal(t, SideEnemy, u.Side)
		assert.GreaterOrEqual(t, u.Tier, 2)
	}

	assert.Empty(t, d.Update(m, 1.0), "cooldown still running")
	assert.Len(t, d.Update(m, 2.0), 3, "cooldown elapsed in every lane")
	assert.Positive(t, m.State().ScoreEnemy)
	assert.Zero(t, m.State().ScoreAlly)
}

func TestDirector_ResetSpawnsImmediately(t *testing.T) {
	m := NewMatch(1)
	m.Start(0)
	d := NewDirector(SideAlly, DirectorAI1, 5)
	require.Len(t, d.Update(m, harnessDT), 1)
	require.Empty(t, d.Update(m, harnessDT))
	d.Reset()
	assert.Len(t, d.Update(m, harnessDT), 1)
}

func TestDirector_FollowsLaneCount(t *testing.T) {
	m := NewMatch(1)
	m.Start(0)
	d := NewDirector(SideAlly, DirectorAI1, 5)
	require.Len(t, d.Update(m, harnessDT), 1)
	m.SetLaneCount(4)
	assert.Len(t, d.Update(m, harnessDT), 4)
}
