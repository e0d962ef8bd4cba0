package game

// OutcomeReason explains how a match was (or would be) decided.
type OutcomeReason struct {
	Winner      Winner
	Decided     bool
	BaseAlly    float64
	BaseEnemy   float64
	ScoreAlly   float64
	ScoreEnemy  float64
	TimeSec     float64
	Description string
}

// DetermineOutcome classifies a state. A running match is reported with the
// result it would have if time expired now.
func DetermineOutcome(s MatchState) OutcomeReason {
	r := OutcomeReason{
		Winner:     s.Winner,
		Decided:    s.Ended,
		BaseAlly:   s.BaseAlly,
		BaseEnemy:  s.BaseEnemy,
		ScoreAlly:  s.ScoreAlly,
		ScoreEnemy: s.ScoreEnemy,
		TimeSec:    s.TimeSec,
	}

	switch baseWinner(s.BaseAlly, s.BaseEnemy) {
	case WinnerDraw:
		r.Description = "mutual_base_destruction"
		return r
	case WinnerAlly:
		r.Description = "enemy_base_destroyed"
		return r
	case WinnerEnemy:
		r.Description = "ally_base_destroyed"
		return r
	}

	if s.Ended && s.Winner == WinnerNone {
		r.Description = "forced_end_undecided"
		return r
	}

	prefix := "leading"
	if s.Ended {
		prefix = "time_up"
	}
	projected := scoreWinner(s.ScoreAlly, s.ScoreEnemy)
	if !s.Ended {
		r.Winner = projected
	}
	switch projected {
	case WinnerAlly:
		r.Description = prefix + "_ally_ahead_on_score"
	case WinnerEnemy:
		r.Description = prefix + "_enemy_ahead_on_score"
	default:
		r.Description = prefix + "_level_on_score"
	}
	return r
}
