package confluence

import "testing"

func ev(dir Direction, weight float64) Evidence {
	return Evidence{Source: SourceIndicator, Name: "test", Direction: dir, Weight: weight}
}

func TestScoreZeroEvidence(t *testing.T) {
	res := score(nil)
	if res.Direction != DirectionNeutral || res.Score != 0 || res.ConfluenceCount != 0 {
		t.Errorf("expected neutral zero result, got %+v", res)
	}
}

func TestScoreUnanimousEvidence(t *testing.T) {
	res := score([]Evidence{
		ev(DirectionBullish, 0.6),
		ev(DirectionBullish, 0.7),
		ev(DirectionBullish, 0.8),
	})

	if res.Direction != DirectionBullish {
		t.Errorf("expected bullish, got %s", res.Direction)
	}
	if res.Score != 100 {
		t.Errorf("unanimous evidence should score 100, got %v", res.Score)
	}
	if res.ConfluenceCount != 3 {
		t.Errorf("expected count 3, got %d", res.ConfluenceCount)
	}
}

func TestScoreConflictDragsScoreDown(t *testing.T) {
	clean := score([]Evidence{ev(DirectionBullish, 0.6)})
	conflicted := score([]Evidence{
		ev(DirectionBullish, 0.6),
		ev(DirectionBearish, 0.5),
	})

	if conflicted.Score >= clean.Score {
		t.Errorf("conflicting evidence should lower the score: %v vs %v", conflicted.Score, clean.Score)
	}
}

func TestScoreAgreementRaisesScore(t *testing.T) {
	base := score([]Evidence{
		ev(DirectionBullish, 0.6),
		ev(DirectionBearish, 0.5),
	})
	more := score([]Evidence{
		ev(DirectionBullish, 0.6),
		ev(DirectionBullish, 0.7),
		ev(DirectionBearish, 0.5),
	})

	if more.Score <= base.Score {
		t.Errorf("extra agreeing evidence should raise the score: %v vs %v", more.Score, base.Score)
	}
}

func TestScoreNearTieIsNeutral(t *testing.T) {
	res := score([]Evidence{
		ev(DirectionBullish, 1.0),
		ev(DirectionBearish, 0.97),
	})

	if res.Direction != DirectionNeutral {
		t.Errorf("sums within 5%% must hold, got %s", res.Direction)
	}

	clear := score([]Evidence{
		ev(DirectionBullish, 1.0),
		ev(DirectionBearish, 0.9),
	})
	if clear.Direction != DirectionBullish {
		t.Errorf("10%% margin should resolve bullish, got %s", clear.Direction)
	}
}

func TestScoreExactTieIsNeutral(t *testing.T) {
	res := score([]Evidence{
		ev(DirectionBullish, 0.7),
		ev(DirectionBearish, 0.7),
	})
	if res.Direction != DirectionNeutral {
		t.Errorf("exact tie must hold, got %s", res.Direction)
	}
}

func TestScoreNeutralItemsDilute(t *testing.T) {
	withNeutral := score([]Evidence{
		ev(DirectionBullish, 0.8),
		ev(DirectionNeutral, 0.4),
	})
	without := score([]Evidence{ev(DirectionBullish, 0.8)})

	if withNeutral.Score >= without.Score {
		t.Errorf("neutral weight should dilute the score: %v vs %v", withNeutral.Score, without.Score)
	}
	if withNeutral.Direction != DirectionBullish {
		t.Errorf("neutral items must not flip the verdict, got %s", withNeutral.Direction)
	}
}

func TestScoreBounds(t *testing.T) {
	cases := [][]Evidence{
		{ev(DirectionBullish, 0.01)},
		{ev(DirectionBearish, 5)},
		{ev(DirectionBullish, 0.6), ev(DirectionBearish, 0.7), ev(DirectionNeutral, 0.5)},
	}

	for i, items := range cases {
		res := score(items)
		if res.Score < 0 || res.Score > 100 {
			t.Errorf("case %d: score out of bounds: %v", i, res.Score)
		}
	}
}
