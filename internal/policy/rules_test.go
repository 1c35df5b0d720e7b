package policy

import "testing"

// The rule table must cover every combination of direction, adjacency,
// precondition satisfaction, and terminal target.
func TestRuleTableIsExhaustive(t *testing.T) {
	for _, dir := range []direction{forward, backward} {
		for _, adjacent := range []bool{true, false} {
			for _, met := range []bool{true, false} {
				for _, terminal := range []bool{true, false} {
					key := ruleKey{dir: dir, adjacent: adjacent, met: met, terminal: terminal}
					if _, ok := ruleTable[key]; !ok {
						t.Errorf("rule table missing entry for %+v", key)
					}
				}
			}
		}
	}
	if len(ruleTable) != 16 {
		t.Errorf("rule table has %d entries, want 16", len(ruleTable))
	}
}

func TestRuleTableInvariants(t *testing.T) {
	for key, tier := range ruleTable {
		if key.dir == backward && tier != TierConfirm {
			t.Errorf("backward move %+v classified %v, want confirm", key, tier)
		}
		if key.dir == forward && !key.met && tier != TierWarn {
			t.Errorf("forward move with unmet preconditions %+v classified %v, want warn", key, tier)
		}
		if tier == TierFree && !(key.dir == forward && key.adjacent && key.met && !key.terminal) {
			t.Errorf("%+v classified free; only a clean adjacent forward move may be free", key)
		}
	}
}
