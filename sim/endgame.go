package sim

const (
	endgameArea        = "endgame"
	endgameStartKills  = 5
	endgameKillCeiling = 40

	// Below this kill count the grind stays on the right side of the Core.
	coreLeftSideKills = 27
	// From this kill count the warrior path adds its seven scripted kills.
	coreWarriorPathKills = 32
	coreWarriorPathBonus = 7
	// The last encounter before the bridge is fled.
	coreFleeKills = 39
	// A triple drawn at this kill count overshoots into the warrior path.
	coreTripleOvershootKills = 31
	// Forced "but nobody came" encounters on the bridge.
	coreBridgeEncounters = 3

	segCoreRight     = "core-right-transition"
	segCoreLeft      = "core-left-transition"
	segCoreGrindEnd  = "core-grind-end"
	segNobodyCame    = "nobody-came"
	segCoreBridge    = "core-bridge"
	segSingleKnight  = "sgl-knight"
	segSingleMadjick = "sgl-madjick"
)

// fleeable names a battle duration and its shorter variant when fled.
type fleeable struct {
	base string
	flee string
}

var (
	coreDoubles = map[Encounter]fleeable{
		FroggitAstigmatism:   {base: "frog-astig", flee: "frog-astig-39"},
		WhimsalotAstigmatism: {base: "whim-astig", flee: "whim-astig-39"},
		FroggitWhimsalot:     {base: "core-frog-whim", flee: "core-frog-whim-39"},
		KnightMadjick:        {base: "knight-madjick", flee: "knight-madjick-39"},
	}
	coreSingles = map[Encounter]string{
		SingleKnightKnight: segSingleKnight,
		SingleMadjick:      segSingleMadjick,
	}
	coreTriple = struct {
		base, flee, overshoot string
	}{base: "core-triple", flee: "core-triple-39", overshoot: "core-triple-31"}
)

// Endgame simulates the Core grind from five to forty kills, including the
// route branch to the left side and the warrior path.
type Endgame struct {
	table *TimingTable
}

// NewEndgame validates table and returns an Endgame simulator.
func NewEndgame(table *TimingTable) (*Endgame, error) {
	e := &Endgame{table: table}
	if err := newRegion(e.Name(), table, e.Requirements()); err != nil {
		return nil, err
	}
	return e, nil
}

func (g *Endgame) Name() string { return endgameArea }

func (g *Endgame) Simulate(src Source) Frame { return run(g, g.table, src, nil) }

func (g *Endgame) timingTable() *TimingTable { return g.table }

func (g *Endgame) Requirements() Requirements {
	segs := []string{
		endgameArea, segCoreRight, segCoreLeft, segCoreGrindEnd, segNobodyCame, segCoreBridge,
		coreTriple.base, coreTriple.flee, coreTriple.overshoot,
	}
	for _, d := range coreDoubles {
		segs = append(segs, d.base, d.flee)
	}
	for _, s := range coreSingles {
		segs = append(segs, s)
	}
	return Requirements{Segments: segs, Areas: []string{endgameArea}}
}

func (g *Endgame) simulate(t *trial) {
	t.enter(endgameArea)
	t.segment(endgameArea)
	t.blcons(t.table.Blcons(endgameArea))

	kills := endgameStartKills
	wentLeft := false
	for kills < endgameKillCeiling {
		steps := CoreSteps.Roll(t.src, kills)
		e := CoreEncounter(t.src)

		switch {
		case kills < coreLeftSideKills:
			t.segment(segCoreRight)
		case !wentLeft:
			// crossing to the left side costs no transition
			wentLeft = true
		default:
			before := kills
			if kills >= coreWarriorPathKills {
				kills += coreWarriorPathBonus
				t.record("warrior-path", before, kills, "")
			}
			if kills >= endgameKillCeiling {
				for i := 0; i < coreBridgeEncounters; i++ {
					t.segment(segNobodyCame)
				}
				t.blcons(coreBridgeEncounters)
				t.segment(segCoreBridge)
				return
			}
			if kills == coreFleeKills {
				t.segment(segCoreGrindEnd)
			} else {
				t.segment(segCoreLeft)
			}
		}

		before := kills
		flee := kills == coreFleeKills
		if d, ok := coreDoubles[e]; ok {
			if flee {
				t.segment(d.flee)
			} else {
				t.segment(d.base)
			}
			kills += 2
		} else if s, ok := coreSingles[e]; ok {
			t.segment(s)
			kills++
		} else {
			switch {
			case flee:
				t.segment(coreTriple.flee)
			case kills == coreTripleOvershootKills:
				t.segment(coreTriple.overshoot)
			default:
				t.segment(coreTriple.base)
			}
			kills += 3
		}

		t.steps(steps)
		t.blcons(1)
		t.record("grind", before, kills, e.String())
	}
}
