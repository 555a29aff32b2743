package sim

const (
	ruinsArea = "ruins"

	// Kill count at which the second-half encounterer takes over.
	ruinsFirstHalfKills = 13
	ruinsKillCeiling    = 20

	// EXP held when the grind starts, after the scripted LV1 froggit.
	ruinsOpeningExp = 10

	// Phase-B iterations whose transition and blcon are part of the fixed route.
	ruinsFixedSecondHalfIterations = 2

	segFrogskipSave = "frogskip-save"
	segWhimsun      = "whim"
	segSingleMold   = "sgl-mold"
	segRuinsSecond  = "ruins-second-transition"
	segFroggitWhiff = "froggit-lv1-whiff"
	roomLeafPile    = "ruins-leaf-pile"
)

var (
	froggitByLevel = map[int]string{
		1: "froggit-lv1",
		2: "froggit-lv2",
		3: "froggit-lv3",
	}
	ruinsFroggitWhimsun = killScaled{base: "frog-whim", at19: "frog-whim-19"}
	ruinsDoubleFroggit  = killScaled{base: "dbl-frog", at19: "dbl-frog-19"}
	ruinsDoubleMoldsmal = killScaled{base: "dbl-mold", at19: "dbl-mold-19"}
	ruinsTripleMoldsmal = killScaled{base: "tpl-mold", at18: "tpl-mold-18", at19: "tpl-mold-19"}
)

// levelFor returns the LV reached with the given EXP.
func levelFor(exp int) int {
	switch {
	case exp >= 30:
		return 3
	case exp >= 10:
		return 2
	}
	return 1
}

// Ruins simulates the Ruins grind: a scripted LV1 froggit, thirteen
// first-half kills and a second half that ends at twenty kills.
type Ruins struct {
	table *TimingTable
}

// NewRuins validates table and returns a Ruins simulator.
func NewRuins(table *TimingTable) (*Ruins, error) {
	r := &Ruins{table: table}
	if err := newRegion(r.Name(), table, r.Requirements()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Ruins) Name() string { return ruinsArea }

func (r *Ruins) Simulate(src Source) Frame { return run(r, r.table, src, nil) }

func (r *Ruins) timingTable() *TimingTable { return r.table }

func (r *Ruins) Requirements() Requirements {
	segs := []string{ruinsArea, segFrogskipSave, segWhimsun, segSingleMold, segRuinsSecond, segFroggitWhiff}
	for _, name := range froggitByLevel {
		segs = append(segs, name)
	}
	for _, k := range []killScaled{ruinsFroggitWhimsun, ruinsDoubleFroggit, ruinsDoubleMoldsmal, ruinsTripleMoldsmal} {
		segs = append(segs, k.names()...)
	}
	return Requirements{
		Segments: segs,
		Rooms:    []string{roomLeafPile},
		Areas:    []string{ruinsArea},
	}
}

func (r *Ruins) simulate(t *trial) {
	t.enter(ruinsArea)
	t.segment(ruinsArea)
	t.blcons(t.table.Blcons(ruinsArea))

	// the tutorial froggit is always fought at LV1
	froggitFight(t, 1)

	kills, exp := 0, ruinsOpeningExp
	for kills < ruinsFirstHalfKills {
		steps := RuinsFirstHalfSteps.Roll(t.src, kills)
		if kills == 0 {
			// the first encounter cannot happen before the end of the leaf pile room
			t.fixedSteps(steps, roomLeafPile)
		} else {
			t.steps(steps)
		}

		lv := levelFor(exp)
		e := RuinsFirstHalf(t.src)
		switch e {
		case Froggit:
			froggitFight(t, lv)
			exp += 3
		case Whimsun:
			t.segment(segWhimsun)
			exp += 2
		}
		t.record("first-half", kills, kills+1, e.String())
		kills++
	}

	for i := 0; kills < ruinsKillCeiling; i++ {
		random := i >= ruinsFixedSecondHalfIterations
		if random {
			t.segment(segRuinsSecond)
		}
		t.steps(RuinsSecondHalfSteps.Roll(t.src, kills))
		if random {
			t.blcons(1)
		}

		before := kills
		e := RuinsSecondHalf(t.src)
		switch e {
		case FroggitWhimsun, DoubleFroggit:
			durations := ruinsFroggitWhimsun
			if e == DoubleFroggit {
				durations = ruinsDoubleFroggit
			}
			t.segment(durations.pick(kills))
			skips := 2
			if kills >= 19 {
				skips = 1
			}
			t.skipSavings(segFrogskipSave, skips)
			kills += 2
		case DoubleMoldsmal:
			t.segment(ruinsDoubleMoldsmal.pick(kills))
			kills += 2
		case SingleMoldsmal:
			t.segment(segSingleMold)
			kills++
		case TripleMoldsmal:
			t.segment(ruinsTripleMoldsmal.pick(kills))
			kills += 3
		}
		t.record("second-half", before, kills, e.String())
	}
}

// froggitFight adds a single froggit battle at the given LV. At LV1 the
// froggit may survive the first attack, which costs a second turn and a
// second chance at a frogskip.
func froggitFight(t *trial, lv int) {
	t.segment(froggitByLevel[lv])
	skips := 1
	if lv == 1 && FroggitWhiff(t.src) {
		t.segment(segFroggitWhiff)
		skips = 2
	}
	t.skipSavings(segFrogskipSave, skips)
}
