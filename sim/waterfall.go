package sim

const (
	waterfallArea        = "waterfall"
	waterfallKillCeiling = 18
	// The crystal maze takes over from the mushroom maze at this kill count.
	waterfallCrystalKills = 16
	// Only the last maze encounter is fled, which shortens two-monster battles.
	waterfallFleeKills = 17

	segSingleAaronShoes    = "sgl-aaron-shoes"
	segSingleWoshuaShoes   = "sgl-woshua-shoes"
	segWoshuaAaronSurprise = "woshua-aaron-surprise"
	segDoubleMoldShoes     = "dbl-mold-shoes"
	segWoshuaAaronFlee     = "woshua-aaron-17"
	segWoshuaMold          = "woshua-mold"
	segWoshuaMoldFlee      = "woshua-mold-17"
	segTemmie              = "temmie"
	roomMushroomMaze       = "mushroom-maze"
	roomCrystalMaze        = "crystal-maze"
)

// maze describes one Waterfall maze: the first pass walks the room with a
// step fixup, later passes walk back and exit again.
type maze struct {
	room     string
	goBack   string
	exitBack string
}

var (
	mushroomMaze = maze{room: roomMushroomMaze, goBack: "mushroom-maze-going-back", exitBack: "mushroom-maze-exit-after-backtrack"}
	crystalMaze  = maze{room: roomCrystalMaze, goBack: "crystal-going-back", exitBack: "crystal-exit-after-backtrack"}
)

// Waterfall simulates Waterfall from the glowing water room through both
// mazes, ending at eighteen kills.
type Waterfall struct {
	table *TimingTable
}

// NewWaterfall validates table and returns a Waterfall simulator.
func NewWaterfall(table *TimingTable) (*Waterfall, error) {
	w := &Waterfall{table: table}
	if err := newRegion(w.Name(), table, w.Requirements()); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Waterfall) Name() string { return waterfallArea }

func (w *Waterfall) Simulate(src Source) Frame { return run(w, w.table, src, nil) }

func (w *Waterfall) timingTable() *TimingTable { return w.table }

func (w *Waterfall) Requirements() Requirements {
	return Requirements{
		Segments: []string{
			waterfallArea, segSingleAaronShoes, segSingleWoshuaShoes, segWoshuaAaronSurprise,
			segDoubleMoldShoes, segWoshuaAaronFlee, segWoshuaMold, segWoshuaMoldFlee, segTemmie,
			mushroomMaze.goBack, mushroomMaze.exitBack, crystalMaze.goBack, crystalMaze.exitBack,
		},
		Rooms: []string{roomMushroomMaze, roomCrystalMaze},
		Areas: []string{waterfallArea},
	}
}

func (w *Waterfall) simulate(t *trial) {
	t.enter(waterfallArea)
	t.segment(waterfallArea)
	t.blcons(t.table.Blcons(waterfallArea))

	// aaron and woshua are scripted; the double mold needs steps
	kills := 2
	t.steps(GlowingWaterSteps.Roll(t.src, kills))
	t.record("scripted", kills, kills+2, DoubleMoldsmal.String())
	kills += 2

	before := kills
	e := GlowingWater(t.src)
	switch e {
	case SingleAaron:
		t.segment(segSingleAaronShoes)
		kills++
	case SingleWoshua:
		t.segment(segSingleWoshuaShoes)
		kills++
	case GlowingWoshuaAaron:
		t.segment(segWoshuaAaronSurprise)
		kills += 2
	case GlowingDoubleMoldsmal:
		t.segment(segDoubleMoldShoes)
		kills += 2
	}
	t.record("glowing-water", before, kills, e.String())

	// shyren and the glad dummy
	t.record("scripted", kills, kills+2, "")
	kills += 2

	// temmie and the impostor mold share a kill count; the first roll
	// happens without a room transition
	t.steps(WaterfallSameRoom.Roll(t.src, kills))
	t.steps(WaterfallGrindSteps.Roll(t.src, kills))
	t.record("grind", kills, kills+3, "")
	kills += 3

	// aware woshua-aaron and woshua-mold before the mazes
	for i := 0; i < 2; i++ {
		t.steps(WaterfallGrindSteps.Roll(t.src, kills))
		t.record("grind", kills, kills+2, "")
		kills += 2
	}

	mushroomPasses, crystalPasses := 0, 0
	for kills < waterfallKillCeiling {
		steps := WaterfallGrindSteps.Roll(t.src, kills)
		if kills < waterfallCrystalKills {
			mushroomPasses++
			mushroomMaze.walk(t, steps, mushroomPasses)
		} else {
			crystalPasses++
			crystalMaze.walk(t, steps, crystalPasses)
		}

		before := kills
		e := WaterfallGrind(t.src)
		flee := kills == waterfallFleeKills
		switch e {
		case WoshuaAaron:
			if flee {
				t.segment(segWoshuaAaronFlee)
			} else {
				t.segment(segWoshuaAaronSurprise)
			}
			kills += 2
		case WoshuaMoldbygg:
			if flee {
				t.segment(segWoshuaMoldFlee)
			} else {
				t.segment(segWoshuaMold)
			}
			kills += 2
		case Temmie:
			t.segment(segTemmie)
			kills++
		}
		t.record("maze", before, kills, e.String())
	}
}

// walk adds the traversal cost of one pass through the maze.
func (m maze) walk(t *trial, steps, pass int) {
	if pass == 1 {
		t.fixedSteps(steps, m.room)
		return
	}
	t.segment(m.goBack)
	t.segment(m.exitBack)
	t.blcons(1)
	t.steps(steps)
}
