package sim

const (
	snowdinArea        = "snowdin"
	snowdinKillCeiling = 16

	// Kills after the scripted snowdrake, icecap and lesser dog.
	snowdinScriptedKills = 3
	// Greater Dog gives two chances at a dogskip.
	snowdinDogTurns = 2

	segDogskipSave      = "dogskip-save"
	segSnowdinRight     = "snowdin-right-transition"
	segSnowdinLeft      = "snowdin-left-transition"
	segSnowdinDouble    = "snowdin-dbl"
	// Jerry triple only; other triples are timed as doubles.
	segSnowdinTriple    = "snowdin-tpl"
	segSnowdinDblJerry  = "snowdin-dbl-jerry"
	roomSnowdinBoxRoad  = "snowdin-box-road"
	roomSnowdinDogiRoom = "snowdin-dogi"
)

// Snowdin simulates the Snowdin grind up to sixteen kills, including the
// choice of fighting Jerry on the last encounter.
type Snowdin struct {
	table *TimingTable
}

// NewSnowdin validates table and returns a Snowdin simulator.
func NewSnowdin(table *TimingTable) (*Snowdin, error) {
	s := &Snowdin{table: table}
	if err := newRegion(s.Name(), table, s.Requirements()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Snowdin) Name() string { return snowdinArea }

func (s *Snowdin) Simulate(src Source) Frame { return run(s, s.table, src, nil) }

func (s *Snowdin) timingTable() *TimingTable { return s.table }

func (s *Snowdin) Requirements() Requirements {
	return Requirements{
		Segments: []string{
			snowdinArea, segDogskipSave, segSnowdinRight, segSnowdinLeft,
			segSnowdinDouble, segSnowdinTriple, segSnowdinDblJerry,
		},
		Rooms: []string{roomSnowdinBoxRoad, roomSnowdinDogiRoom},
		Areas: []string{snowdinArea},
	}
}

func (s *Snowdin) simulate(t *trial) {
	t.enter(snowdinArea)
	t.segment(snowdinArea)
	t.blcons(t.table.Blcons(snowdinArea))

	// single snowdrake at the end of the box road
	t.fixedSteps(SnowdinSteps.Roll(t.src, 0), roomSnowdinBoxRoad)

	kills := snowdinScriptedKills
	for kills < snowdinKillCeiling {
		e := SnowdinGrind(t.src)
		jerry := (e == SnowdinDouble && kills == 14) || (e == SnowdinTriple && kills == 13)

		if kills == snowdinScriptedKills {
			// dogi bridge: its blcon is part of the fixed route
			t.fixedSteps(SnowdinSteps.Roll(t.src, kills), roomSnowdinDogiRoom)
		} else {
			t.steps(SnowdinSteps.Roll(t.src, kills))
			t.blcons(1)
			switch {
			case kills < 10 || (kills >= 13 && !jerry):
				t.segment(segSnowdinRight)
			case kills < 13:
				t.segment(segSnowdinLeft)
			}
		}

		before := kills
		switch {
		case e == SnowdinDouble && jerry:
			t.segment(segSnowdinDblJerry)
			kills += 2
		case e == SnowdinDouble:
			t.segment(segSnowdinDouble)
			kills++
		case jerry:
			t.segment(segSnowdinTriple)
			kills += 3
		default:
			t.segment(segSnowdinDouble)
			kills += 2
		}
		t.record("grind", before, kills, e.String())

		if before == snowdinScriptedKills {
			t.skipSavings(segDogskipSave, snowdinDogTurns)
		}
	}
}
