package sim

import "fmt"

const fullGameName = "full"

// FullGame runs Ruins, Snowdin, Waterfall and Endgame in route order and
// sums their results. The regions share nothing but the timing table and
// the random source.
type FullGame struct {
	table   *TimingTable
	regions []Simulator
}

// NewFullGame validates table for every region and returns the composite.
func NewFullGame(table *TimingTable) (*FullGame, error) {
	ruins, err := NewRuins(table)
	if err != nil {
		return nil, err
	}
	snowdin, err := NewSnowdin(table)
	if err != nil {
		return nil, err
	}
	waterfall, err := NewWaterfall(table)
	if err != nil {
		return nil, err
	}
	endgame, err := NewEndgame(table)
	if err != nil {
		return nil, err
	}
	return &FullGame{
		table:   table,
		regions: []Simulator{ruins, snowdin, waterfall, endgame},
	}, nil
}

func (g *FullGame) Name() string { return fullGameName }

func (g *FullGame) Simulate(src Source) Frame { return run(g, g.table, src, nil) }

func (g *FullGame) timingTable() *TimingTable { return g.table }

// Regions returns the component simulators in route order.
func (g *FullGame) Regions() []Simulator {
	return append([]Simulator(nil), g.regions...)
}

func (g *FullGame) Requirements() Requirements {
	var req Requirements
	for _, r := range g.regions {
		req = req.merge(r.Requirements())
	}
	return req
}

func (g *FullGame) simulate(t *trial) {
	for _, r := range g.regions {
		r.simulate(t)
	}
}

// RegionNames lists the names accepted by NewByName.
var RegionNames = []string{ruinsArea, snowdinArea, waterfallArea, endgameArea, fullGameName}

// NewByName builds the simulator for a region name.
func NewByName(name string, table *TimingTable) (Simulator, error) {
	switch name {
	case ruinsArea:
		r, err := NewRuins(table)
		if err != nil {
			return nil, err
		}
		return r, nil
	case snowdinArea:
		s, err := NewSnowdin(table)
		if err != nil {
			return nil, err
		}
		return s, nil
	case waterfallArea:
		w, err := NewWaterfall(table)
		if err != nil {
			return nil, err
		}
		return w, nil
	case endgameArea:
		e, err := NewEndgame(table)
		if err != nil {
			return nil, err
		}
		return e, nil
	case fullGameName:
		g, err := NewFullGame(table)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, fmt.Errorf("unknown region %q (valid: %v)", name, RegionNames)
}
