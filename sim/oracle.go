package sim

import "math"

// Source is a uniform random source on [0,1). *rand.Rand satisfies it.
// Every draw in the simulator goes through an explicit Source so trials can
// be seeded independently and run in parallel.
type Source interface {
	Float64() float64
}

// HeartFlick is the fixed battle-transition cost of one blcon, in frames.
const HeartFlick Frame = 47

// blconJitter bounds the random component added to every blcon.
const blconJitter = 5

// skipMissChance is the probability that a frogskip/dogskip does not happen.
const skipMissChance = 0.405

// FroggitWhiffChance is the probability that the LV1 opening froggit
// survives the first attack and needs a second turn.
const FroggitWhiffChance = 0.25

// StepFormula holds the arguments of the game's step counter for one area.
type StepFormula struct {
	MinSteps int
	Delta    int
	MaxKills int
}

// Step formulas used by the route, keyed by the area that rolls them.
var (
	RuinsFirstHalfSteps  = StepFormula{MinSteps: 80, Delta: 40, MaxKills: 20}
	RuinsSecondHalfSteps = StepFormula{MinSteps: 60, Delta: 60, MaxKills: 20}
	SnowdinSteps         = StepFormula{MinSteps: 60, Delta: 60, MaxKills: 16}
	GlowingWaterSteps    = StepFormula{MinSteps: 60, Delta: 60, MaxKills: 18}
	WaterfallGrindSteps  = StepFormula{MinSteps: 70, Delta: 50, MaxKills: 18}
	WaterfallSameRoom    = StepFormula{MinSteps: 40, Delta: 50, MaxKills: 18}
	CoreSteps            = StepFormula{MinSteps: 70, Delta: 50, MaxKills: 40}
)

// Roll draws a step count for the given kill count.
func (f StepFormula) Roll(src Source, kills int) int {
	return ScrSteps(src, f.MinSteps, f.Delta, f.MaxKills, kills)
}

// RoundRandom mirrors the engine's round(random(max)): a uniform draw scaled
// to [0,max] and rounded half to even.
func RoundRandom(src Source, max int) int {
	return int(math.RoundToEven(src.Float64() * float64(max)))
}

// ScrSteps replicates the game's step counter. The population factor grows
// as kills approach maxKills and is capped at 8.
func ScrSteps(src Source, minSteps, delta, maxKills, kills int) int {
	factor := 8.0
	if remaining := maxKills - kills; remaining > 0 {
		factor = math.Min(8, float64(maxKills)/float64(remaining))
	}
	steps := float64(minSteps+RoundRandom(src, delta)) * factor
	return int(steps) + 1
}

// SkipBonus returns 1 when a frogskip/dogskip happens and 0 otherwise.
func SkipBonus(src Source) int {
	if src.Float64() < skipMissChance {
		return 0
	}
	return 1
}

// FroggitWhiff reports whether the LV1 froggit needs a second turn.
func FroggitWhiff(src Source) bool {
	return src.Float64() < FroggitWhiffChance
}

// EncounterEntryTime is the cost of n blcons, each with its own jitter.
func EncounterEntryTime(src Source, n int) Frame {
	total := HeartFlick * Frame(n)
	for i := 0; i < n; i++ {
		total += Frame(RoundRandom(src, blconJitter))
	}
	return total
}

// threshold maps the upper bound of a cumulative-probability slice to its outcome.
type threshold struct {
	below   float64
	outcome Encounter
}

// draw picks the first slice whose upper bound exceeds roll. The last slice
// always has bound 1.0 and catches everything else.
func draw(src Source, table []threshold) Encounter {
	roll := src.Float64()
	for _, t := range table {
		if roll < t.below {
			return t.outcome
		}
	}
	return table[len(table)-1].outcome
}

var (
	ruinsFirstHalfTable = []threshold{
		{0.5, Froggit},
		{1.0, Whimsun},
	}
	ruinsSecondHalfTable = []threshold{
		{0.25, FroggitWhimsun},
		{0.5, SingleMoldsmal},
		{0.75, TripleMoldsmal},
		{0.9, DoubleFroggit},
		{1.0, DoubleMoldsmal},
	}
	glowingWaterTable = []threshold{
		{0.267, SingleWoshua},
		{0.533, GlowingDoubleMoldsmal},
		{0.733, SingleAaron},
		{1.0, GlowingWoshuaAaron},
	}
	waterfallGrindTable = []threshold{
		{0.333, WoshuaAaron},
		{0.733, WoshuaMoldbygg},
		{1.0, Temmie},
	}
	coreTable = []threshold{
		{0.133, FroggitAstigmatism},
		{0.333, WhimsalotAstigmatism},
		{0.533, FroggitWhimsalot},
		{0.733, KnightMadjick},
		{0.867, CoreTriple},
		{0.933, SingleKnightKnight},
		{1.0, SingleMadjick},
	}
)

// RuinsFirstHalf draws the encounter for the first half of the Ruins grind.
func RuinsFirstHalf(src Source) Encounter { return draw(src, ruinsFirstHalfTable) }

// RuinsSecondHalf draws the encounter for the second half of the Ruins grind.
func RuinsSecondHalf(src Source) Encounter { return draw(src, ruinsSecondHalfTable) }

// SnowdinGrind draws the Snowdin grind encounter. The game checks roll > 0.5
// for the double, so 0.5 itself is a triple.
func SnowdinGrind(src Source) Encounter {
	if src.Float64() > 0.5 {
		return SnowdinDouble
	}
	return SnowdinTriple
}

// GlowingWater draws the encounter in the glowing water room.
func GlowingWater(src Source) Encounter { return draw(src, glowingWaterTable) }

// WaterfallGrind draws a Waterfall maze encounter.
func WaterfallGrind(src Source) Encounter { return draw(src, waterfallGrindTable) }

// CoreEncounter draws one of the seven Core encounters.
func CoreEncounter(src Source) Encounter { return draw(src, coreTable) }
