package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/epidemic-sim/epidemic-sim/sim/report"
)

func TestEpiCurve_Records(t *testing.T) {
	var c EpiCurve
	var day DayCounts
	day.Day = 4
	day.States[Susceptible] = 90
	day.States[Exposed] = 3
	day.States[Asymptomatic] = 2
	day.States[Symptomatic] = 1
	day.States[Severe] = 1
	day.States[Critical] = 1
	day.States[Recovered] = 1
	day.States[Dead] = 1
	day.NewCases = 3
	c.Append(day)

	recs := c.Records()
	assert.Equal(t, []report.DayRecord{{
		Day:         4,
		Susceptible: 90,
		Exposed:     3,
		Infectious:  3, // asymptomatic + symptomatic
		Severe:      1,
		Critical:    1,
		Recovered:   1,
		Dead:        1,
		NewCases:    3,
	}}, recs)
	assert.Equal(t, 100, day.Total())
}

func TestEpiCurve_NewCaseSeries(t *testing.T) {
	var c EpiCurve
	for i, n := range []int{0, 2, 5, 3} {
		c.Append(DayCounts{Day: i, NewCases: n})
	}
	assert.Equal(t, []float64{0, 2, 5, 3}, c.NewCaseSeries())
}

func TestDiseaseState_Properties(t *testing.T) {
	assert.True(t, Recovered.Terminal())
	assert.True(t, Dead.Terminal())
	assert.False(t, Symptomatic.Terminal())

	assert.False(t, Susceptible.Active())
	assert.False(t, Recovered.Active())
	assert.True(t, Exposed.Active())
	assert.True(t, Critical.Active())

	assert.Equal(t, "symptomatic", Symptomatic.String())
	assert.Equal(t, "80+", AgeBand(8).String())
	assert.Equal(t, "20-29", AgeBand(2).String())
}
