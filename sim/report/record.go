// Package report provides the per-day output record series for simulation
// runs. This package has no dependencies on sim/ — it stores pure data
// types plus their CSV encoding.
package report

import "strconv"

// DayRecord is one day of aggregate compartment counts, the unit of the
// output series both simulators emit. NewCases is the daily count
// comparable to an observed epicurve.
type DayRecord struct {
	Day         int
	Susceptible int
	Exposed     int
	Infectious  int
	Severe      int
	Critical    int
	Recovered   int
	Dead        int
	NewCases    int
}

// Header is the CSV column order, fixed so downstream tooling can rely on it.
func Header() []string {
	return []string{"day", "susceptible", "exposed", "infectious", "severe", "critical", "recovered", "dead", "new_cases"}
}

// Row renders the record in Header order.
func (r DayRecord) Row() []string {
	return []string{
		strconv.Itoa(r.Day),
		strconv.Itoa(r.Susceptible),
		strconv.Itoa(r.Exposed),
		strconv.Itoa(r.Infectious),
		strconv.Itoa(r.Severe),
		strconv.Itoa(r.Critical),
		strconv.Itoa(r.Recovered),
		strconv.Itoa(r.Dead),
		strconv.Itoa(r.NewCases),
	}
}
