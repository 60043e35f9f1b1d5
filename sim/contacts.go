package sim

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// ContactSampler draws the daily contact set for one agent. The contact
// count is Poisson with mean NContacts (fractional means are intentional:
// the distribution, not a fixed integer, produces the average). Partners
// are uniform over the population, sampled with replacement; self-contacts
// are discarded and redrawn.
type ContactSampler struct {
	NContacts float64
	PopSize   int
}

// Contacts appends today's partner indices for agent id to buf and returns
// the extended slice. Passing a reused buffer avoids per-agent allocation
// in the hot read phase.
func (c *ContactSampler) Contacts(id int, rng *rand.Rand, buf []int) []int {
	if c.NContacts == 0 || c.PopSize < 2 {
		return buf[:0]
	}
	n := int(distuv.Poisson{Lambda: c.NContacts, Src: rng}.Rand())
	buf = buf[:0]
	for i := 0; i < n; i++ {
		partner := rng.Intn(c.PopSize)
		for partner == id {
			partner = rng.Intn(c.PopSize)
		}
		buf = append(buf, partner)
	}
	return buf
}
