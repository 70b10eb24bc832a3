package barnes

import (
	"github.com/phil-mansfield/barnes/gravity"
	"github.com/phil-mansfield/barnes/particle"
)

// PotentialEnergy returns the total softened potential energy of ps,
// counting every pair once.
func PotentialEnergy(ps []particle.Particle, k gravity.Kernel, workers int) float64 {
	if workers < 1 { workers = 1 }
	sums := make([]float64, len(ps))
	forEach(workers, len(ps), func(i int) {
		for j := i + 1; j < len(ps); j++ {
			sums[i] += k.Potential(ps[i].Pos, ps[i].Mass, ps[j].Pos, ps[j].Mass)
		}
	})

	total := 0.0
	for _, s := range sums { total += s }
	return total
}
