/*package integrator contains the kick and drift halves of the leapfrog
(kick-drift-kick) integrator. Neither step couples particles to one another.
*/
package integrator

import (
	"github.com/phil-mansfield/barnes/particle"
)

// HalfKick advances every velocity by half a step using the particle's
// current acceleration.
func HalfKick(ps []particle.Particle, dt float64) {
	h := dt / 2
	for i := range ps {
		ps[i].Vel = ps[i].Vel.Add(ps[i].Acc.Scale(h))
	}
}

// Drift advances every position by a full step using the particle's current
// velocity.
func Drift(ps []particle.Particle, dt float64) {
	for i := range ps {
		ps[i].Pos = ps[i].Pos.Add(ps[i].Vel.Scale(dt))
	}
}
