package render

import (
	"github.com/phil-mansfield/barnes/geom"
	"github.com/phil-mansfield/barnes/particle"
)

// Trails records the most recent positions of every particle.
type Trails struct {
	Length int
	rings map[int]*ring
}

type ring struct {
	buf []geom.Vec
	start, n int
}

func (r *ring) push(v geom.Vec) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = v
		r.n++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

// NewTrails returns a Trails which remembers up to length positions per
// particle.
func NewTrails(length int) *Trails {
	return &Trails{Length: length, rings: map[int]*ring{}}
}

// Record appends the current position of each particle, keyed by ID, to its
// trail.
func (t *Trails) Record(ps []particle.Particle) {
	if t.Length <= 0 { return }
	for i := range ps {
		r, ok := t.rings[ps[i].ID]
		if !ok {
			r = &ring{buf: make([]geom.Vec, t.Length)}
			t.rings[ps[i].ID] = r
		}
		r.push(ps[i].Pos)
	}
}

// Trail returns the recorded positions of the particle with the given ID,
// oldest first. The result is appended to buf.
func (t *Trails) Trail(id int, buf []geom.Vec) []geom.Vec {
	buf = buf[:0]
	r, ok := t.rings[id]
	if !ok { return buf }
	for i := 0; i < r.n; i++ {
		buf = append(buf, r.buf[(r.start+i)%len(r.buf)])
	}
	return buf
}

// Len returns the number of particles with trails.
func (t *Trails) Len() int { return len(t.rings) }
