/*package render draws simulation states, either as pyplot frames written
to disk or live in a terminal.
*/
package render

import (
	"fmt"
	"path"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/barnes/geom"
	"github.com/phil-mansfield/barnes/particle"
)

const (
	figSize = 8
	labelSize = 16
)

// Plotter writes one png frame per call to Plot. Frames are only rendered
// when Flush runs the accumulated python script.
type Plotter struct {
	Dir string
	Domain geom.Boundary
	Trails *Trails

	frames, pending int
	xs, ys []float64
	trailBuf []geom.Vec
}

// NewPlotter creates a Plotter which writes frames to dir and draws trails
// of the given length behind each particle.
func NewPlotter(dir string, domain geom.Boundary, trail int) *Plotter {
	plt.Reset()
	return &Plotter{Dir: dir, Domain: domain, Trails: NewTrails(trail)}
}

// FrameName returns the name of the i-th frame.
func (p *Plotter) FrameName(i int) string {
	return path.Join(p.Dir, fmt.Sprintf("frame_%05d.png", i))
}

// Frames returns the number of frames plotted so far.
func (p *Plotter) Frames() int { return p.frames }

// Plot adds a frame showing ps at the given time and returns its file name.
func (p *Plotter) Plot(time float64, ps []particle.Particle) string {
	p.Trails.Record(ps)
	fname := p.FrameName(p.frames)
	p.frames++
	p.pending++

	plt.Figure(plt.FigSize(figSize, figSize))
	for i := range ps {
		p.trailBuf = p.Trails.Trail(ps[i].ID, p.trailBuf)
		if len(p.trailBuf) < 2 { continue }
		p.xs, p.ys = split(p.trailBuf, p.xs, p.ys)
		plt.Plot(p.xs, p.ys, "k", plt.LW(1))
	}

	p.xs, p.ys = p.xs[:0], p.ys[:0]
	for i := range ps {
		p.xs = append(p.xs, ps[i].Pos.X)
		p.ys = append(p.ys, ps[i].Pos.Y)
	}
	plt.Plot(p.xs, p.ys, "ow")

	plt.Title(fmt.Sprintf("Time: %.2f, Particles: %d", time, len(ps)))
	plt.XLabel(`$X$`, plt.FontSize(labelSize))
	plt.YLabel(`$Y$`, plt.FontSize(labelSize))
	plt.XLim(p.Domain.X, p.Domain.X+p.Domain.Width)
	plt.YLim(p.Domain.Y, p.Domain.Y+p.Domain.Height)
	plt.SaveFig(fname)
	return fname
}

// Flush runs python on every frame plotted since the last Flush.
func (p *Plotter) Flush() {
	if p.pending == 0 { return }
	plt.Execute()
	plt.Reset()
	p.pending = 0
}

func split(vs []geom.Vec, xs, ys []float64) ([]float64, []float64) {
	xs, ys = xs[:0], ys[:0]
	for _, v := range vs {
		xs = append(xs, v.X)
		ys = append(ys, v.Y)
	}
	return xs, ys
}
