package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/barnes/geom"
	"github.com/phil-mansfield/barnes/particle"
)

const (
	snapshotCols = 8
	timeHeader = "# Time ="
)

// SnapshotName returns the name of the snapshot file for a given step.
func SnapshotName(dir string, step int) string {
	return path.Join(dir, fmt.Sprintf("snapshot_%06d.txt", step))
}

// WriteSnapshot writes the particles in ps as a whitespace separated table
// with the columns
//
//     ID X Y VX VY AX AY Mass
//
// preceded by comment lines giving the time and particle count. Values are
// written with enough digits to be read back exactly.
func WriteSnapshot(w io.Writer, time float64, ps []particle.Particle) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %.17g\n", timeHeader, time)
	fmt.Fprintf(bw, "# Particles = %d\n", len(ps))
	fmt.Fprintln(bw, "# ID X Y VX VY AX AY Mass")
	for i := range ps {
		p := &ps[i]
		fmt.Fprintf(bw, "%d %.17g %.17g %.17g %.17g %.17g %.17g %.17g\n",
			p.ID, p.Pos.X, p.Pos.Y, p.Vel.X, p.Vel.Y, p.Acc.X, p.Acc.Y, p.Mass)
	}
	return bw.Flush()
}

// WriteSnapshotFile writes a snapshot to fname.
func WriteSnapshotFile(fname string, time float64, ps []particle.Particle) error {
	f, err := os.Create(fname)
	if err != nil { return err }
	if err = WriteSnapshot(f, time, ps); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadSnapshot reads a snapshot file written by WriteSnapshot and returns
// its particles and time. Every particle is checked with particle.Check.
func ReadSnapshot(fname string) ([]particle.Particle, float64, error) {
	time, err := readSnapshotTime(fname)
	if err != nil { return nil, 0, err }

	colIdxs := make([]int, snapshotCols)
	for i := range colIdxs { colIdxs[i] = i }
	cols, err := table.ReadTable(fname, colIdxs, nil)
	if err != nil { return nil, 0, err }

	ids := cols[0]
	xs, ys, vxs, vys := cols[1], cols[2], cols[3], cols[4]
	axs, ays, ms := cols[5], cols[6], cols[7]

	ps := make([]particle.Particle, len(ids))
	for i := range ps {
		ps[i] = particle.Particle{
			ID: int(ids[i]),
			Pos: geom.Vec{X: xs[i], Y: ys[i]},
			Vel: geom.Vec{X: vxs[i], Y: vys[i]},
			Acc: geom.Vec{X: axs[i], Y: ays[i]},
			Mass: ms[i],
		}
		if err := ps[i].Check(); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", fname, err)
		}
	}
	return ps, time, nil
}

// readSnapshotTime reads the time from a snapshot's header. Files without a
// time header start at zero.
func readSnapshotTime(fname string) (float64, error) {
	f, err := os.Open(fname)
	if err != nil { return 0, err }
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		line := s.Text()
		if !strings.HasPrefix(line, "#") { break }
		if !strings.HasPrefix(line, timeHeader) { continue }

		var time float64
		_, err := fmt.Sscan(strings.TrimPrefix(line, timeHeader), &time)
		if err != nil {
			return 0, fmt.Errorf("%s: bad time header '%s'", fname, line)
		}
		return time, nil
	}
	return 0, s.Err()
}
