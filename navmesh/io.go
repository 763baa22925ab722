package navmesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteOBJ writes soup as a Wavefront OBJ debug artifact: one "v x y z" line
// per vertex followed by one "f i j k" line per triangle, 1-based indices.
// This package never reads geometry from OBJ files at build time (soup
// always comes from Builder.Build), so there is no loader dependency to
// pull in here: this writer and its matching ReadOBJ exist purely so tests
// and debug tooling can round-trip what a build produced.
func WriteOBJ(w io.Writer, soup *TriangleSoup) error {
	bw := bufio.NewWriter(w)
	n := soup.NumVerts()
	for i := int32(0); i < n; i++ {
		x, y, z := soup.Verts[i*3], soup.Verts[i*3+1], soup.Verts[i*3+2]
		if _, err := fmt.Fprintf(bw, "v %g %g %g\n", x, y, z); err != nil {
			return err
		}
	}
	nt := soup.NumTris()
	for i := int32(0); i < nt; i++ {
		a, b, c := soup.Tris[i*3]+1, soup.Tris[i*3+1]+1, soup.Tris[i*3+2]+1
		if _, err := fmt.Fprintf(bw, "f %d %d %d\n", a, b, c); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadOBJ parses the subset of Wavefront OBJ that WriteOBJ emits: "v"
// and "f" lines only, triangulated faces, 1-based indices. Per-triangle
// area information does not round-trip through OBJ (the format has no
// field for it), so every triangle reads back as AreaWalkable.
func ReadOBJ(r io.Reader) (*TriangleSoup, error) {
	soup := &TriangleSoup{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) != 4 {
				return nil, fmt.Errorf("navmesh: obj line %d: want 3 coordinates, got %d", line, len(fields)-1)
			}
			x, err := strconv.ParseFloat(fields[1], 32)
			if err != nil {
				return nil, fmt.Errorf("navmesh: obj line %d: %w", line, err)
			}
			y, err := strconv.ParseFloat(fields[2], 32)
			if err != nil {
				return nil, fmt.Errorf("navmesh: obj line %d: %w", line, err)
			}
			z, err := strconv.ParseFloat(fields[3], 32)
			if err != nil {
				return nil, fmt.Errorf("navmesh: obj line %d: %w", line, err)
			}
			soup.addVertex(float32(x), float32(y), float32(z))
		case "f":
			if len(fields) != 4 {
				return nil, fmt.Errorf("navmesh: obj line %d: only triangulated faces are supported", line)
			}
			idx := make([]int32, 3)
			for i, f := range fields[1:] {
				v, err := strconv.ParseInt(f, 10, 32)
				if err != nil {
					return nil, fmt.Errorf("navmesh: obj line %d: %w", line, err)
				}
				idx[i] = int32(v) - 1
			}
			soup.addTriangle(idx[0], idx[1], idx[2], AreaWalkable)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return soup, nil
}

// GeomSet is the parsed form of a .gset debug artifact: the build settings
// and bounding box a navmesh was produced with, plus its off-mesh
// connections, independent of the bulky triangle soup itself.
type GeomSet struct {
	Source      string
	Settings    Settings
	BMin, BMax  [3]float32
	Connections []OffMeshConnection
}

// WriteGeomSet writes gs as a .gset debug artifact: a header line naming the
// source mesh and carrying the solver settings and bounding box, followed
// by one "c" line per off-mesh connection. A "c" line carries endpoints,
// radius, direction, area and flags; a connection's UserID is not written.
func WriteGeomSet(w io.Writer, gs *GeomSet) error {
	bw := bufio.NewWriter(w)
	s := gs.Settings
	if _, err := fmt.Fprintf(bw, "f %s\n", gs.Source); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "s %g %g %g %g %g %g %g %g %g %g %g %g %g %d\n",
		s.CellSize, s.CellHeight, s.AgentHeight, s.AgentRadius, s.AgentMaxClimb,
		s.WalkableSlopeAngle, s.RegionMinSize, s.RegionMergeSize, s.EdgeMaxLen, s.EdgeMaxError,
		s.DetailSampleDist, s.DetailSampleMaxError, s.HeightPerLevel, s.VertsPerPoly); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "b %g %g %g %g %g %g\n",
		gs.BMin[0], gs.BMin[1], gs.BMin[2], gs.BMax[0], gs.BMax[1], gs.BMax[2]); err != nil {
		return err
	}
	for _, c := range gs.Connections {
		if _, err := fmt.Fprintf(bw, "c %g %g %g %g %g %g %g %d %d %d\n",
			c.AX, c.AY, c.AZ, c.BX, c.BY, c.BZ, c.Radius,
			c.Direction, c.Area, c.Flags); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadGeomSet parses a .gset debug artifact written by WriteGeomSet. Every
// connection reads back with a zero UserID, since the format has no field
// for it.
func ReadGeomSet(r io.Reader) (*GeomSet, error) {
	gs := &GeomSet{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		var err error
		switch fields[0] {
		case "f":
			gs.Source = strings.TrimPrefix(sc.Text(), "f ")
		case "s":
			err = scanSettings(fields[1:], &gs.Settings)
		case "b":
			err = scanFloats(fields[1:], gs.BMin[:], gs.BMax[:])
		case "c":
			var c OffMeshConnection
			err = scanConnection(fields[1:], &c)
			if err == nil {
				gs.Connections = append(gs.Connections, c)
			}
		default:
			err = fmt.Errorf("unrecognized line kind %q", fields[0])
		}
		if err != nil {
			return nil, fmt.Errorf("navmesh: gset line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return gs, nil
}

func scanSettings(fields []string, s *Settings) error {
	if len(fields) != 14 {
		return fmt.Errorf("want 14 settings fields, got %d", len(fields))
	}
	vals := make([]float64, 13)
	for i := 0; i < 13; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return err
		}
		vals[i] = v
	}
	vpp, err := strconv.ParseInt(fields[13], 10, 32)
	if err != nil {
		return err
	}
	s.CellSize, s.CellHeight = float32(vals[0]), float32(vals[1])
	s.AgentHeight, s.AgentRadius, s.AgentMaxClimb = float32(vals[2]), float32(vals[3]), float32(vals[4])
	s.WalkableSlopeAngle = float32(vals[5])
	s.RegionMinSize, s.RegionMergeSize = float32(vals[6]), float32(vals[7])
	s.EdgeMaxLen, s.EdgeMaxError = float32(vals[8]), float32(vals[9])
	s.DetailSampleDist, s.DetailSampleMaxError = float32(vals[10]), float32(vals[11])
	s.HeightPerLevel = float32(vals[12])
	s.VertsPerPoly = int32(vpp)
	return nil
}

func scanFloats(fields []string, dsts ...[]float32) error {
	total := 0
	for _, d := range dsts {
		total += len(d)
	}
	if len(fields) != total {
		return fmt.Errorf("want %d fields, got %d", total, len(fields))
	}
	i := 0
	for _, d := range dsts {
		for j := range d {
			v, err := strconv.ParseFloat(fields[i], 32)
			if err != nil {
				return err
			}
			d[j] = float32(v)
			i++
		}
	}
	return nil
}

func scanConnection(fields []string, c *OffMeshConnection) error {
	if len(fields) != 10 {
		return fmt.Errorf("want 10 connection fields, got %d", len(fields))
	}
	coords := make([]float32, 7)
	for i := 0; i < 7; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return err
		}
		coords[i] = float32(v)
	}
	dir, err := strconv.ParseInt(fields[7], 10, 32)
	if err != nil {
		return err
	}
	area, err := strconv.ParseInt(fields[8], 10, 32)
	if err != nil {
		return err
	}
	flags, err := strconv.ParseInt(fields[9], 10, 32)
	if err != nil {
		return err
	}
	c.AX, c.AY, c.AZ = coords[0], coords[1], coords[2]
	c.BX, c.BY, c.BZ = coords[3], coords[4], coords[5]
	c.Radius = coords[6]
	c.Direction = LinkDirection(dir)
	c.Area = AreaType(area)
	c.Flags = PolyFlags(flags)
	return nil
}
