package wirecraft

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadTemplateFromDXFFile reads a structure template from a simplified DXF
// file of 3DFACE entities.
func LoadTemplateFromDXFFile(name, fileName string) (*Template, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("could not open DXF file %s: %w", fileName, err)
	}
	defer file.Close()

	t, err := NewTemplateFromDXF(name, file)
	if err != nil {
		return nil, fmt.Errorf("error parsing DXF file %s: %w", fileName, err)
	}
	return t, nil
}

// NewTemplateFromDXF turns every 3DFACE into its outline. Each face carries
// four corners as group code / value line pairs; a triangle repeats its third
// corner. Shared corners become one point and shared sides one edge.
func NewTemplateFromDXF(name string, r io.Reader) (*Template, error) {
	scanner := bufio.NewScanner(r)

	readFloat := func() (float64, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse float value '%s': %w", scanner.Text(), err)
		}
		return v, nil
	}

	b := newOutlineBuilder()
	for scanner.Scan() {
		if !strings.HasPrefix(strings.TrimSpace(scanner.Text()), "3DFACE") {
			continue
		}
		// layer group code, layer name, first corner group code
		for i := 0; i < 3; i++ {
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected end of file while parsing 3DFACE header")
			}
		}

		var corners [4]Point
		for c := range corners {
			for axis := 0; axis < 3; axis++ {
				v, err := readFloat()
				if err != nil {
					return nil, fmt.Errorf("reading corner %d of face %d: %w", c, b.faces, err)
				}
				corners[c][axis] = v
				// group code of the next value
				scanner.Scan()
			}
		}
		b.addFace(corners[:])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from DXF source: %w", err)
	}
	if b.faces == 0 {
		return nil, fmt.Errorf("%w %q: no 3DFACE entities", ErrInvalidTemplate, name)
	}
	return NewTemplate(name, b.points, b.edges)
}

type outlineBuilder struct {
	points []Point
	edges  []Edge
	index  map[Point]int
	sides  map[Edge]bool
	faces  int
}

func newOutlineBuilder() *outlineBuilder {
	return &outlineBuilder{index: make(map[Point]int), sides: make(map[Edge]bool)}
}

func (b *outlineBuilder) point(p Point) int {
	if i, ok := b.index[p]; ok {
		return i
	}
	b.index[p] = len(b.points)
	b.points = append(b.points, p)
	return len(b.points) - 1
}

func (b *outlineBuilder) addFace(corners []Point) {
	b.faces++
	var ids []int
	for _, c := range corners {
		i := b.point(c)
		if len(ids) > 0 && ids[len(ids)-1] == i {
			continue
		}
		ids = append(ids, i)
	}
	if len(ids) > 1 && ids[0] == ids[len(ids)-1] {
		ids = ids[:len(ids)-1]
	}
	if len(ids) < 2 {
		return
	}
	for k := range ids {
		a, z := ids[k], ids[(k+1)%len(ids)]
		if len(ids) == 2 && k == 1 {
			break
		}
		side := Edge{min(a, z), max(a, z)}
		if b.sides[side] {
			continue
		}
		b.sides[side] = true
		b.edges = append(b.edges, Edge{a, z})
	}
}
