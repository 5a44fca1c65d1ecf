package explorer

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Explore projects the vectors to two dimensions with PCA and writes a
// scatter plot colored by cluster label to path. The image format follows
// the path extension (.png, .svg, .pdf).
func (e *Explorer) Explore(path string) error {
	if e.labels == nil {
		return ErrNoLabels
	}
	if len(e.vectors) < 2 {
		return errors.New("need at least two vectors to project")
	}

	proj, err := e.project()
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Document clusters"
	p.X.Label.Text = "PC1"
	p.Y.Label.Text = "PC2"

	for ci := 0; ci < e.k; ci++ {
		var xys plotter.XYs
		for i, l := range e.labels {
			if l != ci {
				continue
			}
			xys = append(xys, plotter.XY{X: proj.At(i, 0), Y: proj.At(i, 1)})
		}
		if len(xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("scatter for cluster %d: %w", ci, err)
		}
		s.GlyphStyle.Color = plotutil.Color(ci)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("Cluster %d", ci), s)
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}

// project reduces the vector collection to its first two principal
// components.
func (e *Explorer) project() (*mat.Dense, error) {
	rows, cols := len(e.vectors), len(e.vectors[0])
	data := mat.NewDense(rows, cols, nil)
	for i, v := range e.vectors {
		for j, x := range v {
			data.Set(i, j, float64(x))
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, errors.New("principal component analysis failed")
	}
	var vec mat.Dense
	pc.VectorsTo(&vec)

	var proj mat.Dense
	proj.Mul(data, vec.Slice(0, cols, 0, 2))
	return &proj, nil
}
