/*This provides helpers to plot the results of goMole runs with the
gonum plotting library, in the form of little functions with practical
applications: energy traces with error bands for optimization and DMC
runs, and population traces for watching the feedback controller do its
job.*/
package moleplot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//errPoints bundles points and their error bars for the plotter.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

//EnergyTrace plots per-block (or per-iteration) energies with their
//error bars against the block index, plus a horizontal reference line
//at exact (ignored if NaN-free runs don't have one; pass the VMC energy
//or the known eigenvalue). The plot is saved as a PNG in filename,
//which should not carry an extension.
func EnergyTrace(energies, errors []float64, exact float64, title, filename string) error {
	if len(energies) == 0 || len(energies) != len(errors) {
		return Error{fmt.Sprintf("bad trace lengths: %d energies, %d errors", len(energies), len(errors)), []string{"EnergyTrace"}}
	}
	pts := make(plotter.XYs, len(energies))
	bars := make(plotter.YErrors, len(energies))
	for i, e := range energies {
		pts[i].X = float64(i)
		pts[i].Y = e
		bars[i].Low = errors[i]
		bars[i].High = errors[i]
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Block"
	p.Y.Label.Text = "Energy"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return Error{err.Error(), []string{"EnergyTrace"}}
	}
	line.Color = color.RGBA{B: 255, A: 255}
	eb, err := plotter.NewYErrorBars(errPoints{XYs: pts, YErrors: bars})
	if err != nil {
		return Error{err.Error(), []string{"EnergyTrace"}}
	}
	p.Add(line, eb)
	p.Legend.Add("energy", line)

	ref := plotter.XYs{{X: 0, Y: exact}, {X: float64(len(energies) - 1), Y: exact}}
	rl, err := plotter.NewLine(ref)
	if err != nil {
		return Error{err.Error(), []string{"EnergyTrace"}}
	}
	rl.Color = color.RGBA{A: 255}
	rl.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(rl)
	p.Legend.Add("reference", rl)

	if err := p.Save(15*vg.Centimeter, 10*vg.Centimeter, filename+".png"); err != nil {
		return Error{err.Error(), []string{"EnergyTrace"}}
	}
	return nil
}

//PopulationTrace plots the walker population per block together with
//the target size, saved as a PNG in filename (no extension).
func PopulationTrace(sizes []int, target int, title, filename string) error {
	if len(sizes) == 0 {
		return Error{"empty size trace", []string{"PopulationTrace"}}
	}
	pts := make(plotter.XYs, len(sizes))
	for i, s := range sizes {
		pts[i].X = float64(i)
		pts[i].Y = float64(s)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Block"
	p.Y.Label.Text = "Walkers"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return Error{err.Error(), []string{"PopulationTrace"}}
	}
	line.Color = color.RGBA{R: 196, A: 255}
	p.Add(line)
	p.Legend.Add("population", line)

	ref := plotter.XYs{{X: 0, Y: float64(target)}, {X: float64(len(sizes) - 1), Y: float64(target)}}
	rl, err := plotter.NewLine(ref)
	if err != nil {
		return Error{err.Error(), []string{"PopulationTrace"}}
	}
	rl.Color = color.RGBA{A: 255}
	rl.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(rl)
	p.Legend.Add("target", rl)

	if err := p.Save(15*vg.Centimeter, 10*vg.Centimeter, filename+".png"); err != nil {
		return Error{err.Error(), []string{"PopulationTrace"}}
	}
	return nil
}

//Error is the error type of the moleplot package. It fulfills
//mole.Error.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string {
	return fmt.Sprintf("goMole/moleplot: %s", err.message)
}

//Decorate adds new information to the error and returns the resulting
//decoration slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}
