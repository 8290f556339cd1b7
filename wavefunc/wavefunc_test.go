package wavefunc

import (
	"fmt"
	"math"
	"testing"

	mole "github.com/Jvanrhijn/gomole"
	v3 "github.com/Jvanrhijn/gomole/v3"
)

//The analytic gradients and Laplacians are what the whole sampling
//engine rides on, so every ansatz gets checked against central finite
//differences of its own Value at an arbitrary, asymmetric
//configuration.

func testConfig(Te *testing.T, coords ...float64) *v3.Matrix {
	Te.Helper()
	cfg, err := v3.NewMatrix(coords)
	if err != nil {
		Te.Fatalf("bad test configuration: %v", err)
	}
	return cfg
}

//numGradient computes the central-difference gradient of wf at cfg.
func numGradient(Te *testing.T, wf mole.WaveFunction, cfg *v3.Matrix) *v3.Matrix {
	Te.Helper()
	const h = 1e-5
	g := v3.Zeros(cfg.NVecs())
	for i := 0; i < cfg.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			x := cfg.At(i, j)
			cfg.Set(i, j, x+h)
			vp, err := wf.Value(cfg)
			if err != nil {
				Te.Fatalf("Value failed during differencing: %v", err)
			}
			cfg.Set(i, j, x-h)
			vm, err := wf.Value(cfg)
			if err != nil {
				Te.Fatalf("Value failed during differencing: %v", err)
			}
			cfg.Set(i, j, x)
			g.Set(i, j, (vp-vm)/(2*h))
		}
	}
	return g
}

//numLaplacian computes the central second-difference Laplacian of wf
//at cfg, summed over all coordinates.
func numLaplacian(Te *testing.T, wf mole.WaveFunction, cfg *v3.Matrix) float64 {
	Te.Helper()
	const h = 1e-4
	v0, err := wf.Value(cfg)
	if err != nil {
		Te.Fatalf("Value failed during differencing: %v", err)
	}
	lap := 0.0
	for i := 0; i < cfg.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			x := cfg.At(i, j)
			cfg.Set(i, j, x+h)
			vp, err := wf.Value(cfg)
			if err != nil {
				Te.Fatalf("Value failed during differencing: %v", err)
			}
			cfg.Set(i, j, x-h)
			vm, err := wf.Value(cfg)
			if err != nil {
				Te.Fatalf("Value failed during differencing: %v", err)
			}
			cfg.Set(i, j, x)
			lap += (vp - 2*v0 + vm) / (h * h)
		}
	}
	return lap
}

func checkDerivatives(Te *testing.T, name string, wf mole.WaveFunction, cfg *v3.Matrix) {
	Te.Helper()
	ana := v3.Zeros(cfg.NVecs())
	if err := wf.Gradient(ana, cfg); err != nil {
		Te.Fatalf("%s: Gradient failed: %v", name, err)
	}
	num := numGradient(Te, wf, cfg)
	for i := 0; i < cfg.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			a, n := ana.At(i, j), num.At(i, j)
			if math.Abs(a-n) > 1e-5*(1+math.Abs(a)) {
				Te.Errorf("%s: gradient[%d,%d] analytic %v, numeric %v", name, i, j, a, n)
			}
		}
	}
	alap, err := wf.Laplacian(cfg)
	if err != nil {
		Te.Fatalf("%s: Laplacian failed: %v", name, err)
	}
	nlap := numLaplacian(Te, wf, cfg)
	if math.Abs(alap-nlap) > 1e-4*(1+math.Abs(alap)) {
		Te.Errorf("%s: Laplacian analytic %v, numeric %v", name, alap, nlap)
	}
	fmt.Printf("%s: Laplacian %v (numeric %v)\n", name, alap, nlap)
}

func checkLogDerivatives(Te *testing.T, name string, wf mole.Optimizable, cfg *v3.Matrix) {
	Te.Helper()
	const h = 1e-6
	npar := wf.NParameters()
	ana := make([]float64, npar)
	if err := wf.LogDerivatives(ana, cfg); err != nil {
		Te.Fatalf("%s: LogDerivatives failed: %v", name, err)
	}
	p0 := append([]float64(nil), wf.Parameters()...)
	for k := 0; k < npar; k++ {
		p := append([]float64(nil), p0...)
		p[k] = p0[k] + h
		if err := wf.SetParameters(p); err != nil {
			Te.Fatalf("%s: SetParameters failed: %v", name, err)
		}
		vp, err := wf.Value(cfg)
		if err != nil {
			Te.Fatalf("%s: Value failed during differencing: %v", name, err)
		}
		p[k] = p0[k] - h
		if err := wf.SetParameters(p); err != nil {
			Te.Fatalf("%s: SetParameters failed: %v", name, err)
		}
		vm, err := wf.Value(cfg)
		if err != nil {
			Te.Fatalf("%s: Value failed during differencing: %v", name, err)
		}
		if err := wf.SetParameters(p0); err != nil {
			Te.Fatalf("%s: SetParameters failed: %v", name, err)
		}
		num := (math.Log(math.Abs(vp)) - math.Log(math.Abs(vm))) / (2 * h)
		if math.Abs(ana[k]-num) > 1e-4*(1+math.Abs(ana[k])) {
			Te.Errorf("%s: log-derivative %d analytic %v, numeric %v", name, k, ana[k], num)
		}
	}
}

func TestGaussianDerivatives(Te *testing.T) {
	wf, err := NewGaussian(2, 1.3)
	if err != nil {
		Te.Fatal(err)
	}
	cfg := testConfig(Te, 0.4, -0.7, 0.2, -0.3, 0.5, 1.1)
	checkDerivatives(Te, "Gaussian", wf, cfg)
	checkLogDerivatives(Te, "Gaussian", wf, cfg)
}

func TestHydrogenicDerivatives(Te *testing.T) {
	wf, err := NewHydrogenic(2, 1.2)
	if err != nil {
		Te.Fatal(err)
	}
	cfg := testConfig(Te, 0.8, -0.3, 0.6, -1.1, 0.4, 0.2)
	checkDerivatives(Te, "Hydrogenic", wf, cfg)
	checkLogDerivatives(Te, "Hydrogenic", wf, cfg)
}

func TestHarmonicGroundDerivatives(Te *testing.T) {
	wf, err := NewHarmonicGround(2, 0.8)
	if err != nil {
		Te.Fatal(err)
	}
	cfg := testConfig(Te, 0.4, 1.2, -0.5, 0.9, -0.2, 0.3)
	checkDerivatives(Te, "HarmonicGround", wf, cfg)
	checkLogDerivatives(Te, "HarmonicGround", wf, cfg)
}

func TestJastrowDerivatives(Te *testing.T) {
	wf, err := NewJastrow(3, 0.5, 1.2)
	if err != nil {
		Te.Fatal(err)
	}
	cfg := testConfig(Te, 0.4, -0.7, 0.2, -0.3, 0.5, 1.1, 1.2, 0.1, -0.6)
	checkDerivatives(Te, "Jastrow", wf, cfg)
	checkLogDerivatives(Te, "Jastrow", wf, cfg)
}

func TestSlaterDeterminantDerivatives(Te *testing.T) {
	det, err := NewSlaterDeterminant(
		STO{Zeta: 1.0, Center: [3]float64{0.7, 0, 0}},
		STO{Zeta: 1.3, Center: [3]float64{-0.7, 0, 0}},
	)
	if err != nil {
		Te.Fatal(err)
	}
	cfg := testConfig(Te, 0.5, 0.3, -0.2, -0.4, -0.6, 0.3)
	checkDerivatives(Te, "SlaterDeterminant", det, cfg)
}

func TestSlaterJastrowDerivatives(Te *testing.T) {
	det, err := NewSlaterDeterminant(
		STO{Zeta: 1.0, Center: [3]float64{0.7, 0, 0}},
		STO{Zeta: 1.3, Center: [3]float64{-0.7, 0, 0}},
	)
	if err != nil {
		Te.Fatal(err)
	}
	jas, err := NewJastrow(2, 0.5, 1.0)
	if err != nil {
		Te.Fatal(err)
	}
	wf, err := NewSlaterJastrow(det, jas)
	if err != nil {
		Te.Fatal(err)
	}
	cfg := testConfig(Te, 0.5, 0.3, -0.2, -0.4, -0.6, 0.3)
	checkDerivatives(Te, "SlaterJastrow", wf, cfg)
}

//TestSlaterAntisymmetry: swapping two particles must flip the sign of
//the determinant and leave its magnitude unchanged.
func TestSlaterAntisymmetry(Te *testing.T) {
	det, err := NewSlaterDeterminant(
		STO{Zeta: 1.0, Center: [3]float64{0.7, 0, 0}},
		STO{Zeta: 1.3, Center: [3]float64{-0.7, 0, 0}},
	)
	if err != nil {
		Te.Fatal(err)
	}
	a := testConfig(Te, 0.5, 0.3, -0.2, -0.4, -0.6, 0.3)
	b := testConfig(Te, -0.4, -0.6, 0.3, 0.5, 0.3, -0.2)
	va, err := det.Value(a)
	if err != nil {
		Te.Fatal(err)
	}
	vb, err := det.Value(b)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(va+vb) > 1e-12*math.Abs(va) {
		Te.Errorf("determinant not antisymmetric: %v vs %v", va, vb)
	}
	if va == 0 {
		Te.Error("determinant vanished at a generic configuration")
	}
}

//TestParameterValidation exercises the constructor and setter checks.
func TestParameterValidation(Te *testing.T) {
	if _, err := NewGaussian(0, 1); err == nil {
		Te.Error("NewGaussian accepted zero particles")
	}
	if _, err := NewGaussian(1, -1); err == nil {
		Te.Error("NewGaussian accepted a negative width")
	}
	if _, err := NewHydrogenic(1, 0); err == nil {
		Te.Error("NewHydrogenic accepted a zero charge")
	}
	if _, err := NewHarmonicGround(1, -2); err == nil {
		Te.Error("NewHarmonicGround accepted a negative frequency")
	}
	if _, err := NewJastrow(2, 0.5, 0); err == nil {
		Te.Error("NewJastrow accepted a zero denominator parameter")
	}
	g, _ := NewGaussian(1, 1)
	if err := g.SetParameters([]float64{1, 2}); err == nil {
		Te.Error("SetParameters accepted the wrong parameter count")
	}
	if err := g.SetParameters([]float64{-1}); err == nil {
		Te.Error("SetParameters accepted a negative width")
	}
}

//TestHydrogenicAtNucleus: derivative evaluation on top of the nucleus
//must fail cleanly, not return garbage.
func TestHydrogenicAtNucleus(Te *testing.T) {
	wf, _ := NewHydrogenic(1, 1)
	cfg := testConfig(Te, 0, 0, 0)
	g := v3.Zeros(1)
	if err := wf.Gradient(g, cfg); err == nil {
		Te.Error("Gradient did not report the singularity at the nucleus")
	}
	if _, err := wf.Laplacian(cfg); err == nil {
		Te.Error("Laplacian did not report the singularity at the nucleus")
	}
}
