package moleplot

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnergyTrace(Te *testing.T) {
	dir := Te.TempDir()
	energies := []float64{-0.48, -0.49, -0.5, -0.501, -0.499}
	errors := []float64{0.01, 0.008, 0.006, 0.005, 0.005}
	name := filepath.Join(dir, "energy")
	if err := EnergyTrace(energies, errors, -0.5, "hydrogen projection", name); err != nil {
		Te.Fatalf("EnergyTrace failed: %v", err)
	}
	fi, err := os.Stat(name + ".png")
	if err != nil {
		Te.Fatalf("no plot file written: %v", err)
	}
	if fi.Size() == 0 {
		Te.Error("plot file is empty")
	}
	if err := EnergyTrace(energies, errors[:2], -0.5, "bad", name); err == nil {
		Te.Error("mismatched trace lengths were accepted")
	}
	if err := EnergyTrace(nil, nil, 0, "empty", name); err == nil {
		Te.Error("an empty trace was accepted")
	}
}

func TestPopulationTrace(Te *testing.T) {
	dir := Te.TempDir()
	sizes := []int{100, 104, 98, 97, 101, 100}
	name := filepath.Join(dir, "population")
	if err := PopulationTrace(sizes, 100, "feedback control", name); err != nil {
		Te.Fatalf("PopulationTrace failed: %v", err)
	}
	if _, err := os.Stat(name + ".png"); err != nil {
		Te.Fatalf("no plot file written: %v", err)
	}
	if err := PopulationTrace(nil, 100, "empty", name); err == nil {
		Te.Error("an empty trace was accepted")
	}
}
