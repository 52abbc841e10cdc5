// Package core provides small numeric helpers shared by the dsp packages:
// tolerant comparison, uniform frequency grids and buffer filling.
package core
