// Package poscar reads and writes VASP 5 POSCAR structure files.
//
// Only periodic structures can be written. Atoms are grouped into species
// runs in their original order, so a structure whose species alternate keeps
// its atom ordering at the cost of repeated species entries.
package poscar
