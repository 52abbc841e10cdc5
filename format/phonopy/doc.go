// Package phonopy reads phonopy YAML output, the Born charge documents
// written by irspec and the dipole documents consumed by postproc --dipoles.
//
// [Read] accepts band.yaml, mesh.yaml and qpoints.yaml written with
// eigenvectors and takes the modes at the Gamma point. Frequencies are
// converted to cm^-1. [ReadIrreps] reads irreps.yaml from phonopy --irreps.
//
// # Usage
//
//	data, err := phonopy.ReadFile("mesh.yaml", phonopy.THz)
//	if err != nil {
//		return err
//	}
//	disps, err := phonon.Eigendisplacements(data.Modes, data.Masses)
package phonopy
