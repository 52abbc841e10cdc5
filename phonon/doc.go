// Package phonon holds the shared data model for vibrational post-processing:
// crystal or molecular structures, phonon modes at the zone centre, atomic
// masses, Born effective-charge tensors and irreducible-representation labels.
//
// It also implements the conversion from mass-weighted phonon eigenvectors to
// real-space eigendisplacements:
//
//	u[i][a] = e[i][a] / sqrt(m[i])
//
// No renormalisation is applied by the conversion. Consumers that need a
// particular magnitude (for example displacement generation, which uses one
// unit of Euclidean norm per mode) rescale the result themselves.
//
// # Usage
//
//	disps, err := phonon.Eigendisplacements(modes, masses)
//	groups, err := phonon.GroupDegenerate(freqs, irreps, 1e-2, nil)
//
// All functions are pure and safe for concurrent use.
package phonon
