// Package intensity computes infrared intensities of phonon modes.
//
// The dipole derivative of a mode is the sum over atoms of the atom's Born
// effective-charge tensor applied to its eigendisplacement. The intensity is
// the squared Euclidean norm of that vector times a uniform scale factor.
// Degenerate modes are merged into one [Peak] whose intensity is the sum of
// its members and whose frequency is their mean.
//
// # Usage
//
//	disps, _ := phonon.Eigendisplacements(modes, masses)
//	res, err := intensity.Calculate(phonon.Frequencies(modes), disps, born, intensity.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	for _, p := range res.Peaks {
//		fmt.Println(p.Frequency, p.Intensity)
//	}
//
// Dipole derivatives obtained by finite differences of externally computed
// dipoles (see [FromDipoles]) enter through [CalculateFromDerivatives].
package intensity
