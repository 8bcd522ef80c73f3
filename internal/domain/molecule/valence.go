package molecule

// ImplicitHydrogens infers the hydrogens attached to an unbracketed atom from
// its standard valence and the sum of its incident bond orders. Aromatic atoms
// give up one valence to the delocalized ring. Elements without a standard
// valence get none.
func ImplicitHydrogens(element string, aromatic bool, bondOrderSum int) int {
	valence, ok := standardValence[element]
	if !ok {
		return 0
	}
	if aromatic {
		valence--
	}
	if h := valence - bondOrderSum; h > 0 {
		return h
	}
	return 0
}

//Personal.AI order the ending
