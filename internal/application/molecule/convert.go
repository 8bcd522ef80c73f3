package molecule

import (
	"github.com/turtacn/molgraph/internal/domain/druglike"
	domainMol "github.com/turtacn/molgraph/internal/domain/molecule"
	apperrors "github.com/turtacn/molgraph/pkg/errors"
	"github.com/turtacn/molgraph/pkg/types/common"
	moltypes "github.com/turtacn/molgraph/pkg/types/molecule"
)

// BuildAnalysis assembles the full analysis of m.
func BuildAnalysis(m *domainMol.Molecule, fp *domainMol.Fingerprint) *moltypes.AnalysisDTO {
	ds := domainMol.ComputeDescriptors(m)
	report := druglike.Evaluate(ds)
	return &moltypes.AnalysisDTO{
		SMILES:       m.SMILES(),
		Molecule:     ToMoleculeDTO(m),
		Descriptors:  ToDescriptorsDTO(ds),
		Fingerprint:  ToFingerprintDTO(fp),
		DrugLikeness: ToDrugLikenessDTO(report),
	}
}

func ToMoleculeDTO(m *domainMol.Molecule) *moltypes.MoleculeDTO {
	atoms := m.Atoms()
	dto := &moltypes.MoleculeDTO{
		SMILES:       m.SMILES(),
		Atoms:        make([]moltypes.AtomDTO, len(atoms)),
		Bonds:        make([]moltypes.BondDTO, 0, m.BondCount()),
		RingClosures: m.RingClosureCount(),
	}
	for i, a := range atoms {
		dto.Atoms[i] = moltypes.AtomDTO{
			Index:     a.Index,
			Element:   a.Element,
			Aromatic:  a.Aromatic,
			Bracket:   a.Bracket,
			Charge:    a.Charge,
			Isotope:   a.Isotope,
			Chirality: a.Chirality,
			Hydrogens: m.HydrogenCount(i),
			Resolved:  a.Resolved,
		}
	}
	for _, b := range m.Bonds() {
		dto.Bonds = append(dto.Bonds, moltypes.BondDTO{
			From:        b.From,
			To:          b.To,
			Order:       b.Order,
			Aromatic:    b.Aromatic,
			RingClosure: b.RingClosure,
		})
	}
	return dto
}

func ToDescriptorsDTO(ds *domainMol.DescriptorSet) moltypes.DescriptorsDTO {
	return moltypes.DescriptorsDTO{
		Formula:         ds.Formula,
		AtomCounts:      ds.AtomCounts,
		MolecularWeight: ds.MolecularWeight,
		HeavyAtoms:      ds.HeavyAtoms,
		Bonds: moltypes.BondCountsDTO{
			Single:   ds.Bonds.Single,
			Double:   ds.Bonds.Double,
			Triple:   ds.Bonds.Triple,
			Aromatic: ds.Bonds.Aromatic,
		},
		RingClosures:    ds.RingClosures,
		RingCount:       ds.RingCount,
		Fragments:       ds.Fragments,
		HBondDonors:     ds.HBondDonors,
		HBondAcceptors:  ds.HBondAcceptors,
		RotatableBonds:  ds.RotatableBonds,
		TPSA:            ds.TPSA,
		LogP:            ds.LogP,
		AromaticAtoms:   ds.AromaticAtoms,
		UnresolvedAtoms: ds.UnresolvedAtoms,
	}
}

func ToFingerprintDTO(fp *domainMol.Fingerprint) *moltypes.FingerprintDTO {
	return &moltypes.FingerprintDTO{
		Type:   string(fp.Type()),
		Radius: fp.Radius(),
		Length: fp.Length(),
		OnBits: fp.NumOnBits(),
		Bits:   fp.ToBits(),
	}
}

// FingerprintFromDTO rebuilds a fingerprint from its 0/1 array.
func FingerprintFromDTO(dto *moltypes.FingerprintDTO) (*domainMol.Fingerprint, error) {
	if dto == nil || len(dto.Bits) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeFingerprintGenerationFailed, "analysis carries no fingerprint")
	}
	if dto.Length != len(dto.Bits) {
		return nil, apperrors.Newf(apperrors.ErrCodeFingerprintLengthMismatch,
			"fingerprint declares %d bits but carries %d", dto.Length, len(dto.Bits))
	}
	return domainMol.FingerprintFromBits(domainMol.FingerprintType(dto.Type), dto.Bits), nil
}

func ToDrugLikenessDTO(r druglike.Report) *moltypes.DrugLikenessDTO {
	dto := &moltypes.DrugLikenessDTO{
		Lipinski:           r.Lipinski,
		LipinskiViolations: r.LipinskiViolations,
		Veber:              r.Veber,
	}
	for _, v := range r.Violations {
		dto.Violations = append(dto.Violations, v.String())
	}
	return dto
}

func ToNeighborDTO(n domainMol.Neighbor) moltypes.NeighborDTO {
	return moltypes.NeighborDTO{ID: n.ID, Name: n.Name, SMILES: n.SMILES, Similarity: n.Similarity, Rank: n.Rank}
}

func ToCompoundDTO(e *domainMol.LibraryEntry) *moltypes.CompoundDTO {
	return &moltypes.CompoundDTO{
		ID:              common.ID(e.ID),
		Name:            e.Name,
		SMILES:          e.SMILES,
		Formula:         e.Formula,
		MolecularWeight: e.Weight,
		CreatedAt:       common.Timestamp(e.CreatedAt),
	}
}

//Personal.AI order the ending
