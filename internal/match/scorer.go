package match

import (
	"github.com/sells-group/dataquality-cli/internal/model"
	"github.com/sells-group/dataquality-cli/internal/refdata"
)

// Per-field gates and combination weights for accepting a candidate as
// the same entity.
const (
	NameThreshold = 80.0
	AddrThreshold = 80.0
	CityThreshold = 70.0

	nameWeight = 0.45
	addrWeight = 0.45
	cityWeight = 0.10
)

// Best scores every candidate against the record and returns the one
// with the highest combined score among those clearing all three
// per-field thresholds. Ties keep the earliest candidate. When nothing
// clears, MatchedID is zero and MatchedExternalID falls back to the
// record's own external identifier.
func Best(rec model.InputRecord, finalAddress string, candidates []model.Candidate) model.MatchResult {
	tName := refdata.Collapse(rec.Name)
	tAddr := refdata.Collapse(finalAddress)
	tCity := refdata.Collapse(rec.City)

	bestScore := -1.0
	var best *model.Candidate

	for i := range candidates {
		c := &candidates[i]
		nameSim := Similarity(tName, refdata.Collapse(c.Name))
		addrSim := Similarity(tAddr, refdata.Collapse(c.Address))
		citySim := Similarity(tCity, refdata.Collapse(c.City))

		if nameSim < NameThreshold || addrSim < AddrThreshold || citySim < CityThreshold {
			continue
		}

		combined := nameSim*nameWeight + addrSim*addrWeight + citySim*cityWeight
		if combined > bestScore {
			bestScore = combined
			best = c
		}
	}

	if best == nil {
		return model.MatchResult{MatchedExternalID: rec.ExternalID}
	}

	externalID := best.ExternalID
	if externalID == "" {
		externalID = rec.ExternalID
	}
	return model.MatchResult{
		MatchedID:         best.ID,
		MatchedExternalID: externalID,
		Score:             bestScore,
	}
}
