package domain

import (
	"sort"

	"github.com/google/uuid"
)

// Tally is the ranked vote count of every position. It is derived from the
// ballot table on demand and never stored.
type Tally []PositionTally

type PositionTally struct {
	PositionID   uuid.UUID        `json:"id"`
	PositionName string           `json:"name"`
	Candidates   []CandidateTally `json:"candidates"`
}

type CandidateTally struct {
	CandidateID uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Votes       int64     `json:"votes"`
}

// Position returns the entry for id, if the tally has one.
func (t Tally) Position(id uuid.UUID) (PositionTally, bool) {
	for _, p := range t {
		if p.PositionID == id {
			return p, true
		}
	}
	return PositionTally{}, false
}

// BuildTally joins grouped vote counts with the catalog and ranks them.
//
// Positions are ordered by name, candidates by votes descending with name and
// then id as tie-breaks. Counts whose candidate or position is missing from
// the catalog, or whose candidate belongs to another position, are dropped.
// When includeZero is set every catalog candidate is listed, otherwise only
// candidates with at least one vote appear.
func BuildTally(counts []VoteCount, positions []Position, candidates []Candidate, includeZero bool) Tally {
	byPosition := make(map[uuid.UUID]*PositionTally, len(positions))
	tally := make(Tally, 0, len(positions))
	for _, p := range positions {
		tally = append(tally, PositionTally{
			PositionID:   p.ID,
			PositionName: p.Name,
			Candidates:   []CandidateTally{},
		})
	}
	for i := range tally {
		byPosition[tally[i].PositionID] = &tally[i]
	}

	candidateByID := make(map[uuid.UUID]Candidate, len(candidates))
	for _, c := range candidates {
		candidateByID[c.ID] = c
	}

	seen := make(map[uuid.UUID]int)
	for _, vc := range counts {
		c, ok := candidateByID[vc.CandidateID]
		if !ok || c.PositionID != vc.PositionID {
			continue
		}
		pt, ok := byPosition[vc.PositionID]
		if !ok {
			continue
		}
		if idx, dup := seen[c.ID]; dup {
			pt.Candidates[idx].Votes += vc.Votes
			continue
		}
		seen[c.ID] = len(pt.Candidates)
		pt.Candidates = append(pt.Candidates, CandidateTally{
			CandidateID: c.ID,
			Name:        c.Name,
			Votes:       vc.Votes,
		})
	}

	if includeZero {
		for _, c := range candidates {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			pt, ok := byPosition[c.PositionID]
			if !ok {
				continue
			}
			pt.Candidates = append(pt.Candidates, CandidateTally{CandidateID: c.ID, Name: c.Name})
		}
	}

	for i := range tally {
		rankCandidates(tally[i].Candidates)
	}
	sort.SliceStable(tally, func(i, j int) bool {
		if tally[i].PositionName != tally[j].PositionName {
			return tally[i].PositionName < tally[j].PositionName
		}
		return tally[i].PositionID.String() < tally[j].PositionID.String()
	})

	return tally
}

func rankCandidates(cs []CandidateTally) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Votes != cs[j].Votes {
			return cs[i].Votes > cs[j].Votes
		}
		if cs[i].Name != cs[j].Name {
			return cs[i].Name < cs[j].Name
		}
		return cs[i].CandidateID.String() < cs[j].CandidateID.String()
	})
}
