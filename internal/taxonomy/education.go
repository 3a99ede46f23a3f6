package taxonomy

import (
	"strings"

	"github.com/mkarlsson/cvscreen/internal/types"
)

// degreeLevelKeywords maps degree-string keywords to profile levels, checked
// in order so "phd" wins over a stray "certificate" in the same string.
var degreeLevelKeywords = []struct {
	keyword string
	level   string
}{
	{"phd", types.LevelPhD},
	{"doctor", types.LevelPhD},
	{"master", types.LevelMasters},
	{"mba", types.LevelMasters},
	{"bachelor", types.LevelBachelors},
	{"undergraduate", types.LevelBachelors},
	{"associate", types.LevelAssociates},
	{"diploma", types.LevelDiploma},
	{"certificate", types.LevelCertificate},
}

// LevelForDegree maps a raw degree string ("B.Sc.", "Master of Arts") to a
// profile education level by keyword containment. Unrecognized degrees map
// to LevelOther.
func LevelForDegree(degree string) string {
	lower := strings.ToLower(degree)
	for _, entry := range degreeLevelKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.level
		}
	}
	return types.LevelOther
}

// educationRanks is the ordinal hierarchy the scoring engine compares
// against. Keys are matched by containment against free-text level or degree
// strings. Checked in order; more specific names come first.
var educationRanks = []struct {
	keyword string
	rank    int
}{
	{"high school", 1},
	{"diploma", 2},
	{"associate", 3},
	{"bachelor's", 4},
	{"bachelor", 4},
	{"master's", 5},
	{"master", 5},
	{"mba", 5},
	{"phd", 6},
	{"doctorate", 6},
}

// EducationRank converts a free-text education level or degree string to its
// ordinal (1-6). Returns 0 when the string matches nothing in the hierarchy.
func EducationRank(s string) int {
	if s == "" {
		return 0
	}
	lower := strings.ToLower(s)
	for _, entry := range educationRanks {
		if strings.Contains(lower, entry.keyword) {
			return entry.rank
		}
	}
	return 0
}
