package ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entitiesByLabel(entities []Entity, label Label) []string {
	var out []string
	for _, e := range entities {
		if e.Label == label {
			out = append(out, e.Text)
		}
	}
	return out
}

func TestHeuristic_RecognizesOrganizations(t *testing.T) {
	h := NewHeuristic()
	entities := h.Recognize("Worked at Initech Technologies and studied at University of Hartfield in 2015")

	orgs := entitiesByLabel(entities, Org)
	assert.Contains(t, orgs, "Initech Technologies")
	assert.Contains(t, orgs, "University of Hartfield")
}

func TestHeuristic_RecognizesPeople(t *testing.T) {
	h := NewHeuristic()
	entities := h.Recognize("Maria Garcia joined the team in spring.")

	assert.Contains(t, entitiesByLabel(entities, Person), "Maria Garcia")
}

func TestHeuristic_SkipsHeaderWords(t *testing.T) {
	h := NewHeuristic()
	entities := h.Recognize("Professional Summary\nWork Experience")

	assert.Empty(t, entitiesByLabel(entities, Person))
}

func TestHeuristic_SpansPointIntoText(t *testing.T) {
	text := "contact Maria Garcia today"
	h := NewHeuristic()
	entities := h.Recognize(text)

	require.NotEmpty(t, entities)
	for _, e := range entities {
		assert.Equal(t, e.Text, text[e.Start:e.End])
	}
}

func TestFake_ReportsEachOccurrence(t *testing.T) {
	f := &Fake{People: []string{"Jane Doe"}, Orgs: []string{"Acme"}}
	entities := f.Recognize("Jane Doe worked at Acme. Acme valued Jane Doe.")

	assert.Len(t, entitiesByLabel(entities, Person), 2)
	assert.Len(t, entitiesByLabel(entities, Org), 2)
}

func TestFake_IgnoresAbsentNeedles(t *testing.T) {
	f := &Fake{People: []string{"Jane Doe"}}
	assert.Empty(t, f.Recognize("nobody here"))
}
