// Package ner provides named-entity recognition as a pluggable capability.
// The heuristic layer in extraction only needs PERSON and ORG spans, so the
// interface is deliberately small; a real NLP backend can be swapped in
// without touching the extractors.
package ner

// Label classifies an entity span.
type Label string

const (
	Person Label = "PERSON"
	Org    Label = "ORG"
)

// Entity is a labeled span of the input text.
type Entity struct {
	Text  string
	Label Label
	Start int
	End   int
}

// Recognizer finds named entities in text. Implementations must be safe for
// concurrent use; Recognize is pure with respect to its input.
type Recognizer interface {
	Recognize(text string) []Entity
}
