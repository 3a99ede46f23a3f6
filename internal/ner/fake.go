package ner

import "strings"

// Fake is a Recognizer for tests: it returns canned entities whose spans are
// resolved against the input text at call time.
type Fake struct {
	People []string
	Orgs   []string
}

// Recognize implements Recognizer. Each configured entity is reported once
// per occurrence in the text, in input order.
func (f *Fake) Recognize(text string) []Entity {
	var entities []Entity
	entities = append(entities, occurrences(text, f.People, Person)...)
	entities = append(entities, occurrences(text, f.Orgs, Org)...)
	return entities
}

func occurrences(text string, needles []string, label Label) []Entity {
	var out []Entity
	for _, needle := range needles {
		if needle == "" {
			continue
		}
		offset := 0
		for {
			i := strings.Index(text[offset:], needle)
			if i < 0 {
				break
			}
			start := offset + i
			out = append(out, Entity{
				Text:  needle,
				Label: label,
				Start: start,
				End:   start + len(needle),
			})
			offset = start + len(needle)
		}
	}
	return out
}
