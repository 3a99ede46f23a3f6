package matching

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// maxFeatures caps the vocabulary at the most frequent terms.
const maxFeatures = 500

// maxDocFreqRatio drops terms present in nearly every document. The cutoff
// only applies to corpora of more than two documents: with exactly two, any
// shared term exceeds it, which would strip precisely the overlap the
// similarity is supposed to measure.
const maxDocFreqRatio = 0.95

// ErrEmptyVocabulary is returned when no term survives tokenization and
// pruning.
var ErrEmptyVocabulary = errors.New("tfidf: empty vocabulary")

// tokenRe keeps word characters only and requires at least two of them, so
// one-letter noise never becomes a feature.
var tokenRe = regexp.MustCompile(`\b\w\w+\b`)

// Vectorizer turns short documents into L2-normalized TF-IDF vectors over a
// unigram+bigram vocabulary fitted per call.
type Vectorizer struct{}

// FitTransform builds the vocabulary from docs and returns one weighted,
// normalized vector per document. Vectors from the same call share a
// vocabulary and can be compared with Cosine.
func (v *Vectorizer) FitTransform(docs []string) ([][]float64, error) {
	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		tokenized[i] = ngrams(tokenize(doc))
	}

	// Document frequency per term.
	df := make(map[string]int)
	tf := make([]map[string]int, len(docs))
	for i, terms := range tokenized {
		tf[i] = make(map[string]int)
		for _, t := range terms {
			tf[i][t]++
		}
		for t := range tf[i] {
			df[t]++
		}
	}

	vocab := buildVocabulary(df, tf, len(docs))
	if len(vocab) == 0 {
		return nil, ErrEmptyVocabulary
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vectors := make([][]float64, len(docs))
	for i := range docs {
		vec := make([]float64, len(vocab))
		for term, count := range tf[i] {
			if j, ok := index[term]; ok {
				vec[j] = float64(count) * idf[j]
			}
		}
		normalize(vec)
		vectors[i] = vec
	}
	return vectors, nil
}

// buildVocabulary applies the document-frequency cutoff and the feature cap,
// keeping the most frequent terms and breaking ties alphabetically.
func buildVocabulary(df map[string]int, tf []map[string]int, nDocs int) []string {
	counts := make(map[string]int)
	for _, doc := range tf {
		for term, c := range doc {
			counts[term] += c
		}
	}

	var terms []string
	for term := range df {
		if nDocs > 2 && float64(df[term]) > maxDocFreqRatio*float64(nDocs) {
			continue
		}
		terms = append(terms, term)
	}

	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)
	return terms
}

func tokenize(doc string) []string {
	var out []string
	for _, tok := range tokenRe.FindAllString(strings.ToLower(doc), -1) {
		if stopWords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// ngrams returns the unigrams plus adjacent bigrams of a token sequence.
// Stop words are already removed, so bigrams bridge them the way a bag of
// words would.
func ngrams(tokens []string) []string {
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func normalize(vec []float64) {
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

// Cosine is the cosine similarity of two vectors from the same FitTransform
// call. Inputs are already L2-normalized, so this is a plain dot product.
func Cosine(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}
