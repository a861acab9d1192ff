package triage

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// SentimentAnalyzer scores text polarity in [-1, 1]. Implementations must be
// deterministic for a given text and lexicon/model version.
type SentimentAnalyzer interface {
	Polarity(text string) float64
}

// SentimentFunc adapts a plain function to SentimentAnalyzer.
type SentimentFunc func(text string) float64

func (f SentimentFunc) Polarity(text string) float64 { return f(text) }

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// negation flips a word's polarity and damps it.
const negationFactor = -0.5

// negationWindow is how many tokens a negator stays active for.
const negationWindow = 3

// Lexicon is the word list backing LexiconAnalyzer.
type Lexicon struct {
	Version      string             `yaml:"version"`
	Words        map[string]float64 `yaml:"words"`
	Negators     []string           `yaml:"negators"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
}

// DefaultLexicon returns the lexicon bundled with the binary.
func DefaultLexicon() (*Lexicon, error) {
	return LoadLexicon(bytes.NewReader(defaultLexiconYAML))
}

// LoadLexiconFile reads a lexicon from a YAML file.
func LoadLexiconFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()
	return LoadLexicon(f)
}

// LoadAnalyzer builds a LexiconAnalyzer from the YAML file at path, or from the bundled
// lexicon when path is empty.
func LoadAnalyzer(path string) (*LexiconAnalyzer, error) {
	var (
		lex *Lexicon
		err error
	)
	if path == "" {
		lex, err = DefaultLexicon()
	} else {
		lex, err = LoadLexiconFile(path)
	}
	if err != nil {
		return nil, err
	}
	return NewLexiconAnalyzer(lex), nil
}

// LoadLexicon decodes and validates a YAML lexicon.
func LoadLexicon(r io.Reader) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.NewDecoder(r).Decode(&lex); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	if strings.TrimSpace(lex.Version) == "" {
		return nil, errors.New("lexicon version required")
	}
	for word, score := range lex.Words {
		if score < -1 || score > 1 {
			return nil, fmt.Errorf("lexicon word %q: score %v outside [-1, 1]", word, score)
		}
	}
	return &lex, nil
}

// LexiconAnalyzer is a word-level polarity scorer with negation and intensifier handling.
// It is read-only after construction and safe for concurrent use.
type LexiconAnalyzer struct {
	version      string
	words        map[string]float64
	negators     map[string]struct{}
	intensifiers map[string]float64
}

// NewLexiconAnalyzer builds an analyzer over lex. Keys are lowercased.
func NewLexiconAnalyzer(lex *Lexicon) *LexiconAnalyzer {
	a := &LexiconAnalyzer{
		version:      lex.Version,
		words:        make(map[string]float64, len(lex.Words)),
		negators:     make(map[string]struct{}, len(lex.Negators)),
		intensifiers: make(map[string]float64, len(lex.Intensifiers)),
	}
	for w, s := range lex.Words {
		a.words[strings.ToLower(w)] = s
	}
	for _, n := range lex.Negators {
		a.negators[strings.ToLower(n)] = struct{}{}
	}
	for w, m := range lex.Intensifiers {
		a.intensifiers[strings.ToLower(w)] = m
	}
	return a
}

// Version identifies the lexicon the analyzer was built from.
func (a *LexiconAnalyzer) Version() string {
	return a.version
}

// Polarity returns the mean score of the lexicon words found in text, clamped to [-1, 1].
// Text without any scored word is neutral. Negation and intensifiers never reach past
// clause punctuation, and an intensifier only applies to the word right after it.
func (a *LexiconAnalyzer) Polarity(text string) float64 {
	var (
		sum    float64
		scored int
	)
	for _, clause := range strings.FieldsFunc(strings.ToLower(text), isClauseBreak) {
		negateFor := 0
		boost := 1.0
		for _, tok := range tokenize(clause) {
			if _, ok := a.negators[tok]; ok {
				negateFor = negationWindow
				continue
			}
			if m, ok := a.intensifiers[tok]; ok {
				boost *= m
				continue
			}
			score, ok := a.words[tok]
			if !ok {
				if negateFor > 0 {
					negateFor--
				}
				boost = 1.0
				continue
			}
			score *= boost
			if negateFor > 0 {
				score *= negationFactor
			}
			sum += clamp(score)
			scored++
			negateFor = 0
			boost = 1.0
		}
	}
	if scored == 0 {
		return 0
	}
	return clamp(sum / float64(scored))
}

func isClauseBreak(r rune) bool {
	switch r {
	case '.', ',', ';', '!', '?':
		return true
	}
	return false
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func clamp(v float64) float64 {
	switch {
	case v < -1:
		return -1
	case v > 1:
		return 1
	}
	return v
}
