package textproc

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Segmenter splits text into Vietnamese word units. A returned token may
// contain internal spaces when it is a multi-syllable word; TokenizeText
// replaces those with underscores.
type Segmenter interface {
	Segment(text string) []string
}

// LexiconSegmenter segments by greedy longest-match against a lexicon of
// multi-syllable words. Syllables not starting any known compound are
// emitted as single-syllable tokens. Deterministic for a fixed lexicon.
type LexiconSegmenter struct {
	words        map[string]bool
	maxSyllables int
}

// defaultLexicon lists common multi-syllable Vietnamese words. Grouped
// loosely: sentiment-bearing words first, then everyday compounds.
var defaultLexicon = []string{
	"vui vẻ", "hạnh phúc", "tuyệt vời", "thích thú", "yêu thích",
	"dễ thương", "đáng yêu", "thoải mái", "dễ chịu", "hài lòng",
	"buồn bã", "thất vọng", "chán nản", "bực mình", "khó chịu",
	"tồi tệ", "kinh khủng", "tức giận", "mệt mỏi", "đau khổ",
	"bình thường", "cảm thấy", "cảm xúc", "tâm trạng",
	"hôm nay", "hôm qua", "ngày mai", "mọi người", "gia đình",
	"bạn bè", "công việc", "cuộc sống", "thời tiết", "học tập",
	"làm việc", "đi chơi", "ăn uống", "rất nhiều", "thật sự",
}

// NewLexiconSegmenter builds a segmenter from the built-in lexicon,
// optionally extended with entries from a YAML file (a list of strings).
func NewLexiconSegmenter(path string) (*LexiconSegmenter, error) {
	words := make(map[string]bool, len(defaultLexicon))
	maxSyllables := 1
	add := func(w string) {
		w = strings.TrimSpace(w)
		if w == "" {
			return
		}
		words[w] = true
		if n := len(strings.Fields(w)); n > maxSyllables {
			maxSyllables = n
		}
	}

	for _, w := range defaultLexicon {
		add(w)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read lexicon: %w", err)
		}
		var extra []string
		if err := yaml.Unmarshal(data, &extra); err != nil {
			return nil, fmt.Errorf("parse lexicon yaml: %w", err)
		}
		for _, w := range extra {
			add(w)
		}
	}

	return &LexiconSegmenter{words: words, maxSyllables: maxSyllables}, nil
}

// Segment splits text on whitespace into syllables and joins runs of
// syllables into word tokens by greedy longest-match against the lexicon.
func (s *LexiconSegmenter) Segment(text string) []string {
	syllables := strings.Fields(text)
	if len(syllables) == 0 {
		return nil
	}

	var tokens []string
	for i := 0; i < len(syllables); {
		matched := 1
		limit := s.maxSyllables
		if rest := len(syllables) - i; rest < limit {
			limit = rest
		}
		for n := limit; n >= 2; n-- {
			candidate := strings.Join(syllables[i:i+n], " ")
			if s.words[candidate] {
				matched = n
				break
			}
		}
		tokens = append(tokens, strings.Join(syllables[i:i+matched], " "))
		i += matched
	}
	return tokens
}

// TokenizeText segments text and renders the result as a single string:
// multi-syllable words joined internally with underscores, words separated
// by single spaces.
func TokenizeText(seg Segmenter, text string) string {
	tokens := seg.Segment(text)
	for i, tok := range tokens {
		tokens[i] = strings.ReplaceAll(tok, " ", "_")
	}
	return strings.Join(tokens, " ")
}
