package textproc

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SlangDict maps informal or abbreviated Vietnamese tokens to their
// canonical full form. Lookup is exact-match, case-sensitive, whole-token
// only; the input is expected to be normalized (lowercased) already.
type SlangDict map[string]string

// DefaultSlangDict returns the built-in correction dictionary.
func DefaultSlangDict() SlangDict {
	return SlangDict{
		"buon":  "buồn",
		"chan":  "chán",
		"the":   "thế",
		"nhi":   "nhỉ",
		"nhieu": "nhiều",
		"th":    "thôi",
		"toi":   "tôi",
		"ban":   "bạn",
		"hom":   "hôm",
		"rat":   "rất",
		"dk":    "được",
		"dc":    "được",
		"k":     "không",
		"ko":    "không",
		"hok":   "không",
		"bt":    "bình thường",
		"bth":   "bình thường",
		"vs":    "với",
		"mik":   "mình",
		"mn":    "mọi người",
		"j":     "gì",
		"hum":   "hôm",
		"hqa":   "hôm qua",
		"iu":    "yêu",
		"vk":    "vợ",
		"ck":    "chồng",
	}
}

// LoadSlangDict returns the built-in dictionary, optionally overlaid with
// entries from a YAML file (a flat string-to-string mapping). Entries in
// the file win over built-ins for the same token.
func LoadSlangDict(path string) (SlangDict, error) {
	dict := DefaultSlangDict()
	if path == "" {
		return dict, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read slang dict: %w", err)
	}
	var overlay map[string]string
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse slang dict yaml: %w", err)
	}
	for from, to := range overlay {
		from = strings.TrimSpace(from)
		to = strings.TrimSpace(to)
		if from == "" || to == "" {
			continue
		}
		dict[from] = to
	}
	return dict, nil
}

// Correct replaces each whitespace-delimited token that has a dictionary
// entry with its canonical form and rejoins with single spaces. Unmapped
// tokens pass through unchanged.
func (d SlangDict) Correct(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		if full, ok := d[w]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}
