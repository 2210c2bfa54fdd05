package speech

import (
	"regexp"
	"strings"
)

// Voice describes one voice the client's speech engine reported.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// Utterance language is forced to English regardless of the chosen voice, to
// bias pronunciation toward en-US dictation even on ambiguous voices.
const UtteranceLang = "en-US"

// Preference order for voice names. Cloud-backed and neural voices sound far
// better for dictation than the default local ones.
var voicePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)google`),
	regexp.MustCompile(`(?i)neural`),
	regexp.MustCompile(`(?i)microsoft.*online`),
	regexp.MustCompile(`(?i)natural`),
	regexp.MustCompile(`(?i)enhanced`),
}

// SelectVoice picks the best dictation voice from an explicit list: the
// first English voice matching a preferred name pattern, else the first
// English voice, else the first voice of any language. Returns false only
// for an empty list.
func SelectVoice(voices []Voice) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}

	for _, pattern := range voicePatterns {
		for _, v := range voices {
			if isEnglish(v) && pattern.MatchString(v.Name) {
				return v, true
			}
		}
	}
	for _, v := range voices {
		if isEnglish(v) {
			return v, true
		}
	}
	return voices[0], true
}

func isEnglish(v Voice) bool {
	return strings.HasPrefix(strings.ToLower(v.Lang), "en")
}
