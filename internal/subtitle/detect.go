package subtitle

import (
	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// DetectLanguage guesses the dominant language of the records by majority
// vote over per-line detection.
func DetectLanguage(records []Record) language.Tag {
	if len(records) == 0 {
		return language.Und
	}

	langMap := make(map[string]int)
	for _, rec := range records {
		lang := whatlanggo.DetectLang(rec.Text).Iso6391()
		langMap[lang]++
	}

	var topLang string
	var topCount int
	for lang, count := range langMap {
		if count > topCount {
			topLang = lang
			topCount = count
		}
	}

	return language.All.Make(topLang)
}
