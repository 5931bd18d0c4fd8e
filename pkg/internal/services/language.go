package services

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

type LanguageDetector interface {
	DetectLanguage(content string) string
}

type linguaDetector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// NewLanguageDetector returns a detector whose language models load on first use.
func NewLanguageDetector() LanguageDetector {
	return &linguaDetector{}
}

// DetectLanguage returns the lowercase ISO 639-1 code of the content, or an
// empty string when it cannot tell.
func (v *linguaDetector) DetectLanguage(content string) string {
	v.once.Do(func() {
		v.detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithLowAccuracyMode().
			Build()
	})

	if language, ok := v.detector.DetectLanguageOf(content); ok {
		return strings.ToLower(language.IsoCode639_1().String())
	}
	return ""
}
