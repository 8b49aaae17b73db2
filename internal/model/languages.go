package model

import (
	"fmt"
	"sort"
)

// m2m100Languages lists the language codes M2M100 was trained on.
var m2m100Languages = map[string]bool{
	"af": true, "am": true, "ar": true, "ast": true, "az": true, "ba": true, "be": true, "bg": true,
	"bn": true, "br": true, "bs": true, "ca": true, "ceb": true, "cs": true, "cy": true, "da": true,
	"de": true, "el": true, "en": true, "es": true, "et": true, "fa": true, "ff": true, "fi": true,
	"fr": true, "fy": true, "ga": true, "gd": true, "gl": true, "gu": true, "ha": true, "he": true,
	"hi": true, "hr": true, "ht": true, "hu": true, "hy": true, "id": true, "ig": true, "ilo": true,
	"is": true, "it": true, "ja": true, "jv": true, "ka": true, "kk": true, "km": true, "kn": true,
	"ko": true, "lb": true, "lg": true, "ln": true, "lo": true, "lt": true, "lv": true, "mg": true,
	"mk": true, "ml": true, "mn": true, "mr": true, "ms": true, "my": true, "ne": true, "nl": true,
	"no": true, "ns": true, "oc": true, "or": true, "pa": true, "pl": true, "ps": true, "pt": true,
	"ro": true, "ru": true, "sd": true, "si": true, "sk": true, "sl": true, "so": true, "sq": true,
	"sr": true, "ss": true, "su": true, "sv": true, "sw": true, "ta": true, "th": true, "tl": true,
	"tn": true, "tr": true, "uk": true, "ur": true, "uz": true, "vi": true, "wo": true, "xh": true,
	"yi": true, "yo": true, "zh": true, "zu": true,
}

// IsSupported reports whether lang is an M2M100 language code.
func IsSupported(lang string) bool {
	return m2m100Languages[lang]
}

// Validate checks that the pair can be served.
func (p Pair) Validate() error {
	if p.Source == "" {
		return fmt.Errorf("source language is required")
	}
	if p.Target == "" {
		return fmt.Errorf("target language is required")
	}
	if p.Source == p.Target {
		return fmt.Errorf("source and target language must be different")
	}
	if !IsSupported(p.Source) {
		return fmt.Errorf("unsupported source language: %s", p.Source)
	}
	if !IsSupported(p.Target) {
		return fmt.Errorf("unsupported target language: %s", p.Target)
	}
	return nil
}

// SupportedLanguages returns all supported language codes, sorted.
func SupportedLanguages() []string {
	langs := make([]string, 0, len(m2m100Languages))
	for lang := range m2m100Languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
