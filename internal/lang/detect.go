// Package lang detects the language of incoming chat messages so the
// routing log can carry it. Only the languages the hotel's agents speak
// are considered.
package lang

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Unknown is returned when detection fails or confidence is too low.
const Unknown = "Unknown"

var supported = []lingua.Language{
	lingua.English,
	lingua.Chinese,
	lingua.Japanese,
}

// Detector wraps a lingua detector built once at startup; building is
// expensive, detection is not.
type Detector struct {
	inner lingua.LanguageDetector
}

func NewDetector() *Detector {
	return &Detector{
		inner: lingua.NewLanguageDetectorBuilder().
			FromLanguages(supported...).
			Build(),
	}
}

// DetectFromText returns the detected language name, or Unknown when
// the text is blank or the top candidate falls below threshold.
// A threshold of 0 accepts the top candidate unconditionally.
func (d *Detector) DetectFromText(text string, threshold float64) string {
	if strings.TrimSpace(text) == "" {
		return Unknown
	}

	if threshold <= 0 {
		if language, ok := d.inner.DetectLanguageOf(text); ok {
			return language.String()
		}
		return Unknown
	}

	values := d.inner.ComputeLanguageConfidenceValues(text)
	if len(values) == 0 {
		return Unknown
	}
	top := values[0]
	for _, v := range values[1:] {
		if v.Value() > top.Value() {
			top = v
		}
	}
	if top.Value() < threshold {
		return Unknown
	}
	return top.Language().String()
}
