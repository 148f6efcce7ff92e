// Package normalize implements the Normalizer interface.
// It turns chapter XHTML into plain prose suitable for a speech engine by
// running an ordered list of named stages over the text.
package normalize

// TextNormalizer runs the normalization stages for one locale.
// It is safe for concurrent use.
type TextNormalizer struct {
	stages []Stage
}

// New creates a TextNormalizer for the given locale.
func New(locale Locale) *TextNormalizer {
	return &TextNormalizer{
		stages: stagesFor(locale),
	}
}

// Normalize converts chapter markup into speakable text. Empty input yields
// empty output.
func (n *TextNormalizer) Normalize(markup string) string {
	s := markup
	for _, st := range n.stages {
		if s == "" {
			return ""
		}
		s = st.Run(s)
	}
	return s
}

// Stages returns the pipeline in application order.
func (n *TextNormalizer) Stages() []Stage {
	out := make([]Stage, len(n.stages))
	copy(out, n.stages)
	return out
}

var spanish = New(Spanish)

// Normalize runs the default (Spanish) pipeline.
func Normalize(markup string) string {
	return spanish.Normalize(markup)
}
