package resource

import (
	"k8s.io/apimachinery/pkg/labels"
)

// Selector returns a selector matching objects whose labels contain every
// key=value pair of matchLabels.
func Selector(matchLabels map[string]string) labels.Selector {
	return labels.SelectorFromSet(labels.Set(matchLabels))
}
