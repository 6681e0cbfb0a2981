package gamemap

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Layer is one of the five fixed tile layers. Ground through Mask2 render
// under entities, Fringe and Fringe2 over them.
type Layer uint8

const (
	Ground Layer = iota
	Mask
	Mask2
	Fringe
	Fringe2
)

// LayerCount is the number of layers every map carries, always.
const LayerCount = 5

// Layers lists all layers in draw order.
var Layers = [LayerCount]Layer{Ground, Mask, Mask2, Fringe, Fringe2}

var layerNames = [LayerCount]string{"ground", "mask", "mask2", "fringe", "fringe2"}

func (l Layer) String() string {
	if int(l) < LayerCount {
		return layerNames[l]
	}
	return fmt.Sprintf("layer(%d)", uint8(l))
}

func (l Layer) MarshalText() ([]byte, error) {
	if int(l) >= LayerCount {
		return nil, fmt.Errorf("invalid layer %d", uint8(l))
	}
	return []byte(layerNames[l]), nil
}

func (l *Layer) UnmarshalText(text []byte) error {
	for i, name := range layerNames {
		if string(text) == name {
			*l = Layer(i)
			return nil
		}
	}
	return fmt.Errorf("invalid layer %q", text)
}

// yaml.v3 does not consult TextMarshaler for map keys, so implement its
// interfaces explicitly; layers key the persisted layer grids.

func (l Layer) MarshalYAML() (any, error) {
	text, err := l.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

func (l *Layer) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return l.UnmarshalText([]byte(s))
}
