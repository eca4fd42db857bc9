package arbor

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BehaviorBuilder creates the behavior of a node described in a scene file.
// props is the node's "props" value, or nil when the node has none; decode
// it with DecodeProps.
type BehaviorBuilder func(props *yaml.Node) (any, error)

// DecodeProps decodes props into v. A nil props leaves v untouched.
func DecodeProps(props *yaml.Node, v any) error {
	if props == nil || props.Kind == 0 {
		return nil
	}
	if err := props.Decode(v); err != nil {
		return fmt.Errorf("decode props: %w", err)
	}
	return nil
}

// Factory maps scene-file kinds to behavior builders. The zero value is
// ready to use; nodes of kind "" or "group" never need a builder.
type Factory struct {
	builders map[string]BehaviorBuilder
}

// Register adds or replaces the builder for kind.
func (f *Factory) Register(kind string, b BehaviorBuilder) {
	if f.builders == nil {
		f.builders = make(map[string]BehaviorBuilder)
	}
	f.builders[kind] = b
}

// ErrUnknownKind is returned when a scene file names a kind the factory
// has no builder for.
var ErrUnknownKind = errors.New("unknown node kind")

// sceneNode is the YAML form of one node. Pointer fields are optional and
// keep NewNode's defaults when omitted.
type sceneNode struct {
	Name        string      `yaml:"name"`
	Kind        string      `yaml:"kind"`
	X           *float64    `yaml:"x"`
	Y           *float64    `yaml:"y"`
	ScaleX      *float64    `yaml:"scaleX"`
	ScaleY      *float64    `yaml:"scaleY"`
	Rotation    *float64    `yaml:"rotation"`
	OriginX     *float64    `yaml:"originX"`
	OriginY     *float64    `yaml:"originY"`
	Width       *float64    `yaml:"width"`
	Height      *float64    `yaml:"height"`
	Radius      *float64    `yaml:"radius"`
	Shape       string      `yaml:"shape"`
	Interactive bool        `yaml:"interactive"`
	Visible     *bool       `yaml:"visible"`
	Active      *bool       `yaml:"active"`
	Alpha       *float64    `yaml:"alpha"`
	Blend       string      `yaml:"blend"`
	Props       yaml.Node   `yaml:"props"`
	Children    []sceneNode `yaml:"children"`
}

// LoadScene builds a detached subtree from a YAML scene description:
//
//	name: title
//	children:
//	  - name: start
//	    kind: button
//	    x: 320
//	    y: 480
//	    interactive: true
//	    props: {label: Start}
//
// Each node's kind selects a builder from f for its behavior. f may be nil
// when the document only uses plain groups.
func LoadScene(data []byte, f *Factory) (*Node, error) {
	var doc sceneNode
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	n, err := doc.build(f, doc.Name)
	if err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return n, nil
}

// LoadSceneFile reads and builds a YAML scene description file.
func LoadSceneFile(path string, f *Factory) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return LoadScene(data, f)
}

func (d *sceneNode) build(f *Factory, path string) (*Node, error) {
	n := NewNode(d.Name)

	switch d.Kind {
	case "", "group":
	default:
		var b BehaviorBuilder
		if f != nil {
			b = f.builders[d.Kind]
		}
		if b == nil {
			return nil, fmt.Errorf("%s: %w %q", path, ErrUnknownKind, d.Kind)
		}
		var props *yaml.Node
		if d.Props.Kind != 0 {
			props = &d.Props
		}
		behavior, err := b(props)
		if err != nil {
			return nil, fmt.Errorf("%s: build %q: %w", path, d.Kind, err)
		}
		n.SetBehavior(behavior)
	}

	if err := d.apply(n); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for i := range d.Children {
		c := &d.Children[i]
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("[%d]", i)
		}
		child, err := c.build(f, path+"/"+name)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func (d *sceneNode) apply(n *Node) error {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&n.X, d.X)
	set(&n.Y, d.Y)
	set(&n.ScaleX, d.ScaleX)
	set(&n.ScaleY, d.ScaleY)
	set(&n.Rotation, d.Rotation)
	set(&n.OriginX, d.OriginX)
	set(&n.OriginY, d.OriginY)
	set(&n.Alpha, d.Alpha)
	set(&n.width, d.Width)
	set(&n.height, d.Height)
	if d.Radius != nil {
		n.SetRadius(*d.Radius)
	}
	if d.Shape != "" {
		s, ok := ParseBoundingShape(d.Shape)
		if !ok {
			return fmt.Errorf("unknown shape %q", d.Shape)
		}
		n.Shape = s
	}
	if d.Blend != "" {
		b, ok := ParseBlendMode(d.Blend)
		if !ok {
			return fmt.Errorf("unknown blend mode %q", d.Blend)
		}
		n.BlendMode = b
	}
	if d.Visible != nil {
		n.Visible = *d.Visible
	}
	if d.Active != nil {
		n.active = *d.Active
	}
	n.Interactive = d.Interactive
	return nil
}
