// Package model holds a loaded glTF scene as a movable object with
// world-space bounds.
//
// The document's node hierarchy is walked once at load: every mesh node is
// recorded in traversal order along with its world matrix, and the union of
// the primitives' POSITION extents forms the local bounding box. Position is
// applied on top of the file's own transforms and is the only thing callers
// mutate afterwards.
package model

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"model-viewer/internal/bounds"
)

var ErrNoScene = errors.New("model: document has no nodes")

// Mesh is one mesh reference found while traversing the scene.
type Mesh struct {
	Name  string
	Node  uint32
	Index uint32
	World mgl32.Mat4
}

// Object is a loaded model.
type Object struct {
	Path     string
	Doc      *gltf.Document
	Position mgl32.Vec3

	meshes []Mesh
	local  bounds.Box
}

// Load parses a .gltf or .glb file.
func Load(path string) (*Object, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: open %s: %w", path, err)
	}
	obj, err := FromDocument(doc)
	if err != nil {
		return nil, err
	}
	obj.Path = path
	return obj, nil
}

// FromDocument builds an object from an already decoded document.
func FromDocument(doc *gltf.Document) (*Object, error) {
	roots := rootNodes(doc)
	if len(roots) == 0 {
		return nil, ErrNoScene
	}
	obj := &Object{Doc: doc, local: bounds.Empty()}
	visited := make(map[uint32]bool, len(doc.Nodes))
	for _, r := range roots {
		if err := obj.walk(r, mgl32.Ident4(), visited); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func (o *Object) walk(idx uint32, parent mgl32.Mat4, visited map[uint32]bool) error {
	if int(idx) >= len(o.Doc.Nodes) {
		return fmt.Errorf("model: node %d out of range", idx)
	}
	if visited[idx] {
		return fmt.Errorf("model: node %d visited twice", idx)
	}
	visited[idx] = true

	n := o.Doc.Nodes[idx]
	world := parent.Mul4(localMatrix(n))
	if n.Mesh != nil {
		box, err := meshBounds(o.Doc, *n.Mesh)
		if err != nil {
			return err
		}
		o.local.Union(box.Transform(world))
		name := n.Name
		if name == "" && int(*n.Mesh) < len(o.Doc.Meshes) {
			name = o.Doc.Meshes[*n.Mesh].Name
		}
		o.meshes = append(o.meshes, Mesh{Name: name, Node: idx, Index: *n.Mesh, World: world})
	}
	for _, c := range n.Children {
		if err := o.walk(c, world, visited); err != nil {
			return err
		}
	}
	return nil
}

// Bounds returns the world-space bounding box, including Position.
func (o *Object) Bounds() bounds.Box { return o.local.Translate(o.Position) }

// Translate moves the object by d.
func (o *Object) Translate(d mgl32.Vec3) { o.Position = o.Position.Add(d) }

// Meshes returns the mesh nodes in traversal order.
func (o *Object) Meshes() []Mesh { return o.meshes }

// HasMesh reports whether the scene contains at least one mesh.
func (o *Object) HasMesh() bool { return len(o.meshes) > 0 }

// Traverse calls f for each mesh in traversal order until f returns false.
func (o *Object) Traverse(f func(Mesh) bool) {
	for _, m := range o.meshes {
		if !f(m) {
			return
		}
	}
}

func rootNodes(doc *gltf.Document) []uint32 {
	if len(doc.Scenes) > 0 {
		s := uint32(0)
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			s = *doc.Scene
		}
		if len(doc.Scenes[s].Nodes) > 0 {
			return doc.Scenes[s].Nodes
		}
	}
	// no usable scene: every node that is nobody's child is a root
	child := make(map[uint32]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !child[uint32(i)] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

func localMatrix(n *gltf.Node) mgl32.Mat4 {
	m := mgl32.Mat4(n.MatrixOrDefault())
	if m != mgl32.Ident4() {
		return m
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(q.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

func meshBounds(doc *gltf.Document, mesh uint32) (bounds.Box, error) {
	if int(mesh) >= len(doc.Meshes) {
		return bounds.Box{}, fmt.Errorf("model: mesh %d out of range", mesh)
	}
	box := bounds.Empty()
	for _, p := range doc.Meshes[mesh].Primitives {
		idx, ok := p.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		if int(idx) >= len(doc.Accessors) {
			return bounds.Box{}, fmt.Errorf("model: accessor %d out of range", idx)
		}
		acr := doc.Accessors[idx]
		if len(acr.Min) == 3 && len(acr.Max) == 3 {
			box.Union(bounds.FromMinMax(
				mgl32.Vec3{acr.Min[0], acr.Min[1], acr.Min[2]},
				mgl32.Vec3{acr.Max[0], acr.Max[1], acr.Max[2]},
			))
			continue
		}
		// min/max are required by the format but not every exporter writes them
		pos, err := modeler.ReadPosition(doc, acr, nil)
		if err != nil {
			return bounds.Box{}, fmt.Errorf("model: read positions: %w", err)
		}
		for _, v := range pos {
			box.ExtendPoint(mgl32.Vec3(v))
		}
	}
	return box, nil
}
