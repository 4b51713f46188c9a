// Package tree defines concrete syntax tree built by parser and its deferred evaluation.
package tree

import (
	"github.com/ava12/rdp/source"
)

// Child is a child of a Node: either a single Element or a List built for a repeated element.
type Child interface {
	child()
}

// Element is a tree element: *Token or *Node.
type Element interface {
	Child

	// Name returns terminal or rule name.
	Name() string

	// IsNode reports whether the element is a *Node.
	IsNode() bool

	// Pos returns the position of the first matched rune.
	Pos() source.Pos

	// Walk evaluates the element passing ctx to its action.
	Walk(ctx ...any) (any, error)
}

// List is an ordered group of elements matched by a repeated element, possibly empty.
type List []Element

func (List) child() {}

// Len returns the number of elements.
func (l List) Len() int {
	return len(l)
}

// Walk walks every element in order and returns their values.
func (l List) Walk(ctx ...any) ([]any, error) {
	res := make([]any, 0, len(l))
	for _, el := range l {
		v, e := el.Walk(ctx...)
		if e != nil {
			return nil, e
		}
		res = append(res, v)
	}
	return res, nil
}

// Token is a leaf element holding matched text or, for indent/outdent tokens, synthesized indent width.
type Token struct {
	name      string
	text      string
	width     int
	synthetic bool
	pos       source.Pos
	action    *Action
}

// NewToken creates a token for matched text.
func NewToken(name, text string, pos source.Pos, action *Action) *Token {
	return &Token{name: name, text: text, pos: pos, action: action}
}

// NewIndentToken creates a synthetic indent or outdent token.
func NewIndentToken(name string, width int, pos source.Pos) *Token {
	return &Token{name: name, width: width, synthetic: true, pos: pos}
}

func (*Token) child() {}

// Name returns terminal name.
func (t *Token) Name() string {
	return t.name
}

// IsNode always returns false.
func (t *Token) IsNode() bool {
	return false
}

// Text returns matched text, empty for synthetic tokens.
func (t *Token) Text() string {
	return t.text
}

// IsSynthetic reports whether the token is an indent or outdent token.
func (t *Token) IsSynthetic() bool {
	return t.synthetic
}

// Width returns indent width of a synthetic token.
func (t *Token) Width() int {
	return t.width
}

// Value returns matched text or, for synthetic tokens, indent width.
func (t *Token) Value() any {
	if t.synthetic {
		return t.width
	}
	return t.text
}

// Pos returns token position.
func (t *Token) Pos() source.Pos {
	return t.pos
}

// SourceName returns source name.
func (t *Token) SourceName() string {
	return t.pos.SourceName()
}

// Line returns line number.
func (t *Token) Line() int {
	return t.pos.Line()
}

// Col returns column number.
func (t *Token) Col() int {
	return t.pos.Col()
}

// Walk returns token value or the result of its action called with ctx followed by token value.
func (t *Token) Walk(ctx ...any) (any, error) {
	if t.action == nil {
		return t.Value(), nil
	}

	args := make([]any, len(ctx), len(ctx)+1)
	copy(args, ctx)
	return t.action.Call(append(args, t.Value()))
}

// Node is an element matched by a grammar rule.
type Node struct {
	name     string
	alt      int
	children []Child
	action   *Action
	pos      source.Pos
}

// NewNode creates a node for rule name matched by its alt-th (0-based) alternative.
func NewNode(name string, alt int, action *Action, pos source.Pos) *Node {
	return &Node{name: name, alt: alt, action: action, pos: pos}
}

func (*Node) child() {}

// Name returns rule name.
func (n *Node) Name() string {
	return n.name
}

// IsNode always returns true.
func (n *Node) IsNode() bool {
	return true
}

// Alternative returns 0-based index of matched alternative.
func (n *Node) Alternative() int {
	return n.alt
}

// Pos returns the position where rule matching started.
func (n *Node) Pos() source.Pos {
	return n.pos
}

// AppendChild adds a child.
func (n *Node) AppendChild(c Child) {
	n.children = append(n.children, c)
}

// Children returns node children.
func (n *Node) Children() []Child {
	return n.children
}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.children)
}

// Child returns i-th child or nil, negative i counts from the end.
func (n *Node) Child(i int) Child {
	if i < 0 {
		i += len(n.children)
	}
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Walk calls node action with ctx followed by unevaluated children.
// A node without action returns the value of its sole child or a slice of children values.
func (n *Node) Walk(ctx ...any) (any, error) {
	if n.action != nil {
		args := make([]any, len(ctx), len(ctx)+len(n.children))
		copy(args, ctx)
		for _, c := range n.children {
			args = append(args, c)
		}
		return n.action.Call(args)
	}

	if len(n.children) == 1 {
		return WalkChild(n.children[0], ctx...)
	}

	res := make([]any, len(n.children))
	for i, c := range n.children {
		v, e := WalkChild(c, ctx...)
		if e != nil {
			return nil, e
		}
		res[i] = v
	}
	return res, nil
}

// WalkChild walks either an Element or a List. A List yields []any.
func WalkChild(c Child, ctx ...any) (any, error) {
	switch x := c.(type) {
	case Element:
		return x.Walk(ctx...)
	case List:
		return x.Walk(ctx...)
	default:
		return nil, nil
	}
}

// AsElement returns c as Element if it is a single element.
func AsElement(c Child) (Element, bool) {
	el, is := c.(Element)
	return el, is
}

// AsList returns c as List if it is a repeated group.
func AsList(c Child) (List, bool) {
	l, is := c.(List)
	return l, is
}
