package tree

import (
	"fmt"
	"io"
	"strings"
)

// Elements returns node children with lists expanded element-wise.
func Elements(n *Node) []Element {
	if n == nil {
		return nil
	}

	res := make([]Element, 0, len(n.children))
	for _, c := range n.children {
		switch x := c.(type) {
		case Element:
			res = append(res, x)
		case List:
			res = append(res, x...)
		}
	}
	return res
}

// NthElement returns i-th element of Elements(n) or nil, negative i counts from the end.
func NthElement(n *Node, i int) Element {
	els := Elements(n)
	if i < 0 {
		i += len(els)
	}
	if i < 0 || i >= len(els) {
		return nil
	}
	return els[i]
}

// FirstToken returns the first token in subtree or nil.
func FirstToken(el Element) *Token {
	switch x := el.(type) {
	case *Token:
		return x
	case *Node:
		for _, c := range Elements(x) {
			t := FirstToken(c)
			if t != nil {
				return t
			}
		}
	}
	return nil
}

// LastToken returns the last token in subtree or nil.
func LastToken(el Element) *Token {
	switch x := el.(type) {
	case *Token:
		return x
	case *Node:
		els := Elements(x)
		for i := len(els) - 1; i >= 0; i-- {
			t := LastToken(els[i])
			if t != nil {
				return t
			}
		}
	}
	return nil
}

// ElementVisitor is called for each visited element with its nesting level.
// Returning false skips the children of el.
type ElementVisitor func(el Element, level int) (visitChildren bool)

// WalkMode is the order of children visiting.
type WalkMode int

const (
	WalkLtr WalkMode = 0
	WalkRtl WalkMode = 1
)

// Visit visits el and its descendants depth-first without evaluating anything.
func Visit(el Element, mode WalkMode, visitor ElementVisitor) {
	if el != nil {
		visitElement(el, 0, visitor, (mode&WalkRtl) != 0)
	}
}

func visitElement(el Element, level int, v ElementVisitor, rtl bool) {
	if !v(el, level) {
		return
	}

	n, is := el.(*Node)
	if !is {
		return
	}

	els := Elements(n)
	if rtl {
		for i := len(els) - 1; i >= 0; i-- {
			visitElement(els[i], level+1, v, true)
		}
	} else {
		for _, c := range els {
			visitElement(c, level+1, v, false)
		}
	}
}

// ElementFilter reports whether an element is of interest.
type ElementFilter func(el Element) bool

// IsA returns a filter accepting elements with given names.
func IsA(names ...string) ElementFilter {
	return func(el Element) bool {
		name := el.Name()
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
}

// IsALiteral returns a filter accepting tokens with given texts.
func IsALiteral(texts ...string) ElementFilter {
	return func(el Element) bool {
		t, is := el.(*Token)
		if !is {
			return false
		}

		for _, text := range texts {
			if text == t.text {
				return true
			}
		}
		return false
	}
}

// IsNot inverts filter.
func IsNot(f ElementFilter) ElementFilter {
	return func(el Element) bool {
		return !f(el)
	}
}

// Search returns all elements of subtree accepted by f in left-to-right order.
// If deep is false descendants of an accepted element are not searched.
func Search(el Element, f ElementFilter, deep bool) []Element {
	res := make([]Element, 0)
	Visit(el, WalkLtr, func(e Element, _ int) bool {
		if f(e) {
			res = append(res, e)
			return deep
		}
		return true
	})
	return res
}

// Text returns concatenated text of all tokens in subtree.
func Text(el Element) string {
	sb := &strings.Builder{}
	Visit(el, WalkLtr, func(e Element, _ int) bool {
		if t, is := e.(*Token); is {
			sb.WriteString(t.text)
		}
		return true
	})
	return sb.String()
}

// Dump writes indented diagnostic representation of subtree to w.
func Dump(w io.Writer, el Element) error {
	return dumpChild(w, el, 0)
}

func dumpChild(w io.Writer, c Child, level int) error {
	indent := strings.Repeat("\t", level)
	var e error
	switch x := c.(type) {
	case *Token:
		if x.synthetic {
			_, e = fmt.Fprintf(w, "%s%s <%d>\n", indent, x.name, x.width)
		} else {
			_, e = fmt.Fprintf(w, "%s%s %q\n", indent, x.name, x.text)
		}

	case *Node:
		_, e = fmt.Fprintf(w, "%s%s:\n", indent, x.name)
		for _, cc := range x.children {
			if e == nil {
				e = dumpChild(w, cc, level+1)
			}
		}

	case List:
		if len(x) == 0 {
			_, e = fmt.Fprintf(w, "%s[]\n", indent)
			break
		}

		_, e = fmt.Fprintf(w, "%s[\n", indent)
		for _, el := range x {
			if e == nil {
				e = dumpChild(w, el, level+1)
			}
		}
		if e == nil {
			_, e = fmt.Fprintf(w, "%s]\n", indent)
		}
	}
	return e
}
