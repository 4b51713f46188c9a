package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/ava12/rdp/grammar"
	"github.com/ava12/rdp/tree"
)

const tracePreviewLen = 20

// tracer writes rule expansion steps indented by depth. A nil tracer writes nothing.
type tracer struct {
	out io.Writer
}

func newTracer(w io.Writer) *tracer {
	if w == nil {
		return nil
	}
	return &tracer{w}
}

func (t *tracer) printf(depth int, format string, params ...any) {
	fmt.Fprintf(t.out, strings.Repeat("\t", depth)+format+"\n", params...)
}

func preview(s string) string {
	r := []rune(s)
	if len(r) > tracePreviewLen {
		return string(r[:tracePreviewLen]) + "..."
	}
	return s
}

func (t *tracer) rule(depth int, name, rest string) {
	if t != nil {
		t.printf(depth, "%s: %q", name, preview(rest))
	}
}

func (t *tracer) alternative(depth, index int, seq grammar.Sequence) {
	if t != nil {
		t.printf(depth, "  #%d: %s", index+1, seq)
	}
}

func (t *tracer) ruleMatched(depth int, name string, index int) {
	if t != nil {
		t.printf(depth, "%s matched #%d", name, index+1)
	}
}

func (t *tracer) ruleFailed(depth int, name string) {
	if t != nil {
		t.printf(depth, "%s failed", name)
	}
}

func (t *tracer) tokenMatched(depth int, tok *tree.Token) {
	if t != nil {
		if tok.IsSynthetic() {
			t.printf(depth, "%s <%d>", tok.Name(), tok.Width())
		} else {
			t.printf(depth, "%s %q", tok.Name(), tok.Text())
		}
	}
}

func (t *tracer) tokenFailed(depth int, name string, e error) {
	if t != nil {
		t.printf(depth, "%s: %s", name, e)
	}
}

func (t *tracer) tooFew(depth int, el grammar.Element, n int) {
	if t != nil {
		t.printf(depth, "%s: %d repetitions", el, n)
	}
}
