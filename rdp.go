/*
Package rdp is an embeddable backtracking recursive-descent parsing engine.

Consists of subpackages:
  - source: immutable source text, positions, and the position tracker used while matching;
  - lexer: tokenizer holding terminal definitions, comment styles, and indentation settings;
  - grammar: element specifiers, rule alternatives, and compiled rules;
  - tree: concrete syntax tree (tokens, nodes, repeated groups) with deferred evaluation;
  - parser: rule registry and the recursive-descent interpreter;
  - langdef: builds a parser from a YAML or TOML grammar description.

Typical usage is:

1. Create one or more tokenizers and define terminals (name, regular expression,
optional action), comment styles, and optionally indent/outdent tokens.

2. Create a parser and define rules. Each rule is a list of alternatives,
each alternative is a list of element specifiers (terminal or rule names,
optionally followed by ?, *, or +) and an action. A rule named "start"
bound to a tokenizer is the entry point.

3. Parse text and walk the resulting tree passing any context values;
actions receive the context values followed by unevaluated children
and decide themselves which children to walk and how many times.

Alternatives are tried in definition order, the first one that matches wins.
Grammars are interpreted at parse time, no ambiguity analysis is performed.
*/
package rdp
