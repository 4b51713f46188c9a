/*
Package langdef builds parser.Parser from a declarative language description.

Description is a YAML or TOML document listing tokenizers and rules.
Semantic actions cannot be described in text, so every action is referred to by name
and the functions are supplied to Definition.Build as Actions.

YAML example:

	tokenizers:
	  - name: main
	    terminals:
	      - {name: NUMBER, pattern: '-?[0-9]+', action: number}
	      - {name: PLUS, pattern: '\+'}
	    comments:
	      - {pattern: '#.*$', flags: [multiline]}
	rules:
	  - name: start
	    tokenizer: main
	    alternatives:
	      - {elements: NUMBER PLUS NUMBER, action: add}
	      - {elements: NUMBER}

The same in TOML:

	[[tokenizers]]
	name = "main"
	terminals = [
	  {name = "NUMBER", pattern = '-?[0-9]+', action = "number"},
	  {name = "PLUS", pattern = '\+'},
	]
	comments = [{pattern = '#.*$', flags = ["multiline"]}]

	[[rules]]
	name = "start"
	tokenizer = "main"
	alternatives = [
	  {elements = "NUMBER PLUS NUMBER", action = "add"},
	  {elements = "NUMBER"},
	]

Tokenizer fields:

	name        tokenizer name, referred to by rules
	skip-space  whether spaces are skipped before each token, true if omitted
	terminals   list of terminals: name, pattern, optional action name
	comments    list of comment styles: pattern, optional flags
	indent      indent token configuration: indent, outdent, tab-size, inline

Comment flags are "ignore-case", "multiline" and "dotall".

Rule fields:

	name          rule name, the entry rule is named "start"
	tokenizer     optional tokenizer name
	alternatives  ordered list of alternatives: space-separated elements, optional action name

Elements use parser notation: a name optionally followed by "?", "*" or "+".
The start rule may omit the tokenizer if exactly one tokenizer is defined.
*/
package langdef
