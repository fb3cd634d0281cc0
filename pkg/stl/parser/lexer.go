// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package parser

import (
	"github.com/consensys/go-stl/pkg/util/source"
	"github.com/consensys/go-stl/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// LBRACE signals "left brace"
const LBRACE uint = 2

// RBRACE signals "right brace"
const RBRACE uint = 3

// LSQUARE signals "left square bracket", which opens a time interval
const LSQUARE uint = 4

// RSQUARE signals "right square bracket", which closes a time interval
const RSQUARE uint = 5

// COMMA signals the separator within a time interval
const COMMA uint = 6

// BAR signals the delimiter of an absolute value
const BAR uint = 7

// NUMBER signals a floating-point number
const NUMBER uint = 8

// IDENTIFIER signals a signal name
const IDENTIFIER uint = 9

// EQUALS signals an equality
const EQUALS uint = 10

// NOT_EQUALS signals a non-equality
const NOT_EQUALS uint = 11

// LESSTHAN signals a (strict) inequality X < Y
const LESSTHAN uint = 12

// LESSTHAN_EQUALS signals a (non-strict) inequality X <= Y
const LESSTHAN_EQUALS uint = 13

// GREATERTHAN signals a (strict) inequality X > Y
const GREATERTHAN uint = 14

// GREATERTHAN_EQUALS signals a (non-strict) inequality X >= Y
const GREATERTHAN_EQUALS uint = 15

// ADD represents addition of signals
const ADD uint = 16

// SUB represents subtraction of signals
const SUB uint = 17

// MUL represents multiplication of signals
const MUL uint = 18

// DIV represents division of signals
const DIV uint = 19

// AND represents logical conjunction
const AND uint = 20

// OR represents logical disjunction
const OR uint = 21

// NOT represents logical negation
const NOT uint = 22

// IMPLIES represents logical implication
const IMPLIES uint = 23

// GLOBALLY represents the bounded always operator G[a,b]
const GLOBALLY uint = 24

// EVENTUALLY represents the bounded eventually operator F[a,b]
const EVENTUALLY uint = 25

// UNTIL represents the bounded until operator U[a,b]
const UNTIL uint = 26

// WEAK_UNTIL represents the weak variant of the until operator
const WEAK_UNTIL uint = 27

// NEXT represents the next-state operator X
const NEXT uint = 28

// COMPARATORS captures the set of comparison predicates.
var COMPARATORS = []uint{EQUALS, NOT_EQUALS, LESSTHAN, LESSTHAN_EQUALS, GREATERTHAN, GREATERTHAN_EQUALS}

// Rule for describing whitespace
var whitespace lex.Scanner = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\n')))

// Rule for describing digit sequences
var digits lex.Scanner = lex.Many(lex.Within('0', '9'))

// Rule for describing numbers, with an optional fractional part
var number lex.Scanner = lex.Or(
	lex.Sequence(digits, lex.Unit('.'), digits),
	digits)

var identifierStart lex.Scanner = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing identifiers
var identifier lex.Scanner = lex.SequenceNullableLast(identifierStart, identifierRest)

// lexing rules.  Note that multi-character operators must come before their
// single-character prefixes.
var rules []lex.LexRule = []lex.LexRule{
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit('|'), BAR),
	lex.Rule(lex.Unit('+'), ADD),
	lex.Rule(lex.Unit('-', '>'), IMPLIES),
	lex.Rule(lex.Unit('-'), SUB),
	lex.Rule(lex.Unit('*'), MUL),
	lex.Rule(lex.Unit('/'), DIV),
	lex.Rule(lex.Unit('=', '='), EQUALS),
	lex.Rule(lex.Unit('!', '='), NOT_EQUALS),
	lex.Rule(lex.Unit('<', '='), LESSTHAN_EQUALS),
	lex.Rule(lex.Unit('<'), LESSTHAN),
	lex.Rule(lex.Unit('>', '='), GREATERTHAN_EQUALS),
	lex.Rule(lex.Unit('>'), GREATERTHAN),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(number, NUMBER),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof(), END_OF),
}

// Keywords are lexed as identifiers, then reclassified based on their text.
// The temporal operators are single uppercase letters, so classifying them
// here (rather than in the lexing rules) ensures that e.g. "Gap" lexes as
// one identifier rather than an operator followed by a fragment.
var keywords = map[string]uint{
	"and":     AND,
	"or":      OR,
	"not":     NOT,
	"implies": IMPLIES,
	"G":       GLOBALLY,
	"F":       EVENTUALLY,
	"U":       UNTIL,
	"W":       WEAK_UNTIL,
	"X":       NEXT,
}

// Reclassify identifier tokens which are actually keywords.
func classify(srcfile *source.File, tokens []lex.Token) []lex.Token {
	for i, t := range tokens {
		if t.Kind == IDENTIFIER {
			text := string(srcfile.Contents()[t.Span.Start():t.Span.End()])
			//
			if kind, ok := keywords[text]; ok {
				tokens[i] = lex.Token{Kind: kind, Span: t.Span}
			}
		}
	}
	//
	return tokens
}
