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
	"strconv"

	"github.com/consensys/go-stl/pkg/stl"
	"github.com/consensys/go-stl/pkg/util"
	"github.com/consensys/go-stl/pkg/util/math"
	"github.com/consensys/go-stl/pkg/util/source"
	"github.com/consensys/go-stl/pkg/util/source/lex"
)

// Parse a given input string into a formula, using the default smoothing
// parameter for conjunction and disjunction.  Signals named in the (optional)
// ranges map are given the corresponding value range, which enables range
// inference over the parsed formula.
func Parse(input string, ranges map[string]math.Interval) (stl.Formula, []source.SyntaxError) {
	return ParseWithNu(stl.DefaultNu, input, ranges)
}

// ParseWithNu parses a given input string into a formula whose conjunctions
// and disjunctions use the given smoothing parameter nu.
func ParseWithNu(nu float64, input string, ranges map[string]math.Interval) (stl.Formula, []source.SyntaxError) {
	srcfile := source.NewSourceFile("formula", []byte(input))
	lexer := lex.NewLexer(srcfile.Contents(), rules...)
	// Lex as many tokens as possible
	tokens := lexer.Collect()
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		start := int(lexer.Index())
		err := srcfile.SyntaxError(source.NewSpan(start, start+1), "unknown character")
		//
		return nil, []source.SyntaxError{*err}
	}
	// Reclassify keywords, then drop whitespace
	tokens = classify(srcfile, tokens)
	tokens = util.RemoveMatching(tokens, func(t lex.Token) bool { return t.Kind == WHITESPACE })
	// Create the parser
	parser := &parser{srcfile, tokens, 0, nu, ranges}
	// Parse whatever we can
	formula, errs := parser.parseFormula()
	//
	if len(errs) > 0 {
		return nil, errs
	} else if !parser.done() {
		return nil, parser.syntaxErrors(parser.lookahead(), "unknown token")
	}
	//
	return ungroup(formula), nil
}

// grouped wraps a parenthesised subformula.  Parentheses act as a barrier to
// the flattening of nested conjunctions and disjunctions, hence the wrapper
// is retained until the enclosing connective has been determined.
type grouped struct {
	stl.Formula
}

// Strip any grouping wrappers from a given formula.
func ungroup(formula stl.Formula) stl.Formula {
	for {
		g, ok := formula.(grouped)
		if !ok {
			return formula
		}
		//
		formula = g.Formula
	}
}

type parser struct {
	// Source file being parsed
	srcfile *source.File
	// Sequence of tokens being parsed
	tokens []lex.Token
	// Position within the token sequence
	index int
	// Smoothing parameter for conjunction and disjunction
	nu float64
	// Known value ranges for signals
	ranges map[string]math.Interval
}

// Formulae are parsed with the following binding order, from loosest to
// tightest: implication, disjunction, conjunction, until, the unary
// operators (negation and the unary temporal operators), comparison and,
// finally, the arithmetic operators.
func (p *parser) parseFormula() (stl.Formula, []source.SyntaxError) {
	return p.parseImplication()
}

// Implication is right associative, following the usual logical convention.
func (p *parser) parseImplication() (stl.Formula, []source.SyntaxError) {
	lhs, errs := p.parseOr()
	//
	if len(errs) > 0 || !p.follows(IMPLIES) {
		return lhs, errs
	}
	//
	token := p.next()
	rhs, errs := p.parseImplication()
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	formula, err := stl.NewImplication(p.nu, ungroup(lhs), ungroup(rhs))
	if err != nil {
		return nil, p.syntaxErrors(token, err.Error())
	}
	//
	return formula, nil
}

func (p *parser) parseOr() (stl.Formula, []source.SyntaxError) {
	return p.parseConnective(OR, p.parseAnd, func(formulas []stl.Formula) (stl.Formula, error) {
		return stl.NewOr(p.nu, formulas...)
	})
}

func (p *parser) parseAnd() (stl.Formula, []source.SyntaxError) {
	return p.parseConnective(AND, p.parseUntil, func(formulas []stl.Formula) (stl.Formula, error) {
		return stl.NewAnd(p.nu, formulas...)
	})
}

// Parse a (potentially n-ary) connective, such as a conjunction or
// disjunction.  A chain "X and Y and Z" written without parentheses is
// flattened into a single n-ary node, whereas "(X and Y) and Z" retains
// its nesting.  A chain of length one is passed through untouched (in
// particular, without stripping any grouping).
func (p *parser) parseConnective(kind uint, subparser func() (stl.Formula, []source.SyntaxError),
	constructor func([]stl.Formula) (stl.Formula, error)) (stl.Formula, []source.SyntaxError) {
	//
	lhs, errs := subparser()
	//
	if len(errs) > 0 || !p.follows(kind) {
		return lhs, errs
	}
	//
	terms := []stl.Formula{ungroup(lhs)}
	token := p.lookahead()
	// Consume the entire chain
	for p.follows(kind) {
		p.next()
		//
		term, errs := subparser()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		terms = append(terms, ungroup(term))
	}
	//
	formula, err := constructor(terms)
	if err != nil {
		return nil, p.syntaxErrors(token, err.Error())
	}
	//
	return formula, nil
}

func (p *parser) parseUntil() (stl.Formula, []source.SyntaxError) {
	lhs, errs := p.parseUnary()
	//
	if len(errs) > 0 || !p.follows(UNTIL, WEAK_UNTIL) {
		return lhs, errs
	}
	//
	token := p.next()
	// An interval is required since only bounded operators are supported.
	if !p.follows(LSQUARE) {
		return nil, p.syntaxErrors(token, "until operator requires a time interval")
	}
	//
	lower, upper, span, errs := p.parseInterval()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	rhs, errs := p.parseUnary()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	var (
		formula stl.Formula
		err     error
	)
	//
	if token.Kind == WEAK_UNTIL {
		formula, err = stl.NewWeakUntil(lower, upper, ungroup(lhs), ungroup(rhs))
	} else {
		formula, err = stl.NewUntil(lower, upper, ungroup(lhs), ungroup(rhs))
	}
	//
	if err != nil {
		return nil, p.spanErrors(span, err.Error())
	}
	//
	return formula, nil
}

func (p *parser) parseUnary() (stl.Formula, []source.SyntaxError) {
	switch p.lookahead().Kind {
	case NOT:
		p.next()
		//
		formula, errs := p.parseUnary()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return stl.NewNot(ungroup(formula)), nil
	case NEXT:
		p.next()
		//
		formula, errs := p.parseUnary()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return stl.NewNext(ungroup(formula)), nil
	case GLOBALLY:
		return p.parseTemporalUnary(func(lower, upper float64, formula stl.Formula) (stl.Formula, error) {
			return stl.NewGlobal(lower, upper, formula)
		})
	case EVENTUALLY:
		return p.parseTemporalUnary(func(lower, upper float64, formula stl.Formula) (stl.Formula, error) {
			return stl.NewFinally(lower, upper, formula)
		})
	default:
		return p.parsePredicate()
	}
}

// Parse a bounded unary temporal operator (i.e. globally or eventually),
// whose interval is mandatory.
func (p *parser) parseTemporalUnary(
	constructor func(float64, float64, stl.Formula) (stl.Formula, error)) (stl.Formula, []source.SyntaxError) {
	//
	token := p.next()
	//
	if !p.follows(LSQUARE) {
		return nil, p.syntaxErrors(token, "temporal operator requires a time interval")
	}
	//
	lower, upper, span, errs := p.parseInterval()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	body, errs := p.parseUnary()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	formula, err := constructor(lower, upper, ungroup(body))
	if err != nil {
		return nil, p.spanErrors(span, err.Error())
	}
	//
	return formula, nil
}

func (p *parser) parsePredicate() (stl.Formula, []source.SyntaxError) {
	lhs, errs := p.parseSum()
	//
	if len(errs) > 0 || !p.follows(COMPARATORS...) {
		return lhs, errs
	}
	//
	token := p.next()
	rhs, errs := p.parseSum()
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	l, r := ungroup(lhs), ungroup(rhs)
	//
	switch token.Kind {
	case EQUALS:
		return stl.NewEquals(l, r), nil
	case NOT_EQUALS:
		return stl.NewNotEquals(l, r), nil
	case LESSTHAN:
		return stl.NewStrictLessThan(l, r), nil
	case LESSTHAN_EQUALS:
		return stl.NewLessThan(l, r), nil
	case GREATERTHAN:
		return stl.NewStrictGreaterThan(l, r), nil
	default:
		return stl.NewGreaterThan(l, r), nil
	}
}

func (p *parser) parseSum() (stl.Formula, []source.SyntaxError) {
	lhs, errs := p.parseTerm()
	//
	for len(errs) == 0 && p.follows(ADD, SUB) {
		token := p.next()
		//
		var rhs stl.Formula
		//
		rhs, errs = p.parseTerm()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		if token.Kind == ADD {
			lhs = stl.NewSum(ungroup(lhs), ungroup(rhs))
		} else {
			lhs = stl.NewSubtract(ungroup(lhs), ungroup(rhs))
		}
	}
	//
	return lhs, errs
}

func (p *parser) parseTerm() (stl.Formula, []source.SyntaxError) {
	lhs, errs := p.parseUnit()
	//
	for len(errs) == 0 && p.follows(MUL, DIV) {
		token := p.next()
		//
		var rhs stl.Formula
		//
		rhs, errs = p.parseUnit()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		if token.Kind == MUL {
			lhs = stl.NewMultiply(ungroup(lhs), ungroup(rhs))
		} else {
			lhs = stl.NewDivide(ungroup(lhs), ungroup(rhs))
		}
	}
	//
	return lhs, errs
}

func (p *parser) parseUnit() (stl.Formula, []source.SyntaxError) {
	token := p.lookahead()
	//
	switch token.Kind {
	case NUMBER:
		p.next()
		return stl.NewConstant(p.number(token)), nil
	case SUB:
		// Unary minus
		p.next()
		//
		unit, errs := p.parseUnit()
		if len(errs) > 0 {
			return nil, errs
		}
		// Fold negated literals into the constant itself
		if c, ok := ungroup(unit).(*stl.Constant); ok {
			return stl.NewConstant(-c.Value()), nil
		}
		//
		return stl.NewSubtract(stl.NewConstant(0), ungroup(unit)), nil
	case IDENTIFIER:
		p.next()
		//
		name := p.string(token)
		//
		if r, ok := p.ranges[name]; ok {
			return stl.NewRangedSignal(name, r), nil
		}
		//
		return stl.NewSignal(name), nil
	case LBRACE:
		p.next()
		//
		formula, errs := p.parseFormula()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		if _, errs := p.match(RBRACE); len(errs) > 0 {
			return nil, errs
		}
		//
		return grouped{ungroup(formula)}, nil
	case BAR:
		p.next()
		//
		formula, errs := p.parseSum()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		if _, errs := p.match(BAR); len(errs) > 0 {
			return nil, errs
		}
		//
		return stl.NewAbs(ungroup(formula)), nil
	default:
		return nil, p.syntaxErrors(token, "unknown expression")
	}
}

// Parse a time interval "[lower, upper]", returning its bounds along with the
// span it occupies in the source string.
func (p *parser) parseInterval() (float64, float64, source.Span, []source.SyntaxError) {
	lsquare, errs := p.match(LSQUARE)
	if len(errs) > 0 {
		return 0, 0, lsquare.Span, errs
	}
	//
	lower, errs := p.match(NUMBER)
	if len(errs) > 0 {
		return 0, 0, lower.Span, errs
	}
	//
	if _, errs := p.match(COMMA); len(errs) > 0 {
		return 0, 0, lower.Span, errs
	}
	//
	upper, errs := p.match(NUMBER)
	if len(errs) > 0 {
		return 0, 0, upper.Span, errs
	}
	//
	rsquare, errs := p.match(RSQUARE)
	if len(errs) > 0 {
		return 0, 0, rsquare.Span, errs
	}
	//
	span := source.NewSpan(lsquare.Span.Start(), rsquare.Span.End())
	//
	return p.number(lower), p.number(upper), span, nil
}

// Check whether we have reached the end of the token stream.
func (p *parser) done() bool {
	return p.lookahead().Kind == END_OF
}

// Check whether the next token is one of the given kinds.
func (p *parser) follows(kinds ...uint) bool {
	kind := p.lookahead().Kind
	//
	for _, k := range kinds {
		if kind == k {
			return true
		}
	}
	//
	return false
}

// Lookahead returns the next token without consuming it.  This is always
// well-defined since the token stream is terminated by an end-of-file token.
func (p *parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Next consumes and returns the next token.
func (p *parser) next() lex.Token {
	token := p.tokens[p.index]
	//
	if token.Kind != END_OF {
		p.index++
	}
	//
	return token
}

// Match consumes the next token, which must be of the given kind.
func (p *parser) match(kind uint) (lex.Token, []source.SyntaxError) {
	token := p.lookahead()
	//
	if token.Kind != kind {
		return token, p.syntaxErrors(token, "unexpected token")
	}
	//
	return p.next(), nil
}

// Extract the text covered by a given token.
func (p *parser) string(token lex.Token) string {
	contents := p.srcfile.Contents()
	return string(contents[token.Span.Start():token.Span.End()])
}

// Extract the numeric value of a given number token.
func (p *parser) number(token lex.Token) float64 {
	// Cannot fail since the token was lexed as a number.
	value, _ := strconv.ParseFloat(p.string(token), 64)
	return value
}

// Construct a syntax error over the span of a given token.
func (p *parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return p.spanErrors(token.Span, msg)
}

// Construct a syntax error over a given span.
func (p *parser) spanErrors(span source.Span, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(span, msg)}
}
