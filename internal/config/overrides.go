// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The runcfg Authors

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expstack/runcfg/internal/conftree"
)

// parseFunc converts an override literal into a typed value.
type parseFunc func(string) (any, error)

// typeParsers is the fixed set of recognized override type tags. Each tag
// maps to an explicit parse function; there is no fallback for unknown
// tags, by contract.
var typeParsers = map[string]parseFunc{
	"int":     parseIntLiteral,
	"integer": parseIntLiteral,
	"float":   parseFloatLiteral,
	"float64": parseFloatLiteral,
	"bool":    parseBoolLiteral,
	"boolean": parseBoolLiteral,
	"str":     parseStringLiteral,
	"string":  parseStringLiteral,
}

func parseIntLiteral(s string) (any, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid integer literal %q", s)
	}
	return v, nil
}

func parseFloatLiteral(s string) (any, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid float literal %q", s)
	}
	return v, nil
}

func parseBoolLiteral(s string) (any, error) {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean literal %q", s)
	}
	return v, nil
}

// parseStringLiteral passes the literal through, except the
// case-insensitive literal "none" which denotes a null value.
func parseStringLiteral(s string) (any, error) {
	if strings.EqualFold(s, "none") {
		return nil, nil
	}
	return s, nil
}

// override is one parsed CLI override directive.
type override struct {
	path  []string
	value any
}

// parseOverride validates a raw token against the grammar
//
//	("-"|"--")? name ("/" name)* "=" literal ":" type
//
// and returns the parsed directive. Every failure wraps
// ErrMalformedOverride and names the token.
func parseOverride(token string) (override, error) {
	if strings.Count(token, "=") != 1 {
		return override{}, fmt.Errorf("%w: %q: want exactly one \"=\"", ErrMalformedOverride, token)
	}

	name, value, _ := strings.Cut(token, "=")
	name = strings.Trim(strings.TrimLeft(name, "-"), "/")
	if name == "" {
		return override{}, fmt.Errorf("%w: %q: empty name", ErrMalformedOverride, token)
	}

	// the literal may itself contain ":", the tag is everything after the
	// last one
	sep := strings.LastIndex(value, ":")
	if sep < 0 {
		return override{}, fmt.Errorf("%w: %q: value needs a \":type\" suffix", ErrMalformedOverride, token)
	}
	literal, tag := value[:sep], value[sep+1:]

	parse, ok := typeParsers[tag]
	if !ok {
		return override{}, fmt.Errorf("%w: %q: unknown type tag %q", ErrMalformedOverride, token, tag)
	}

	parsed, err := parse(literal)
	if err != nil {
		return override{}, fmt.Errorf("%w: %q: %w", ErrMalformedOverride, token, err)
	}

	return override{path: strings.Split(name, "/"), value: parsed}, nil
}

// ApplyOverrides applies raw CLI override tokens onto the config tree and
// the run-arguments record. Slash-separated paths navigate the tree,
// creating intermediate subtrees as needed; segment-free names assign the
// matching RunArgs field, or its Extra section when no field matches. Any
// malformed token aborts with ErrMalformedOverride before naming
// semantics are applied to later tokens.
func ApplyOverrides(tree *conftree.Tree, args *RunArgs, tokens []string) error {
	for _, token := range tokens {
		o, err := parseOverride(token)
		if err != nil {
			return err
		}

		if len(o.path) == 1 {
			if err := args.setField(o.path[0], o.value); err != nil {
				return fmt.Errorf("%w: %q: %w", ErrMalformedOverride, token, err)
			}
			continue
		}

		node := tree
		for _, segment := range o.path[:len(o.path)-1] {
			child, ok := node.Get(segment)
			subtree, isTree := child.(*conftree.Tree)
			if !ok || !isTree {
				subtree = conftree.New()
				node.Set(segment, subtree)
			}
			node = subtree
		}
		node.Set(o.path[len(o.path)-1], o.value)
	}

	return nil
}
