package gfxtest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	defineRe  = regexp.MustCompile(`(?m)^\s*#define\s+(\w+)\s+(\S+)`)
	structRe  = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	fieldRe   = regexp.MustCompile(`(\w+)\s+(\w+)\s*(?:\[\s*(\w+)\s*\])?\s*;`)
	uniformRe = regexp.MustCompile(`uniform\s+(\w+)\s+(\w+)\s*(?:\[\s*(\w+)\s*\])?\s*;`)
	nameRe    = regexp.MustCompile(`^(\w+)(?:\[(\d+)\])?(?:\.(\w+))?$`)
)

// uniformDecl is one top-level uniform declaration.
type uniformDecl struct {
	typ   string
	array int // 0 for scalars
}

// source is the result of "compiling" one stage: the declarations it
// exposes to the program.
type source struct {
	uniforms map[string]uniformDecl
	structs  map[string]map[string]bool
}

// compile performs the checks a GLSL front end would reject first: a
// version directive, an entry point, balanced braces and #error.
func compile(src string) (*source, string) {
	switch {
	case !strings.Contains(src, "#version"):
		return nil, "0:1: error: missing #version directive"
	case !strings.Contains(src, "void main"):
		return nil, "0:1: error: no function main"
	case strings.Count(src, "{") != strings.Count(src, "}"):
		return nil, "0:1: error: syntax error, unbalanced braces"
	case strings.Contains(src, "#error"):
		return nil, "0:1: error: #error directive"
	}

	defines := map[string]string{}
	for _, m := range defineRe.FindAllStringSubmatch(src, -1) {
		defines[m[1]] = m[2]
	}
	size := func(s string) (int, error) {
		if s == "" {
			return 0, nil
		}
		if v, ok := defines[s]; ok {
			s = v
		}
		return strconv.Atoi(s)
	}

	out := &source{
		uniforms: map[string]uniformDecl{},
		structs:  map[string]map[string]bool{},
	}
	for _, m := range structRe.FindAllStringSubmatch(src, -1) {
		fields := map[string]bool{}
		for _, f := range fieldRe.FindAllStringSubmatch(m[2], -1) {
			fields[f[2]] = true
		}
		out.structs[m[1]] = fields
	}
	for _, m := range uniformRe.FindAllStringSubmatch(src, -1) {
		n, err := size(m[3])
		if err != nil {
			return nil, fmt.Sprintf("0:1: error: array size %q is not a constant", m[3])
		}
		out.uniforms[m[2]] = uniformDecl{typ: m[1], array: n}
	}
	return out, ""
}

// resolves reports whether name addresses a uniform declared by one of the
// sources: "name", "name[i]", "name.field" or "name[i].field".
func resolves(srcs []*source, name string) bool {
	m := nameRe.FindStringSubmatch(name)
	if m == nil {
		return false
	}
	root, index, field := m[1], m[2], m[3]

	for _, s := range srcs {
		decl, ok := s.uniforms[root]
		if !ok {
			continue
		}
		if index != "" {
			i, _ := strconv.Atoi(index)
			if decl.array == 0 || i >= decl.array {
				return false
			}
		}
		fields, isStruct := lookupStruct(srcs, decl.typ)
		if field != "" {
			return isStruct && fields[field]
		}
		// A struct uniform has no location of its own.
		return !isStruct
	}
	return false
}

func lookupStruct(srcs []*source, typ string) (map[string]bool, bool) {
	for _, s := range srcs {
		if f, ok := s.structs[typ]; ok {
			return f, true
		}
	}
	return nil, false
}
