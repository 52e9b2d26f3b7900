package routes

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule marks an endpoint pattern as public for a set of HTTP methods.
// Patterns may contain {param} placeholders matching one path segment,
// e.g. "/product/api/products/{product_id}".
type Rule struct {
	Pattern string
	Methods []string
}

var placeholderPattern = regexp.MustCompile(`\{[^}]+\}`)

type compiledRule struct {
	pattern *regexp.Regexp
	methods map[string]struct{}
}

// Matcher decides whether a request may bypass authentication entirely.
// Compiled once at startup; read-only afterwards.
type Matcher struct {
	publicPaths []string
	rules       []compiledRule
}

func NewMatcher(publicPaths []string, rules []Rule) (*Matcher, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		expr := placeholderPattern.ReplaceAllString(rule.Pattern, "[^/]+")
		pattern, err := regexp.Compile("^" + expr + "$")
		if err != nil {
			return nil, fmt.Errorf("compile public route %q: %w", rule.Pattern, err)
		}

		methods := make(map[string]struct{}, len(rule.Methods))
		for _, m := range rule.Methods {
			methods[strings.ToUpper(m)] = struct{}{}
		}

		compiled = append(compiled, compiledRule{pattern: pattern, methods: methods})
	}

	return &Matcher{
		publicPaths: publicPaths,
		rules:       compiled,
	}, nil
}

// Match reports whether path+method is public. Path entries match exactly
// or as a directory prefix; endpoint rules match the full path and then
// gate on method. The first rule whose pattern matches decides.
func (m *Matcher) Match(path, method string) bool {
	for _, p := range m.publicPaths {
		if path == p {
			return true
		}
		// "/" is exact-match only; every other entry also covers the
		// subtree beneath it.
		if p == "/" {
			continue
		}
		prefix := p
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	method = strings.ToUpper(method)
	for _, rule := range m.rules {
		if rule.pattern.MatchString(path) {
			_, ok := rule.methods[method]
			return ok
		}
	}

	return false
}
