// Package deps infers the npm packages a generated component needs.
//
// Detection is lexical. It recognizes the common import forms and an explicit
// directive comment, and it never fails: unrecognized code yields no packages.
package deps

import (
	"regexp"
	"slices"
	"strings"
)

// Latest is the version used for packages without a known pin.
const Latest = "latest"

var (
	directiveRe = regexp.MustCompile(`(?im)^[ \t]*//[ \t]*DEPENDENCIES[ \t]*:(.*)$`)

	importPatterns = []*regexp.Regexp{
		// import X from "x", import {a, b} from "x", import "x", import type T from "x"
		regexp.MustCompile(`\bimport\s+(?:[^;"'()]*?\bfrom\s*)?["']([^"'\n]+)["']`),
		// export {a} from "x", export * from "x"
		regexp.MustCompile(`\bexport\s+[^;"'()]*?\bfrom\s*["']([^"'\n]+)["']`),
		// require("x"), import("x")
		regexp.MustCompile(`\b(?:require|import)\s*\(\s*["']([^"'\n]+)["']\s*\)`),
	}
)

// builtin packages are always installed by the project scaffold.
var builtin = map[string]bool{
	"react":     true,
	"react-dom": true,
}

// versions pins packages that break or drift under "latest".
var versions = map[string]string{
	"react":                "^18.3.1",
	"react-dom":            "^18.3.1",
	"vite":                 "^5.4.10",
	"@vitejs/plugin-react": "^4.3.3",
	"tailwindcss":          "^3.4.14",
	"postcss":              "^8.4.47",
	"autoprefixer":         "^10.4.20",
	"lucide-react":         "^0.454.0",
	"recharts":             "^2.13.3",
	"framer-motion":        "^11.11.11",
	"react-router-dom":     "^6.28.0",
	"date-fns":             "^4.1.0",
	"lodash":               "^4.17.21",
	"clsx":                 "^2.1.1",
	"zustand":              "^5.0.1",
}

// Detect returns the sorted, de-duplicated root package names code depends
// on. Entries from a "// DEPENDENCIES: a, b" directive are always included.
// react and react-dom are never returned.
func Detect(code string) []string {
	seen := make(map[string]bool)
	add := func(spec string) {
		if name, ok := rootPackage(spec); ok && !builtin[name] {
			seen[name] = true
		}
	}

	for _, m := range directiveRe.FindAllStringSubmatch(code, -1) {
		for _, entry := range strings.Split(m[1], ",") {
			add(entry)
		}
	}
	for _, re := range importPatterns {
		for _, m := range re.FindAllStringSubmatch(code, -1) {
			add(m[1])
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// UsesUtilityCSS reports whether code sets className attributes, which is
// taken as a sign that it expects Tailwind.
func UsesUtilityCSS(code string) bool {
	return strings.Contains(code, "className=")
}

// Version returns the pinned version range for pkg, or Latest.
func Version(pkg string) string {
	if v, ok := versions[pkg]; ok {
		return v
	}
	return Latest
}

// rootPackage maps a module specifier to its installable package name.
// Relative and absolute paths, URLs and scheme-prefixed specifiers
// (node:fs, npm:x) are rejected.
func rootPackage(spec string) (string, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.ContainsAny(spec, ": \t") {
		return "", false
	}
	if strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") {
		return "", false
	}

	parts := strings.Split(spec, "/")
	if strings.HasPrefix(spec, "@") {
		if len(parts) < 2 || parts[0] == "@" || parts[1] == "" {
			return "", false
		}
		return parts[0] + "/" + parts[1], true
	}
	return parts[0], true
}
