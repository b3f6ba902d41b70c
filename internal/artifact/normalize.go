package artifact

import (
	"encoding/json"
	"regexp"
	"slices"
	"strings"
)

// FallbackName names the component that wraps code without an entry point.
const FallbackName = "GeneratedComponent"

// EntryNames are the declaration names accepted as a component entry point,
// in no particular order.
var EntryNames = []string{
	"App", "Component", "Main", "Page", "Home", "Dashboard", "Counter",
	"Example", "Demo", "Preview", "Widget", "Card", "Form", "Calculator",
	"Game", "TodoList", "Todo", "Timer", "Chart", "Layout",
}

var (
	directiveRe     = regexp.MustCompile(`(?im)^[ \t]*//[ \t]*DEPENDENCIES[ \t]*:.*(?:\r?\n|$)`)
	// export default at a statement start, or a default in an export list
	// such as export { App as default } or export { default } from "./App".
	exportDefaultRe = regexp.MustCompile(
		`(?m)(?:^|[;}]|\*/)[ \t]*export[ \t]+default\b|(?:^|[;}]|\*/)[ \t]*export[ \t]*\{(?:[^}]*[\s,{])?(?:[\w$]+[ \t]+as[ \t]+)?default[\s,}]`)
	// Declarations at column zero only; nested ones are indented.
	declarationRe = regexp.MustCompile(
		`(?m)^(?:export[ \t]+)?(?:async[ \t]+)?(?:function[ \t]*\*?[ \t]*|const[ \t]+|let[ \t]+|var[ \t]+|class[ \t]+)([A-Za-z_$][\w$]*)`)
	importStmtRe = regexp.MustCompile(`(?m)^[ \t]*import[\s{*][^;"']*["'][^"'\n]+["'][ \t]*;?[ \t]*(?:\r?\n|$)`)
	exportKwRe   = regexp.MustCompile(`(?m)^([ \t]*)export[ \t]+`)
)

// Normalize rewrites code so that it has exactly one default-exported
// component. Dependency directives are removed first. Code with an existing
// default export is returned unchanged. Otherwise the first top-level
// declaration named in EntryNames is exported, and failing that the whole
// snippet is wrapped in FallbackName.
//
// The transform is lexical and best-effort; it never fails.
func Normalize(code string) string {
	code = directiveRe.ReplaceAllString(code, "")

	if exportDefaultRe.MatchString(code) {
		return code
	}

	for _, m := range declarationRe.FindAllStringSubmatch(code, -1) {
		if slices.Contains(EntryNames, m[1]) {
			return strings.TrimRight(code, " \t\r\n") + "\n\nexport default " + m[1] + ";\n"
		}
	}

	return wrap(code)
}

// wrap hoists import statements and runs the remaining statements inside
// FallbackName, which renders the snippet source.
func wrap(code string) string {
	imports := importStmtRe.FindAllString(code, -1)
	body := importStmtRe.ReplaceAllString(code, "")
	body = exportKwRe.ReplaceAllString(body, "$1")

	//nolint:errchkjson // marshaling a string cannot fail
	source, _ := json.Marshal(strings.TrimSpace(code))

	var b strings.Builder
	for _, imp := range imports {
		b.WriteString(strings.TrimSpace(imp))
		b.WriteString("\n")
	}
	if len(imports) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("function " + FallbackName + "() {\n")
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		if strings.TrimSpace(line) == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString("  " + strings.TrimRight(line, " \t\r") + "\n")
	}
	b.WriteString("  return (\n")
	b.WriteString("    <pre style={{ padding: \"1rem\", whiteSpace: \"pre-wrap\" }}>{")
	b.Write(source)
	b.WriteString("}</pre>\n")
	b.WriteString("  );\n")
	b.WriteString("}\n\n")
	b.WriteString("export default " + FallbackName + ";\n")
	return b.String()
}
