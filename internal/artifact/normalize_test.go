package artifact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("default export unchanged", func(t *testing.T) {
		code := "export default function App(){ return <div>Hi</div>; }"
		assert.Equal(t, code, Normalize(code))
	})

	t.Run("other default export forms unchanged", func(t *testing.T) {
		for _, code := range []string{
			"function App(){ return null; }\nexport { App as default };",
			"function App(){ return null; }\nexport {\n  helper,\n  App as default,\n};",
			"export { default } from './Widget';",
			"// Renders the greeting.\nexport default function App(){ return null; }",
			"/** Renders the greeting. */ export default function App(){ return null; }",
			"const App = () => null; export default App;",
		} {
			assert.Equal(t, code, Normalize(code), code)
		}
	})

	t.Run("commented out default export ignored", func(t *testing.T) {
		got := Normalize("function App(){ return null; }\n// export default App;")
		assert.True(t, strings.HasSuffix(got, "\n\nexport default App;\n"))
	})

	t.Run("named export list without default", func(t *testing.T) {
		got := Normalize("function App(){ return null; }\nexport { App, defaultTheme };")
		assert.True(t, strings.HasSuffix(got, "\n\nexport default App;\n"))
	})

	t.Run("strips directives", func(t *testing.T) {
		code := "// DEPENDENCIES: lodash\nexport default function App(){ return null; }"
		assert.Equal(t, "export default function App(){ return null; }", Normalize(code))
	})

	t.Run("exports known component", func(t *testing.T) {
		code := "function helper() {}\n\nconst Dashboard = () => <div/>;\n\n"
		assert.Equal(t, "function helper() {}\n\nconst Dashboard = () => <div/>;\n\nexport default Dashboard;\n", Normalize(code))
	})

	t.Run("first allowed declaration wins", func(t *testing.T) {
		code := "class Card extends React.Component {}\nfunction App() { return <Card/>; }"
		got := Normalize(code)
		assert.True(t, strings.HasSuffix(got, "export default Card;\n"))
	})

	t.Run("named export still gets a default", func(t *testing.T) {
		got := Normalize("export function Counter() { return 1; }")
		assert.True(t, strings.HasSuffix(got, "\n\nexport default Counter;\n"))
	})

	t.Run("nested declarations ignored", func(t *testing.T) {
		code := "function outer() {\n  function App() {}\n}"
		got := Normalize(code)
		assert.Contains(t, got, "function "+FallbackName+"()")
	})

	t.Run("fallback wrapper", func(t *testing.T) {
		got := Normalize("const x = 5;")

		assert.Equal(t, `function GeneratedComponent() {
  const x = 5;
  return (
    <pre style={{ padding: "1rem", whiteSpace: "pre-wrap" }}>{"const x = 5;"}</pre>
  );
}

export default GeneratedComponent;
`, got)
	})

	t.Run("fallback hoists imports and drops export keywords", func(t *testing.T) {
		code := "import { useState } from 'react';\nimport {\n  a,\n} from \"lib\";\nexport const value = a + 1;\nconsole.log(value);"
		got := Normalize(code)

		assert.True(t, strings.HasPrefix(got, "import { useState } from 'react';\nimport {\n  a,\n} from \"lib\";\n\nfunction GeneratedComponent() {\n"))
		assert.Contains(t, got, "\n  const value = a + 1;\n  console.log(value);\n")
		assert.NotContains(t, got, "export const")
		assert.True(t, strings.HasSuffix(got, "export default GeneratedComponent;\n"))
	})

	t.Run("fallback escapes the rendered source", func(t *testing.T) {
		got := Normalize("let s = \"</pre>\";\n`tick`")
		assert.Contains(t, got, `{"let s = \"\u003c/pre\u003e\";\n`+"`tick`"+`"}`)
	})

	t.Run("empty input", func(t *testing.T) {
		got := Normalize("")
		assert.Contains(t, got, "function GeneratedComponent() {")
		assert.True(t, strings.HasSuffix(got, "export default GeneratedComponent;\n"))
	})
}
