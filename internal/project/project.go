// Package project synthesizes a minimal Vite project around a generated
// component so a dev server can serve it.
package project

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmgilman/canvas/internal/artifact"
	"github.com/jmgilman/canvas/internal/deps"
)

// DevServerPort is the port the generated Vite config binds to.
const DevServerPort = 5173

// Well-known paths in a built tree.
const (
	ManifestPath   = "package.json"
	ViteConfigPath = "vite.config.js"
	IndexPath      = "index.html"
	SourceDir      = "src"
)

// Build returns the project tree for code written in language.
//
// jsx, tsx and friends produce a React project with detected dependencies
// and, when the code uses className attributes, a Tailwind toolchain. html
// produces a static project whose index.html is the code itself.
func Build(code, language string) FileTree {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "html" {
		return buildStatic(code)
	}

	packages := deps.Detect(code)
	tailwind := deps.UsesUtilityCSS(code)

	ext := "jsx"
	if isTyped(lang) {
		ext = "tsx"
	}

	src := FileTree{
		"main.jsx":   NewFile(mainModule),
		"App." + ext: NewFile(artifact.Normalize(code)),
		"index.css":  NewFile(stylesheet(tailwind)),
	}

	tree := FileTree{
		ManifestPath:   NewFile(manifest(packages, tailwind)),
		ViteConfigPath: NewFile(viteConfig(true)),
		IndexPath:      NewFile(indexHTML),
		SourceDir:      NewDirectory(src),
	}
	if tailwind {
		tree["tailwind.config.js"] = NewFile(tailwindConfig)
		tree["postcss.config.js"] = NewFile(postcssConfig)
	}
	return tree
}

func buildStatic(code string) FileTree {
	return FileTree{
		ManifestPath:   NewFile(staticManifest()),
		ViteConfigPath: NewFile(viteConfig(false)),
		IndexPath:      NewFile(code),
	}
}

func isTyped(lang string) bool {
	switch lang {
	case "tsx", "ts", "typescript":
		return true
	default:
		return false
	}
}

type packageJSON struct {
	Name            string            `json:"name"`
	Private         bool              `json:"private"`
	Version         string            `json:"version"`
	Type            string            `json:"type"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func manifest(packages []string, tailwind bool) string {
	pkg := basePackage()
	pkg.Dependencies = map[string]string{
		"react":     deps.Version("react"),
		"react-dom": deps.Version("react-dom"),
	}
	for _, name := range packages {
		pkg.Dependencies[name] = deps.Version(name)
	}

	pkg.DevDependencies["@vitejs/plugin-react"] = deps.Version("@vitejs/plugin-react")
	if tailwind {
		for _, name := range []string{"tailwindcss", "postcss", "autoprefixer"} {
			pkg.DevDependencies[name] = deps.Version(name)
		}
	}
	return encode(pkg)
}

func staticManifest() string {
	return encode(basePackage())
}

func basePackage() packageJSON {
	return packageJSON{
		Name:    "canvas-preview",
		Private: true,
		Version: "0.0.0",
		Type:    "module",
		Scripts: map[string]string{
			"dev":   "vite",
			"build": "vite build",
		},
		DevDependencies: map[string]string{
			"vite": deps.Version("vite"),
		},
	}
}

func encode(v any) string {
	//nolint:errchkjson // only maps and strings
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

func viteConfig(react bool) string {
	var b strings.Builder
	b.WriteString("import { defineConfig } from 'vite';\n")
	if react {
		b.WriteString("import react from '@vitejs/plugin-react';\n")
	}
	b.WriteString("\nexport default defineConfig({\n")
	if react {
		b.WriteString("  plugins: [react()],\n")
	}
	fmt.Fprintf(&b, `  server: {
    host: '0.0.0.0',
    port: %d,
    strictPort: true,
  },
});
`, DevServerPort)
	return b.String()
}

func stylesheet(tailwind bool) string {
	if tailwind {
		return "@tailwind base;\n@tailwind components;\n@tailwind utilities;\n"
	}
	return `body {
  margin: 0;
  font-family: system-ui, -apple-system, sans-serif;
}
`
}

const indexHTML = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>Preview</title>
    <link rel="stylesheet" href="/src/index.css" />
  </head>
  <body>
    <div id="root"></div>
    <script type="module" src="/src/main.jsx"></script>
  </body>
</html>
`

const mainModule = `import React from 'react';
import ReactDOM from 'react-dom/client';
import App from './App';
import './index.css';

ReactDOM.createRoot(document.getElementById('root')).render(
  <React.StrictMode>
    <App />
  </React.StrictMode>,
);
`

const tailwindConfig = `/** @type {import('tailwindcss').Config} */
export default {
  content: ['./index.html', './src/**/*.{js,jsx,ts,tsx}'],
  theme: {
    extend: {},
  },
  plugins: [],
};
`

const postcssConfig = `export default {
  plugins: {
    tailwindcss: {},
    autoprefixer: {},
  },
};
`
