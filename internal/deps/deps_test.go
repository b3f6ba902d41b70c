package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{
			name: "mixed sample",
			code: `// DEPENDENCIES: foo, bar
import X from "left-pad";
import {Y} from "@scope/pkg/sub";
import React, { useState } from "react";
import { createRoot } from "react-dom/client";
`,
			want: []string{"@scope/pkg", "bar", "foo", "left-pad"},
		},
		{
			name: "no imports",
			code: "const x = 5;",
			want: []string{},
		},
		{
			name: "directive is case insensitive and normalized",
			code: "//dependencies: lodash/fp , @tanstack/react-query/devtools,,\nconst a = 1;",
			want: []string{"@tanstack/react-query", "lodash"},
		},
		{
			name: "directive is honored without imports of the package",
			code: "// DEPENDENCIES: chart.js\nexport default function App() { return null; }",
			want: []string{"chart.js"},
		},
		{
			name: "react entry points excluded",
			code: `import { jsx } from "react/jsx-runtime";
import "react-dom";
// DEPENDENCIES: react, react-dom`,
			want: []string{},
		},
		{
			name: "relative absolute urls and builtins ignored",
			code: `import a from "./a";
import b from "../b";
import c from "/abs/c";
import d from "https://esm.sh/d";
import fs from "node:fs";`,
			want: []string{},
		},
		{
			name: "side effect import",
			code: `import "normalize.css";`,
			want: []string{"normalize.css"},
		},
		{
			name: "multi line named import",
			code: "import {\n  LineChart,\n  Line,\n} from 'recharts';",
			want: []string{"recharts"},
		},
		{
			name: "type import and re-export",
			code: `import type { Props } from "@types/thing";
export { motion } from "framer-motion";
export * from "zustand/middleware";`,
			want: []string{"@types/thing", "framer-motion", "zustand"},
		},
		{
			name: "require and dynamic import",
			code: `const _ = require("lodash");
const mod = await import("three/addons/controls");`,
			want: []string{"lodash", "three"},
		},
		{
			name: "duplicates collapse",
			code: `import a from "lodash/a";
import b from "lodash/b";
// DEPENDENCIES: lodash`,
			want: []string{"lodash"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.code)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUsesUtilityCSS(t *testing.T) {
	assert.True(t, UsesUtilityCSS(`<div className="p-4">hi</div>`))
	assert.True(t, UsesUtilityCSS(`<div className={cls}>hi</div>`))
	assert.False(t, UsesUtilityCSS(`<div style={{padding: 4}}>hi</div>`))
	assert.False(t, UsesUtilityCSS(`el.className = "x"`))
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "^18.3.1", Version("react"))
	assert.Equal(t, Latest, Version("left-pad"))
}
