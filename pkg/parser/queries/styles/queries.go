package styles

// Queries matches stylesheet imports in TypeScript and JavaScript sources.
//
// Captures:
//   - @style.source  - module specifier of an import ending in .css
//   - @style.binding - local name of a default or namespace import
//
// The last pattern also matches bound imports, so one import can produce two
// matches; callers dedupe by source position. Side-effect imports
// (import './x.css') only match the last pattern.
const Queries = `
(import_statement
  (import_clause (identifier) @style.binding)
  source: (string (string_fragment) @style.source)
  (#match? @style.source "\\.css$"))

(import_statement
  (import_clause (namespace_import (identifier) @style.binding))
  source: (string (string_fragment) @style.source)
  (#match? @style.source "\\.css$"))

(import_statement
  source: (string (string_fragment) @style.source)
  (#match? @style.source "\\.css$"))
`
