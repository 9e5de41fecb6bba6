package stories

// Queries matches story exports in CSF files (Button.stories.tsx).
//
// Captures:
//   - @story.name   - exported story identifier
//   - @story.value  - initializer (object literal, Template.bind call, arrow)
//   - @story.target - story identifier on the left of "X.args = {...}"
//   - @story.field  - property assigned on the story ("args")
//   - @story.args   - object literal assigned to X.args
const Queries = `
(export_statement
  declaration: (lexical_declaration
    (variable_declarator
      name: (identifier) @story.name
      value: (_) @story.value)))

(expression_statement
  (assignment_expression
    left: (member_expression
      object: (identifier) @story.target
      property: (property_identifier) @story.field)
    right: (object) @story.args))
`
