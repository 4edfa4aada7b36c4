package mcpserver

// LinkSyntaxContract describes the canonical embedded-link syntax that
// LLM consumers should follow when writing note bodies.
const LinkSyntaxContract = `# Laguz Link Syntax Contract

Note bodies are standard Markdown. References to other items embed one of
two forms anywhere in the text.

## Forms

` + "```" + `markdown
See :/0123456789abcdef0123456789abcdef for details.

Or the wiki form: [[0123456789abcdef0123456789abcdef]]
` + "```" + `

## Rules

1. **Ids are 32 lowercase hex characters.** Get them from search results or
   tool output; never invent one.
2. **The protocol form** ` + "`" + `:/<id>` + "`" + ` may reference a note, a folder, or an
   attachment. When the same id exists as more than one kind, it resolves
   as a note first, then a folder, then an attachment.
3. **The wiki form** ` + "`" + `[[target]]` + "`" + ` takes an id. Renderers may also accept a
   note title as the target, but titles are not unique, so prefer ids.
4. **Dangling links are allowed.** A reference to a deleted item is left in
   place and simply resolves to nothing; do not repair bodies proactively.
5. **Renaming an id** (the rename-id operation) is the only operation that
   rewrites references inside other notes. Moves, renames of titles, and
   copies never touch bodies.

## Attachments

- Upload via the ` + "`" + `upload_asset` + "`" + ` tool; it returns the new attachment id.
- Embed images with the protocol form: ` + "`" + `![description](:/<id>)` + "`" + `.
`
