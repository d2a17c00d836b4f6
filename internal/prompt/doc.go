// Package prompt resolves and renders the instruction templates sent to the
// text-generation service.
//
// Templates are resolved in order:
//  1. <site root>/.episodes/templates/<name>.md (site-local)
//  2. <config dir>/templates/<name>.md (user global)
//  3. Built-in templates (embedded in binary)
//
// A template is Markdown with optional YAML front matter carrying its name,
// description and the system instruction that accompanies it.
package prompt
