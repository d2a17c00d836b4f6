package prompt

import (
	"sort"
	"strings"
)

// Vars holds {{name}} substitutions for a template.
type Vars map[string]string

// Render substitutes {{name}} placeholders in the template content. Unknown
// placeholders are left as written; substituted values are never re-expanded.
func Render(tmpl *Template, vars Vars) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl.Content)
}
