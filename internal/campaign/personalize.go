package campaign

import "strings"

// Personalize substitutes every {{key}} occurrence for each key present in
// fields. Tokens without a matching field are left verbatim, so a second
// pass over already-personalized text is a no-op.
//
// No HTML escaping happens here: templates are operator-authored campaign
// content, not user input. That trust boundary is deliberate.
func Personalize(template string, fields map[string]string) string {
	if template == "" || len(fields) == 0 {
		return template
	}

	out := template
	for key, value := range fields {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

// personalizationFields builds the token map for one recipient: the
// built-in name/email tokens overlaid by the recipient's own fields.
func personalizationFields(r Recipient) map[string]string {
	fields := map[string]string{
		"name":  r.Name,
		"email": r.Email,
	}
	for k, v := range r.Fields {
		fields[k] = v
	}
	return fields
}
