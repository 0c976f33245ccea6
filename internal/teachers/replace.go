package teachers

import (
	"strconv"
	"strings"
)

// replaceCode replaces a single code that may be decorated as "+Code" or "(Code)".
func (d Directory) replaceCode(code string) (string, bool) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return code, false
	}

	prefix, suffix := "", ""
	switch {
	case strings.HasPrefix(trimmed, "+"):
		prefix = "+"
		trimmed = trimmed[1:]
	case strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")"):
		prefix, suffix = "(", ")"
		trimmed = trimmed[1 : len(trimmed)-1]
	}

	name, ok := d.names[strings.Trim(trimmed, "() ")]
	if !ok {
		return code, false
	}
	return prefix + name + suffix, true
}

// replacePart handles one comma separated part, which may be "Code (Other)".
func (d Directory) replacePart(part string) (string, bool) {
	open := strings.Index(part, "(")
	if open <= 0 || !strings.Contains(part[open:], ")") {
		return d.replaceCode(part)
	}

	before, beforeOk := d.replaceCode(part[:open])
	inside, insideOk := d.replaceCode(part[open:])
	if !beforeOk && !insideOk {
		return part, false
	}
	return strings.TrimSpace(before) + " " + strings.TrimSpace(inside), true
}

// ReplaceField replaces every code in a field like "+Me (Mi), Bal" while keeping the
// decoration around the codes. A field that is a code as a whole is simply replaced.
// The field is returned unchanged if nothing in it is a known code.
func (d Directory) ReplaceField(field string) (string, bool) {
	if field == "" {
		return field, false
	}
	if name, ok := d.names[field]; ok {
		return name, true
	}

	masked, placeholders := d.maskNames(field)
	parts := strings.Split(masked, ",")
	changed := false
	for i, part := range parts {
		replaced, ok := d.replacePart(part)
		if ok {
			changed = true
		}
		parts[i] = strings.TrimSpace(replaced)
	}
	if !changed {
		return field, false
	}
	return unmaskNames(strings.Join(parts, ", "), placeholders), true
}

// maskNames swaps display names that contain separators for placeholders, so a name
// that was already substituted is never split into codes again.
func (d Directory) maskNames(field string) (string, []string) {
	var placeholders []string
	for _, name := range d.guarded {
		if !strings.Contains(field, name) {
			continue
		}
		placeholder := "\x00" + strconv.Itoa(len(placeholders)) + "\x00"
		field = strings.ReplaceAll(field, name, placeholder)
		placeholders = append(placeholders, name)
	}
	return field, placeholders
}

func unmaskNames(field string, names []string) string {
	for i, name := range names {
		field = strings.ReplaceAll(field, "\x00"+strconv.Itoa(i)+"\x00", name)
	}
	return field
}
