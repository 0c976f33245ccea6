package teachers

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/titanous/json5"
)

// DefaultNameField is the field of a teacher entry that is used as display name.
const DefaultNameField = "Nachname"

// Directory maps codes (teacher or subject abbreviations) to display names.
type Directory struct {
	names map[string]string
	// guarded holds the display names that contain "," "(" ")" or "+", longest first.
	guarded []string
}

func NewDirectory(names map[string]string) Directory {
	copied := make(map[string]string, len(names))
	for code, name := range names {
		copied[code] = name
	}
	return newDirectory(copied)
}

func newDirectory(names map[string]string) Directory {
	var guarded []string
	for _, name := range names {
		if strings.ContainsAny(name, ",()+") && !slices.Contains(guarded, name) {
			guarded = append(guarded, name)
		}
	}
	slices.SortFunc(guarded, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return Directory{names: names, guarded: guarded}
}

// LoadDirectory reads a directory file. Each value is either the display name or an
// object like {"Name": ..., "Nachname": ..., "Vorname": ..., "Fächer": ...} from which
// nameField is taken, falling back to "Name".
func LoadDirectory(path, nameField string) (Directory, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Directory{}, fmt.Errorf("read teacher directory: %w", err)
	}
	return ParseDirectory(contents, nameField)
}

func ParseDirectory(contents []byte, nameField string) (Directory, error) {
	if nameField == "" {
		nameField = DefaultNameField
	}

	var raw map[string]any
	err := json5.Unmarshal(contents, &raw)
	if err != nil {
		return Directory{}, fmt.Errorf("parse teacher directory: %w", err)
	}

	names := make(map[string]string, len(raw))
	for code, value := range raw {
		switch v := value.(type) {
		case string:
			names[code] = v
		case map[string]any:
			name, ok := v[nameField].(string)
			if !ok || name == "" {
				name, ok = v["Name"].(string)
			}
			if !ok || name == "" {
				return Directory{}, fmt.Errorf("teacher %q: no %q or \"Name\" field", code, nameField)
			}
			names[code] = name
		default:
			return Directory{}, fmt.Errorf("teacher %q: unsupported entry of type %T", code, value)
		}
	}
	return newDirectory(names), nil
}

func (d Directory) Lookup(code string) (string, bool) {
	name, ok := d.names[code]
	return name, ok
}

func (d Directory) Len() int {
	return len(d.names)
}

// Codes returns all codes, sorted.
func (d Directory) Codes() []string {
	codes := make([]string, 0, len(d.names))
	for code := range d.names {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}
