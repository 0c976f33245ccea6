package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func encode(v any) ([]byte, error) {
	buff := bytes.NewBuffer(nil)
	encoder := json.NewEncoder(buff)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(v)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// WriteJSON writes v as indented json to path, creating parent directories as needed.
func WriteJSON(path string, v any) error {
	content, err := encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return writeFile(path, content)
}

func writeFile(path string, content []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

// Differs reports whether the encoding of v differs from the content of the file at
// path. A missing file always differs.
func Differs(path string, v any) (bool, error) {
	content, err := encode(v)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", path, err)
	}
	existing, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !bytes.Equal(existing, content), nil
}

// ReadJSON decodes the json file at path into a T.
func ReadJSON[T any](path string) (T, error) {
	var out T
	content, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(content, &out)
	if err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}
