package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Courses maps course names to courses and remembers the order in which courses were
// added, the JSON form keeps that order.
type Courses struct {
	names  []string
	byName map[string]*Course
}

func (c *Courses) Get(name string) (*Course, bool) {
	course, ok := c.byName[name]
	return course, ok
}

func (c *Courses) getOrAdd(name string) *Course {
	if c.byName == nil {
		c.byName = make(map[string]*Course)
	}
	course, ok := c.byName[name]
	if ok {
		return course
	}
	course = &Course{Substitution: []SubstitutionDay{}}
	c.byName[name] = course
	c.names = append(c.names, name)
	return course
}

// Names returns the course names in insertion order.
func (c *Courses) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Courses) Len() int {
	return len(c.names)
}

func (c Courses) MarshalJSON() ([]byte, error) {
	var buff bytes.Buffer
	buff.WriteByte('{')
	for i, name := range c.names {
		if i > 0 {
			buff.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buff.Write(key)
		buff.WriteByte(':')

		value, err := json.Marshal(c.byName[name])
		if err != nil {
			return nil, err
		}
		buff.Write(value)
	}
	buff.WriteByte('}')
	return buff.Bytes(), nil
}

func (c *Courses) UnmarshalJSON(data []byte) error {
	*c = Courses{}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("courses: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("courses: expected course name, got %v", tok)
		}
		var course Course
		err = dec.Decode(&course)
		if err != nil {
			return fmt.Errorf("courses: %s: %w", name, err)
		}
		*c.getOrAdd(name) = course
	}

	_, err = dec.Token()
	return err
}
