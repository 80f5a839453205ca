package descriptor

import "sort"

// Database is one loaded API snapshot.
type Database struct {
	classes map[string]*Class
	enums   map[string]*Enum
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{
		classes: make(map[string]*Class),
		enums:   make(map[string]*Enum),
	}
}

// AddClass registers c, replacing any class with the same name.
func (db *Database) AddClass(c *Class) {
	c.db = db
	db.classes[c.Name] = c
}

// AddEnum registers e, replacing any enum with the same name.
func (db *Database) AddEnum(e *Enum) {
	db.enums[e.Name] = e
}

// Class looks up a class by name.
func (db *Database) Class(name string) *Class {
	if db == nil {
		return nil
	}
	return db.classes[name]
}

// Enum looks up an enum by name.
func (db *Database) Enum(name string) *Enum {
	if db == nil {
		return nil
	}
	return db.enums[name]
}

// Classes returns every class sorted by name.
func (db *Database) Classes() []*Class {
	out := make([]*Class, 0, len(db.classes))
	for _, c := range db.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Enums returns every enum sorted by name.
func (db *Database) Enums() []*Enum {
	out := make([]*Enum, 0, len(db.enums))
	for _, e := range db.enums {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ClassCount returns the number of classes.
func (db *Database) ClassCount() int { return len(db.classes) }

// EnumCount returns the number of enums.
func (db *Database) EnumCount() int { return len(db.enums) }
