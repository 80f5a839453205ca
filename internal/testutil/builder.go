// Package testutil provides database builders and golden-file helpers for tests.
package testutil

import "apidiff/internal/descriptor"

// DBBuilder assembles a descriptor.Database in dump order. Member and item
// calls attach to the most recently declared class or enum.
type DBBuilder struct {
	db    *descriptor.Database
	class *descriptor.Class
	enum  *descriptor.Enum
}

// NewDB starts an empty database.
func NewDB() *DBBuilder {
	return &DBBuilder{db: descriptor.NewDatabase()}
}

// Class declares a class. An empty superclass means the root sentinel.
func (b *DBBuilder) Class(name, superclass string, tags ...string) *DBBuilder {
	b.class = descriptor.NewClass(name, superclass)
	b.class.Tags = descriptor.NewTags(tags...)
	b.db.AddClass(b.class)
	return b
}

// MemoryCategory sets the memory category of the current class.
func (b *DBBuilder) MemoryCategory(category string) *DBBuilder {
	b.mustClass().MemoryCategory = category
	return b
}

// Member attaches a prebuilt member to the current class.
func (b *DBBuilder) Member(m *descriptor.Member) *DBBuilder {
	b.mustClass().AddMember(m)
	return b
}

// Property attaches a property with a DataType value type.
func (b *DBBuilder) Property(name, valueType string, security descriptor.Security, tags ...string) *DBBuilder {
	m := descriptor.NewMember(descriptor.KindProperty, name)
	m.ValueType = descriptor.TypeRef{Category: "DataType", Name: valueType}
	m.Security = descriptor.Uniform(security)
	m.Serialization = descriptor.Serialization{CanLoad: true, CanSave: true}
	m.Tags = descriptor.NewTags(tags...)
	return b.Member(m)
}

// Function attaches a function.
func (b *DBBuilder) Function(name, returnType string, security descriptor.Security, params ...descriptor.Parameter) *DBBuilder {
	m := descriptor.NewMember(descriptor.KindFunction, name)
	m.ReturnType = descriptor.TypeRef{Category: "Primitive", Name: returnType}
	m.Security = descriptor.Uniform(security)
	m.Parameters = params
	return b.Member(m)
}

// Event attaches an event.
func (b *DBBuilder) Event(name string, security descriptor.Security, params ...descriptor.Parameter) *DBBuilder {
	m := descriptor.NewMember(descriptor.KindEvent, name)
	m.Security = descriptor.Uniform(security)
	m.Parameters = params
	return b.Member(m)
}

// Callback attaches a callback.
func (b *DBBuilder) Callback(name, returnType string, security descriptor.Security, params ...descriptor.Parameter) *DBBuilder {
	m := descriptor.NewMember(descriptor.KindCallback, name)
	m.ReturnType = descriptor.TypeRef{Category: "Primitive", Name: returnType}
	m.Security = descriptor.Uniform(security)
	m.Parameters = params
	return b.Member(m)
}

// Enum declares an enum.
func (b *DBBuilder) Enum(name string, tags ...string) *DBBuilder {
	b.enum = descriptor.NewEnum(name)
	b.enum.Tags = descriptor.NewTags(tags...)
	b.db.AddEnum(b.enum)
	return b
}

// Item attaches an item to the current enum.
func (b *DBBuilder) Item(name string, value int, tags ...string) *DBBuilder {
	if b.enum == nil {
		panic("testutil: Item called before Enum")
	}
	item := descriptor.NewEnumItem(name, value)
	item.Tags = descriptor.NewTags(tags...)
	b.enum.AddItem(item)
	return b
}

// Build returns the database.
func (b *DBBuilder) Build() *descriptor.Database {
	return b.db
}

func (b *DBBuilder) mustClass() *descriptor.Class {
	if b.class == nil {
		panic("testutil: member declared before Class")
	}
	return b.class
}

// Param is shorthand for a primitive-typed parameter.
func Param(name, typeName string) descriptor.Parameter {
	return descriptor.Parameter{Name: name, Type: descriptor.TypeRef{Category: "Primitive", Name: typeName}}
}
