package descriptor

import "sync"

// Class describes one reflected class.
type Class struct {
	Base
	Superclass     string
	MemoryCategory string
	Security       Security
	Members        []*Member

	db         *Database
	levelOnce  sync.Once
	level      int
	memberByID map[string]*Member
}

// NewClass creates a detached class. Add it to a Database to resolve its
// inheritance chain.
func NewClass(name, superclass string) *Class {
	if superclass == "" {
		superclass = RootSuperclass
	}
	return &Class{
		Base:       Base{Name: name},
		Superclass: superclass,
		Security:   SecurityNone,
		memberByID: make(map[string]*Member),
	}
}

// Kind implements Descriptor.
func (c *Class) Kind() Kind { return KindClass }

// QualifiedName implements Descriptor.
func (c *Class) QualifiedName() string { return c.Name }

// Database returns the database the class was added to.
func (c *Class) Database() *Database { return c.db }

// AddMember appends m and points its back-reference at c. A later member
// with the same name replaces the earlier one in name lookups.
func (c *Class) AddMember(m *Member) {
	m.Class = c
	c.Members = append(c.Members, m)
	if c.memberByID == nil {
		c.memberByID = make(map[string]*Member)
	}
	c.memberByID[m.Name] = m
}

// Member looks up a member by name.
func (c *Class) Member(name string) *Member {
	return c.memberByID[name]
}

// IsRoot reports whether the class sits directly under the root sentinel.
func (c *Class) IsRoot() bool {
	return c.Superclass == RootSuperclass || c.Superclass == ""
}

// InheritanceLevel is 0 for root classes and parent level + 1 otherwise.
// It is -1 when the chain leaves the database or loops. The result is
// computed on first use and cached.
func (c *Class) InheritanceLevel() int {
	c.levelOnce.Do(func() {
		c.level = c.walkLevel()
	})
	return c.level
}

func (c *Class) walkLevel() int {
	if c.db == nil {
		if c.IsRoot() {
			return 0
		}
		return -1
	}
	seen := map[*Class]bool{c: true}
	level := 0
	for cur := c; !cur.IsRoot(); level++ {
		parent := c.db.Class(cur.Superclass)
		if parent == nil || seen[parent] {
			return -1
		}
		seen[parent] = true
		cur = parent
	}
	return level
}

// IsAncestorOf reports whether c appears in desc's superclass chain. Classes
// from different databases are never related.
func (c *Class) IsAncestorOf(desc *Class) bool {
	if c == nil || desc == nil || c.db == nil || c.db != desc.db || c == desc {
		return false
	}
	ancestorLevel := c.InheritanceLevel()
	if ancestorLevel < 0 {
		return false
	}
	for cur := desc; ; {
		if ancestorLevel >= cur.InheritanceLevel() {
			return false
		}
		parent := c.db.Class(cur.Superclass)
		if parent == nil {
			return false
		}
		if parent == c {
			return true
		}
		cur = parent
	}
}

// Schema implements Descriptor.
func (c *Class) Schema(detailed bool) []string {
	if !detailed {
		return []string{LabelDescriptorType, LabelName}
	}
	return []string{LabelDescriptorType, LabelName, LabelInherits, LabelSuperclass, LabelSecurity, LabelTags}
}

// Tokens implements Descriptor.
func (c *Class) Tokens() map[string]Token {
	tokens := map[string]Token{
		LabelDescriptorType: keyword("Class"),
		LabelName:           name(c.Name),
		LabelTags:           tagsToken(c.Tags),
	}
	if !c.IsRoot() {
		tokens[LabelInherits] = Token{Class: ClassSymbol, Text: ":"}
		tokens[LabelSuperclass] = name(c.Superclass)
	}
	if !c.Security.IsNone() {
		tokens[LabelSecurity] = securityToken(c.Security.String())
	}
	return tokens
}
