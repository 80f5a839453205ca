package descriptor

import (
	"sort"
	"testing"
)

func buildHierarchy() *Database {
	db := NewDatabase()
	db.AddClass(NewClass("Instance", RootSuperclass))
	db.AddClass(NewClass("PVInstance", "Instance"))
	db.AddClass(NewClass("BasePart", "PVInstance"))
	db.AddClass(NewClass("Part", "BasePart"))
	db.AddClass(NewClass("MeshPart", "BasePart"))
	db.AddClass(NewClass("Orphan", "Missing"))
	db.AddClass(NewClass("LoopA", "LoopB"))
	db.AddClass(NewClass("LoopB", "LoopA"))
	return db
}

func TestInheritanceLevel(t *testing.T) {
	db := buildHierarchy()
	tests := map[string]int{
		"Instance":   0,
		"PVInstance": 1,
		"BasePart":   2,
		"Part":       3,
		"Orphan":     -1,
		"LoopA":      -1,
	}
	for className, want := range tests {
		t.Run(className, func(t *testing.T) {
			if got := db.Class(className).InheritanceLevel(); got != want {
				t.Errorf("InheritanceLevel() = %d, want %d", got, want)
			}
		})
	}
}

func TestIsAncestorOf(t *testing.T) {
	db := buildHierarchy()
	tests := []struct {
		ancestor, desc string
		want           bool
	}{
		{"BasePart", "Part", true},
		{"Instance", "MeshPart", true},
		{"Part", "BasePart", false},
		{"Part", "MeshPart", false},
		{"Part", "Part", false},
		{"Instance", "Orphan", false},
		{"LoopA", "LoopB", false},
	}
	for _, tt := range tests {
		t.Run(tt.ancestor+">"+tt.desc, func(t *testing.T) {
			if got := db.Class(tt.ancestor).IsAncestorOf(db.Class(tt.desc)); got != tt.want {
				t.Errorf("IsAncestorOf() = %v, want %v", got, tt.want)
			}
		})
	}

	other := buildHierarchy()
	if db.Class("BasePart").IsAncestorOf(other.Class("Part")) {
		t.Error("classes from different databases must not be related")
	}
}

func TestDescribeText(t *testing.T) {
	db := NewDatabase()
	part := NewClass("Part", "BasePart")
	part.Tags = NewTags("NotCreatable")
	db.AddClass(part)

	size := NewMember(KindProperty, "Size")
	size.ValueType = TypeRef{Category: "DataType", Name: "Vector3"}
	size.Security = Uniform(RobloxScriptSecurity)
	part.AddMember(size)

	getMass := NewMember(KindFunction, "GetMass")
	getMass.ReturnType = TypeRef{Category: "Primitive", Name: "float"}
	part.AddMember(getMass)

	touched := NewMember(KindEvent, "Touched")
	touched.Parameters = Parameters{{Name: "otherPart", Type: TypeRef{Category: "Class", Name: "BasePart"}}}
	touched.Tags = NewTags("Deprecated")
	part.AddMember(touched)

	root := NewClass("Instance", "")

	material := NewEnum("Material")
	plastic := NewEnumItem("Plastic", 256)
	plastic.LegacyNames = []string{"PlasticOld"}
	material.AddItem(plastic)

	tests := []struct {
		name     string
		d        Descriptor
		detailed bool
		want     string
	}{
		{"class summary", part, false, "Class `Part`"},
		{"class detailed", part, true, "Class `Part` : `BasePart` [NotCreatable]"},
		{"root class", root, true, "Class `Instance`"},
		{"property summary", size, false, "Property `Part.Size`"},
		{"property detailed", size, true, "Property `Part.Size`: `Vector3` {RobloxScriptSecurity}"},
		{"function detailed", getMass, true, "Function `Part.GetMass`(): `float`"},
		{"event detailed", touched, true, "Event `Part.Touched`(otherPart: BasePart) [Deprecated]"},
		{"enum detailed", material, true, "Enum `Material`"},
		{"item detailed", plastic, true, "EnumItem `Material.Plastic`: 256 (legacy: PlasticOld)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeText(tt.d, tt.detailed); got != tt.want {
				t.Errorf("DescribeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveElidesUnknownAndEmpty(t *testing.T) {
	tokens := map[string]Token{
		"A": {Class: ClassText, Text: "a"},
		"B": {Class: ClassText, Text: ""},
	}
	got := Resolve([]string{"A", "B", "Missing"}, tokens)
	if len(got) != 1 || got[0].Label != "A" {
		t.Errorf("Resolve() = %+v, want only A", got)
	}
}

func TestCompare(t *testing.T) {
	db := NewDatabase()
	a := NewClass("A", "")
	b := NewClass("B", "")
	db.AddClass(a)
	db.AddClass(b)
	prop := NewMember(KindProperty, "Z")
	a.AddMember(prop)
	fn := NewMember(KindFunction, "A")
	b.AddMember(fn)

	e := NewEnum("E")
	high := NewEnumItem("Alpha", 2)
	low := NewEnumItem("Beta", 1)
	e.AddItem(high)
	e.AddItem(low)

	items := []Descriptor{high, fn, e, b, prop, low, a}
	sort.Slice(items, func(i, j int) bool { return Compare(items[i], items[j]) < 0 })

	var got []string
	for _, d := range items {
		got = append(got, d.QualifiedName())
	}
	want := []string{"A", "B", "A.Z", "B.A", "E", "E.Beta", "E.Alpha"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", got, want)
		}
	}
}

func TestRename(t *testing.T) {
	db := NewDatabase()
	part := NewClass("Part", "")
	db.AddClass(part)
	size := NewMember(KindProperty, "Size")
	size.ValueType = TypeRef{Name: "Vector3"}
	part.AddMember(size)

	got := FormatText(Rename(Describe(size, true), "Part", "BasePart"))
	if want := "Property `BasePart.Size`: `Vector3`"; got != want {
		t.Errorf("Rename() = %q, want %q", got, want)
	}
}

func TestNewMemberPanicsOnClassKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewMember(KindClass) should panic")
		}
	}()
	NewMember(KindClass, "Nope")
}
