package diff

import (
	"testing"

	"apidiff/internal/descriptor"
	"apidiff/internal/testutil"
)

func partDB() *descriptor.Database {
	return testutil.NewDB().
		Class("Instance", "").
		Property("Name", "string", descriptor.SecurityNone).
		Class("BasePart", "Instance").
		Property("Size", "Vector3", descriptor.SecurityNone).
		Function("GetMass", "float", descriptor.SecurityNone).
		Enum("Material").
		Item("Plastic", 256).
		Item("Wood", 512).
		Build()
}

func headers(diffs []*Diff) []string {
	out := make([]string, len(diffs))
	for i, d := range diffs {
		out[i] = d.HeaderText()
	}
	return out
}

func assertHeaders(t *testing.T, diffs []*Diff, want ...string) {
	t.Helper()
	got := headers(diffs)
	if len(got) != len(want) {
		t.Fatalf("got %d diffs %q, want %d %q", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("diff[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCompareIdenticalIsEmpty(t *testing.T) {
	db := partDB()
	if diffs := Compare(db, db); len(diffs) != 0 {
		t.Fatalf("Compare(db, db) returned %d diffs: %q", len(diffs), headers(diffs))
	}
	if diffs := Compare(partDB(), partDB()); len(diffs) != 0 {
		t.Fatalf("Compare of equal databases returned %d diffs: %q", len(diffs), headers(diffs))
	}
}

func TestCompareClassAddAndRemove(t *testing.T) {
	oldDB := testutil.NewDB().
		Class("Sky", "").
		Property("StarCount", "int", descriptor.SecurityNone).
		Build()
	newDB := testutil.NewDB().
		Class("Atmosphere", "").
		Property("Density", "float", descriptor.SecurityNone).
		Function("Reset", "void", descriptor.PluginSecurity).
		Build()

	diffs := Compare(oldDB, newDB)
	assertHeaders(t, diffs,
		"Added Class `Atmosphere`",
		"Removed Class `Sky`",
	)

	added := diffs[0]
	if !added.Detailed || len(added.Children) != 2 {
		t.Fatalf("class add: detailed=%v children=%d", added.Detailed, len(added.Children))
	}
	assertHeaders(t, added.Children,
		"Added Property `Atmosphere.Density`: `float`",
		"Added Function `Atmosphere.Reset`(): `void` {PluginSecurity}",
	)

	removed := diffs[1]
	if removed.Detailed || len(removed.Children) != 1 || removed.Children[0].Detailed {
		t.Fatalf("class remove should be summary-only with summary children")
	}
	assertHeaders(t, removed.Children, "Removed Property `Sky.StarCount`")
}

func TestCompareMemberFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(db *descriptor.Database)
		want   []string
	}{
		{
			name: "value type",
			mutate: func(db *descriptor.Database) {
				db.Class("BasePart").Member("Size").ValueType = descriptor.TypeRef{Category: "DataType", Name: "Vector2"}
			},
			want: []string{"Changed the value type of Property `BasePart.Size`"},
		},
		{
			name: "uniform security",
			mutate: func(db *descriptor.Database) {
				db.Class("BasePart").Member("Size").Security = descriptor.Uniform(descriptor.PluginSecurity)
			},
			want: []string{"Changed the security of Property `BasePart.Size`"},
		},
		{
			name: "split security",
			mutate: func(db *descriptor.Database) {
				db.Class("BasePart").Member("Size").Security = descriptor.ReadWriteSecurity{
					Read:  descriptor.SecurityNone,
					Write: descriptor.PluginSecurity,
				}
			},
			want: []string{"Changed the write permissions of Property `BasePart.Size`"},
		},
		{
			name: "serialization",
			mutate: func(db *descriptor.Database) {
				db.Class("BasePart").Member("Size").Serialization = descriptor.Serialization{CanLoad: true}
			},
			want: []string{"Changed the serialization of Property `BasePart.Size`"},
		},
		{
			name: "parameters and return type",
			mutate: func(db *descriptor.Database) {
				m := db.Class("BasePart").Member("GetMass")
				m.Parameters = descriptor.Parameters{testutil.Param("density", "float")}
				m.ReturnType = descriptor.TypeRef{Category: "Primitive", Name: "double"}
			},
			want: []string{
				"Changed the parameters of Function `BasePart.GetMass`",
				"Changed the return type of Function `BasePart.GetMass`",
			},
		},
		{
			name: "thread safety",
			mutate: func(db *descriptor.Database) {
				db.Class("BasePart").Member("GetMass").ThreadSafety = "Safe"
			},
			want: []string{"Changed the thread safety of Function `BasePart.GetMass`"},
		},
		{
			name: "superclass",
			mutate: func(db *descriptor.Database) {
				db.Class("BasePart").Superclass = descriptor.RootSuperclass
			},
			want: []string{"Changed the superclass of Class `BasePart`"},
		},
		{
			name: "enum item value",
			mutate: func(db *descriptor.Database) {
				db.Enum("Material").Item("Wood").Value = 513
			},
			want: []string{"Changed the value of EnumItem `Material.Wood`"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newDB := partDB()
			tt.mutate(newDB)
			assertHeaders(t, Compare(partDB(), newDB), tt.want...)
		})
	}
}

func TestCompareChangeBody(t *testing.T) {
	newDB := partDB()
	newDB.Class("BasePart").Member("Size").ValueType = descriptor.TypeRef{Category: "Enum", Name: "Axis"}

	diffs := Compare(partDB(), newDB)
	if len(diffs) != 1 {
		t.Fatalf("expected 1 diff, got %d", len(diffs))
	}
	body := diffs[0].Body()
	if len(body) != 2 {
		t.Fatalf("expected 2 body lines, got %d", len(body))
	}
	if got := descriptor.FormatText(body[0]); got != "from: `Vector3`" {
		t.Errorf("from line = %q", got)
	}
	if got := descriptor.FormatText(body[1]); got != "  to: `Enum.Axis`" {
		t.Errorf("to line = %q", got)
	}
}

func TestCompareChangeFromEmptyValue(t *testing.T) {
	newDB := partDB()
	newDB.Class("BasePart").MemoryCategory = "Data"

	diffs := Compare(partDB(), newDB)
	assertHeaders(t, diffs, "Changed the memory category of Class `BasePart`")
	body := diffs[0].Body()
	if got := descriptor.FormatText(body[0]); got != `from: ""` {
		t.Errorf("from line = %q", got)
	}
	if got := descriptor.FormatText(body[1]); got != `  to: "Data"` {
		t.Errorf("to line = %q", got)
	}
}

func TestCompareMemberAddRemove(t *testing.T) {
	newDB := partDB()
	part := newDB.Class("BasePart")
	part.AddMember(descriptor.NewMember(descriptor.KindEvent, "Touched"))
	newDB.Enum("Material").AddItem(descriptor.NewEnumItem("Slate", 800))

	oldDB := partDB()
	oldDB.Class("Instance").AddMember(descriptor.NewMember(descriptor.KindCallback, "OnInvoke"))

	assertHeaders(t, Compare(oldDB, newDB),
		"Added Event `BasePart.Touched`()",
		"Added EnumItem `Material.Slate`: 800",
		"Removed Callback `Instance.OnInvoke`",
	)
}

func TestCompareKindChangeIsRemoveAndAdd(t *testing.T) {
	newDB := partDB()
	part := newDB.Class("BasePart")
	fn := descriptor.NewMember(descriptor.KindFunction, "Size")
	fn.ReturnType = descriptor.TypeRef{Category: "DataType", Name: "Vector3"}
	part.AddMember(fn)

	assertHeaders(t, Compare(partDB(), newDB),
		"Added Function `BasePart.Size`(): `Vector3`",
		"Removed Property `BasePart.Size`",
	)
}

func TestCompareTagCorrelation(t *testing.T) {
	newDB := partDB()
	part := newDB.Class("BasePart")
	part.Tags = part.Tags.With("Deprecated")
	for _, m := range part.Members {
		m.Tags = m.Tags.With("Deprecated")
	}
	part.Member("Size").Tags = descriptor.NewTags("Hidden")

	diffs := Compare(partDB(), newDB)
	assertHeaders(t, diffs,
		"Added tag [Deprecated] to Class `BasePart`",
		"Added tag [Hidden] to Property `BasePart.Size`",
	)
	for _, d := range diffs {
		if !d.IsTagDiff() {
			t.Errorf("%q should be a tag diff", d.HeaderText())
		}
	}
}

func TestCompareRemovedTags(t *testing.T) {
	oldDB := partDB()
	oldDB.Enum("Material").Tags = descriptor.NewTags("NotBrowsable", "Deprecated")

	assertHeaders(t, Compare(oldDB, partDB()),
		"Removed tags [Deprecated] [NotBrowsable] from Enum `Material`",
	)
}

func TestCompareIsDeterministic(t *testing.T) {
	oldDB := partDB()
	newDB := testutil.NewDB().
		Class("Instance", "").
		Property("Name", "string", descriptor.PluginSecurity).
		Function("Destroy", "void", descriptor.SecurityNone).
		Class("Model", "Instance").
		Enum("Axis").
		Item("X", 0).
		Build()

	first := headers(Compare(oldDB, newDB))
	for i := 0; i < 5; i++ {
		again := headers(Compare(oldDB, newDB))
		if len(again) != len(first) {
			t.Fatalf("run %d: %d diffs, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d diff %d: %q != %q", i, j, again[j], first[j])
			}
		}
	}

	// Adds sort before removes before changes; classes before enums.
	want := []string{
		"Added Class `Model` : `Instance`",
		"Added Function `Instance.Destroy`(): `void`",
		"Added Enum `Axis`",
		"Removed Class `BasePart`",
		"Removed Enum `Material`",
		"Changed the security of Property `Instance.Name`",
	}
	if len(first) != len(want) {
		t.Fatalf("got %q, want %q", first, want)
	}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("diff[%d] = %q, want %q", i, first[i], want[i])
		}
	}
}
