// Package descriptor models one snapshot of a reflection API dump.
//
// A Database owns Classes and Enums. Classes own Members (properties,
// functions, events and callbacks) and Enums own EnumItems; both keep a
// back-reference from child to owner that is set once at load time.
//
// Every descriptor declares its signature as a schema: an ordered list of
// token labels per detail level, plus a Tokens map resolving those labels for
// one instance. Describe walks the schema and drops labels that are missing or
// render empty. The text and markup renderers both consume the resulting
// []Token, so there is a single place that decides what a signature contains.
package descriptor
