/*
Package toon reads and writes TOON, a compact, indentation-based text
encoding of JSON-compatible data that stores uniform arrays of records as
tables: one header naming the array, its length and its fields, followed by
one delimited row per record.

	users[2]{id,name,active}:
	  1,Alice,true
	  2,Bob,false

Other members are written as "key: value" lines, nested objects as "key:"
followed by an indented block, and arrays that are not uniform (at the top
level or inside another list) as dash lists.

The package offers two layers, in the manner of encoding/json:

1. Values

Parse turns text into a Value, an explicit sum type over null, booleans,
numbers, strings, ordered objects and arrays, and Stringify does the
reverse. FromJSON and ToJSON bridge Values to JSON without losing key order,
and DetectFormat, Validate and AutoConvert work on raw text of unknown
format.

	v, err := toon.Parse([]byte("users[1]{id,name}:\n  1,Alice"))
	if err != nil {
		// err wraps one of the Err* sentinels; parse errors are *ParseError.
	}
	users, _ := v.Get("users")

2. Go values

Marshal and Unmarshal convert between TOON and Go values through
reflection, honoring `toon:"name,omitempty"` struct tags and the Marshaler
and Unmarshaler interfaces.

	type User struct {
		ID   int    `toon:"id"`
		Name string `toon:"name"`
	}
	var doc struct {
		Users []User `toon:"users"`
	}
	err := toon.Unmarshal(data, &doc)

Both layers accept functional options such as Indent, Delimiter, MaxDepth,
FlattenKeys and UnflattenKeys.
*/
package toon
