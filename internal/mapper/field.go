// Package mapper indexes the struct fields that take part in encoding and
// decoding.
package mapper

import (
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag consulted for field names and options.
const TagName = "toon"

// Field is a struct field visible to the codec, possibly promoted from an
// embedded struct.
type Field struct {
	Name      string
	Index     []int
	OmitEmpty bool
	depth     int
}

// Fields is the ordered set of fields of a struct type.
type Fields struct {
	List   []Field
	byName map[string]int
	byFold map[string]int
}

// Lookup finds the field stored under key, trying an exact match first
// and a case-insensitive one second.
func (fs *Fields) Lookup(key string) (Field, bool) {
	if i, ok := fs.byName[key]; ok {
		return fs.List[i], true
	}
	if i, ok := fs.byFold[strings.ToLower(key)]; ok {
		return fs.List[i], true
	}
	return Field{}, false
}

// fieldCache caches the fields of struct types.
var fieldCache sync.Map // map[reflect.Type]*Fields

// TypeFields returns the fields of the struct type t in declaration order.
// Fields of embedded structs are promoted unless a shallower field has the
// same name. Fields tagged "-" and unexported fields are skipped.
func TypeFields(t reflect.Type) *Fields {
	if f, ok := fieldCache.Load(t); ok {
		return f.(*Fields)
	}

	var all []Field
	var walk func(t reflect.Type, index []int, depth int, visited map[reflect.Type]bool)
	walk = func(t reflect.Type, index []int, depth int, visited map[reflect.Type]bool) {
		if visited[t] {
			return
		}
		visited[t] = true
		defer delete(visited, t)

		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			tag := sf.Tag.Get(TagName)
			if tag == "-" {
				continue
			}
			name, opts, _ := strings.Cut(tag, ",")
			idx := append(append([]int(nil), index...), i)

			if sf.Anonymous && name == "" {
				ft := sf.Type
				if ft.Kind() == reflect.Pointer {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					if !sf.IsExported() && sf.Type.Kind() == reflect.Pointer {
						continue
					}
					walk(ft, idx, depth+1, visited)
					continue
				}
			}
			if !sf.IsExported() {
				continue
			}

			f := Field{Name: sf.Name, Index: idx, depth: depth}
			if name != "" {
				f.Name = name
			}
			for opts != "" {
				var opt string
				opt, opts, _ = strings.Cut(opts, ",")
				if strings.TrimSpace(opt) == "omitempty" {
					f.OmitEmpty = true
				}
			}
			all = append(all, f)
		}
	}
	walk(t, nil, 0, map[reflect.Type]bool{})

	// The shallowest field wins a name; ties go to the first declared.
	winner := make(map[string]int, len(all))
	for i, f := range all {
		if j, ok := winner[f.Name]; !ok || f.depth < all[j].depth {
			winner[f.Name] = i
		}
	}
	fs := &Fields{byName: make(map[string]int), byFold: make(map[string]int)}
	for i, f := range all {
		if winner[f.Name] != i {
			continue
		}
		fs.byName[f.Name] = len(fs.List)
		fs.List = append(fs.List, f)
	}
	for i, f := range fs.List {
		lower := strings.ToLower(f.Name)
		if _, ok := fs.byFold[lower]; !ok {
			fs.byFold[lower] = i
		}
	}

	actual, _ := fieldCache.LoadOrStore(t, fs)
	return actual.(*Fields)
}
