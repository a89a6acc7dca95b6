package value

import (
	"sort"
	"strconv"
	"strings"
)

// RefV is an opaque hierarchical reference: an id, optionally scoped to a
// collection and a database, both of which are references themselves.
type RefV struct {
	id         string
	collection *RefV
	database   *RefV
}

// Built-in system collections. References to these are canonical: [NewRef]
// returns the same instance for them.
var (
	Collections     = &RefV{id: "collections"}
	Databases       = &RefV{id: "databases"}
	Indexes         = &RefV{id: "indexes"}
	Functions       = &RefV{id: "functions"}
	Keys            = &RefV{id: "keys"}
	Roles           = &RefV{id: "roles"}
	AccessProviders = &RefV{id: "access_providers"}
	Credentials     = &RefV{id: "credentials"}
	Tokens          = &RefV{id: "tokens"}
)

var nativeRefs = map[string]*RefV{
	Collections.id:     Collections,
	Databases.id:       Databases,
	Indexes.id:         Indexes,
	Functions.id:       Functions,
	Keys.id:            Keys,
	Roles.id:           Roles,
	AccessProviders.id: AccessProviders,
	Credentials.id:     Credentials,
	Tokens.id:          Tokens,
}

// NativeRef returns the canonical reference to the built-in collection
// name, if there is one.
func NativeRef(name string) (*RefV, bool) {
	r, ok := nativeRefs[name]
	return r, ok
}

// NewRef returns a reference. collection and database may be nil.
func NewRef(id string, collection, database *RefV) *RefV {
	if collection == nil && database == nil {
		if r, ok := nativeRefs[id]; ok {
			return r
		}
	}
	return &RefV{id: id, collection: collection, database: database}
}

// CollectionRef returns a reference to the named collection.
func CollectionRef(name string) *RefV { return NewRef(name, Collections, nil) }

// ID returns the reference id.
func (r *RefV) ID() string { return r.id }

// Collection returns the collection the reference belongs to, or nil.
func (r *RefV) Collection() *RefV { return r.collection }

// Database returns the database the reference is scoped to, or nil.
func (r *RefV) Database() *RefV { return r.database }

// IsNative reports whether r is one of the built-in system collections.
func (r *RefV) IsNative() bool {
	n, ok := nativeRefs[r.id]
	return ok && n == r
}

func (*RefV) Kind() Kind { return KindRef }
func (*RefV) isValue()   {}

func (r *RefV) String() string {
	var sb strings.Builder
	sb.WriteString("RefV(id=")
	sb.WriteString(strconv.Quote(r.id))
	if r.collection != nil {
		sb.WriteString(", collection=")
		sb.WriteString(r.collection.String())
	}
	if r.database != nil {
		sb.WriteString(", database=")
		sb.WriteString(r.database.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func (r *RefV) Equal(other Value) bool {
	o, ok := other.(*RefV)
	if !ok {
		return false
	}
	return refEqual(r, o)
}

func refEqual(a, b *RefV) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.id == b.id && refEqual(a.collection, b.collection) && refEqual(a.database, b.database)
}

// SetRefV describes a server-side set, such as an index match and its
// terms. Its parameters are not interpreted client-side.
type SetRefV struct {
	params map[string]Value
}

// SetRef returns a set reference holding a copy of params.
func SetRef(params map[string]Value) SetRefV {
	return SetRefV{params: copyFields(params)}
}

// Parameters returns a copy of the set parameters.
func (s SetRefV) Parameters() map[string]Value { return copyFields(s.params) }

// Get returns the named parameter.
func (s SetRefV) Get(key string) (Value, bool) {
	v, ok := s.params[key]
	return v, ok
}

func (SetRefV) Kind() Kind { return KindSetRef }
func (SetRefV) isValue()   {}

func (s SetRefV) String() string { return "SetRefV" + formatFields(s.params) }

func (s SetRefV) Equal(other Value) bool {
	o, ok := other.(SetRefV)
	return ok && fieldsEqual(s.params, o.params)
}

func copyFields(m map[string]Value) map[string]Value {
	out := make(map[string]Value, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func fieldsEqual(a, b map[string]Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !av.Equal(bv) {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatFields(m map[string]Value) string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range sortedKeys(m) {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(k))
		sb.WriteString(": ")
		sb.WriteString(m[k].String())
	}
	sb.WriteString("}")
	return sb.String()
}
