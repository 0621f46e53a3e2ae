package grid

// Key says where a column's value comes from: a named field, or a function
// of the whole record. Only field keys have a raw value worth exporting.
type Key[T any] struct {
	field  string
	derive func(T) any
}

// FieldKey reads the named field through the grid's Accessor.
func FieldKey[T any](name string) Key[T] {
	return Key[T]{field: name}
}

// DerivedKey computes the value from the record.
func DerivedKey[T any](fn func(T) any) Key[T] {
	return Key[T]{derive: fn}
}

// Field returns the field name and true for field keys.
func (k Key[T]) Field() (string, bool) {
	if k.derive != nil {
		return "", false
	}
	return k.field, true
}

// IsDerived reports whether the key is computed.
func (k Key[T]) IsDerived() bool {
	return k.derive != nil
}

// Value resolves the key for record. Missing fields resolve to nil.
func (k Key[T]) Value(record T, access Accessor[T]) any {
	if k.derive != nil {
		return k.derive(record)
	}
	v, ok := access(record, k.field)
	if !ok {
		return nil
	}
	return v
}

// Column pairs a Key with the header shown to the user.
type Column[T any] struct {
	Key    Key[T]
	Header string
}

// Field is shorthand for a field-keyed column.
func Field[T any](name, header string) Column[T] {
	return Column[T]{Key: FieldKey[T](name), Header: header}
}

// Derived is shorthand for a computed column.
func Derived[T any](header string, fn func(T) any) Column[T] {
	return Column[T]{Key: DerivedKey[T](fn), Header: header}
}
