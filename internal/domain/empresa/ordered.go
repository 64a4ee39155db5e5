package empresa

import (
	"bytes"
)

// Ordered is a string-keyed map that remembers first insertion order and
// serializes its keys in that order.
type Ordered[V any] struct {
	keys   []string
	values map[string]V
}

// NewOrdered returns an empty map.
func NewOrdered[V any]() *Ordered[V] {
	return &Ordered[V]{values: make(map[string]V)}
}

// Update applies fn to the current value of key (zero if absent) and stores the result.
func (o *Ordered[V]) Update(key string, fn func(V) V) {
	cur, ok := o.values[key]
	if !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = fn(cur)
}

// Get returns the value stored under key.
func (o *Ordered[V]) Get(key string) (V, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in first-seen order.
func (o *Ordered[V]) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len reports the number of keys.
func (o *Ordered[V]) Len() int { return len(o.keys) }

// MarshalJSON writes a JSON object in key order.
func (o *Ordered[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Groups maps a field value to the records sharing it.
type Groups = Ordered[[]Record]

// Counts maps a label to a number of records.
type Counts = Ordered[int]
