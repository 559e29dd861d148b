package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "phonics-audio/pkg/errors"
)

// Field is one key/value pair of a Record. Value is one of nil, bool,
// string, json.Number, []any or *Record.
type Field struct {
	Key   string
	Value any
}

// Record is a JSON object that remembers field order. Keys are unique.
type Record struct {
	fields []Field
}

func NewRecord() *Record {
	return &Record{}
}

func (r *Record) Len() int { return len(r.fields) }

func (r *Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

func (r *Record) index(key string) int {
	for i, f := range r.fields {
		if f.Key == key {
			return i
		}
	}
	return -1
}

func (r *Record) Has(key string) bool { return r.index(key) >= 0 }

func (r *Record) Get(key string) (any, bool) {
	if i := r.index(key); i >= 0 {
		return r.fields[i].Value, true
	}
	return nil, false
}

func (r *Record) GetString(key string) (string, bool) {
	v, ok := r.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// RecordList returns the objects inside an array field, skipping any
// non-object elements.
func (r *Record) RecordList(key string) []*Record {
	v, ok := r.Get(key)
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]*Record, 0, len(arr))
	for _, item := range arr {
		if rec, ok := item.(*Record); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Set replaces the value in place when key exists, otherwise appends.
func (r *Record) Set(key string, value any) {
	if i := r.index(key); i >= 0 {
		r.fields[i].Value = value
		return
	}
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

// InsertAfter places key immediately after anchor. It is a no-op
// returning false when key is already present, and fails with
// CodeAnchorMissing when anchor is absent.
func (r *Record) InsertAfter(anchor, key string, value any) (bool, error) {
	if r.Has(key) {
		return false, nil
	}
	at := r.index(anchor)
	if at < 0 {
		return false, apperrors.WrapWithDetail(apperrors.CodeAnchorMissing, "Anchor field missing", anchor,
			fmt.Errorf("cannot insert %q after missing field %q", key, anchor))
	}
	r.fields = append(r.fields, Field{})
	copy(r.fields[at+2:], r.fields[at+1:])
	r.fields[at+1] = Field{Key: key, Value: value}
	return true, nil
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalNoEscape(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshalNoEscape(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return err
	}
	rec, ok := v.(*Record)
	if !ok {
		return fmt.Errorf("expected JSON object, got %T", v)
	}
	r.fields = rec.fields
	return nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// decodeValue reads one JSON value from the token stream, building
// Records for objects so key order survives the round trip.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		rec := NewRecord()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, want string", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			rec.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return rec, nil
	case '[':
		arr := make([]any, 0)
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}
