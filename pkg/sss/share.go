package sss

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ShareKind tags the variant held by a Share.
type ShareKind int

const (
	KindBytes ShareKind = iota
	KindLabeled
	KindSequence
)

func (k ShareKind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindLabeled:
		return "labeled"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Share is an opaque value produced by a backend. Its internal shape is a
// backend contract; the workflow only formats it and hands it back.
//
// A Share is one of:
//   - Bytes: a raw byte payload
//   - Labeled: an ordered list of named sub-shares
//   - Sequence: an ordered list of sub-shares
type Share struct {
	kind   ShareKind
	raw    []byte
	fields []Field
	items  []Share
}

// Field is one named entry of a Labeled share.
type Field struct {
	Label string `json:"label"`
	Value Share  `json:"value"`
}

// Bytes wraps a raw payload. The input is copied.
func Bytes(b []byte) Share {
	return Share{kind: KindBytes, raw: append([]byte(nil), b...)}
}

// Labeled builds a share from named fields, keeping their order.
func Labeled(fields ...Field) Share {
	return Share{kind: KindLabeled, fields: append([]Field(nil), fields...)}
}

// Sequence builds a share from an ordered list of sub-shares.
func Sequence(items ...Share) Share {
	return Share{kind: KindSequence, items: append([]Share(nil), items...)}
}

// F is shorthand for a Field.
func F(label string, value Share) Field {
	return Field{Label: label, Value: value}
}

func (s Share) Kind() ShareKind {
	return s.kind
}

// Raw returns a copy of the payload of a Bytes share.
func (s Share) Raw() ([]byte, bool) {
	if s.kind != KindBytes {
		return nil, false
	}
	return append([]byte(nil), s.raw...), true
}

// Field returns the first field with the given label.
func (s Share) Field(label string) (Share, bool) {
	for _, f := range s.fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return Share{}, false
}

func (s Share) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

func (s Share) Items() []Share {
	return append([]Share(nil), s.items...)
}

var payloadLabels = []string{"value", "y", "share"}

// Payload locates the byte-like value to show for this share.
// Labeled shares prefer a value/y/share field; sequences use their last item
// carrying bytes, which is where backends put the evaluation.
func (s Share) Payload() ([]byte, bool) {
	switch s.kind {
	case KindBytes:
		return s.Raw()
	case KindLabeled:
		for _, label := range payloadLabels {
			if v, ok := s.Field(label); ok {
				if b, ok := v.Payload(); ok {
					return b, true
				}
			}
		}
		for _, f := range s.fields {
			if b, ok := f.Value.Payload(); ok {
				return b, true
			}
		}
	case KindSequence:
		for i := len(s.items) - 1; i >= 0; i-- {
			if b, ok := s.items[i].Payload(); ok {
				return b, true
			}
		}
	}
	return nil, false
}

// Equal reports structural equality.
func (s Share) Equal(o Share) bool {
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case KindBytes:
		return string(s.raw) == string(o.raw)
	case KindLabeled:
		if len(s.fields) != len(o.fields) {
			return false
		}
		for i := range s.fields {
			if s.fields[i].Label != o.fields[i].Label || !s.fields[i].Value.Equal(o.fields[i].Value) {
				return false
			}
		}
		return true
	case KindSequence:
		if len(s.items) != len(o.items) {
			return false
		}
		for i := range s.items {
			if !s.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the share recursively: bytes as lowercase hex, sequences as
// [a, b] and labeled shares as { k: v }.
func (s Share) String() string {
	var sb strings.Builder
	s.format(&sb)
	return sb.String()
}

func (s Share) format(sb *strings.Builder) {
	switch s.kind {
	case KindBytes:
		sb.WriteString(hex.EncodeToString(s.raw))
	case KindSequence:
		sb.WriteByte('[')
		for i, item := range s.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.format(sb)
		}
		sb.WriteByte(']')
	case KindLabeled:
		sb.WriteString("{ ")
		for i, f := range s.fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Label)
			sb.WriteString(": ")
			f.Value.format(sb)
		}
		sb.WriteString(" }")
	}
}

type shareJSON struct {
	Bytes  *string  `json:"bytes,omitempty"`
	Fields *[]Field `json:"fields,omitempty"`
	Items  *[]Share `json:"items,omitempty"`
}

func (s Share) MarshalJSON() ([]byte, error) {
	var out shareJSON
	switch s.kind {
	case KindBytes:
		h := hex.EncodeToString(s.raw)
		out.Bytes = &h
	case KindLabeled:
		fields := s.Fields()
		if fields == nil {
			fields = []Field{}
		}
		out.Fields = &fields
	case KindSequence:
		items := s.Items()
		if items == nil {
			items = []Share{}
		}
		out.Items = &items
	default:
		return nil, fmt.Errorf("unknown share kind %d", s.kind)
	}
	return json.Marshal(out)
}

func (s *Share) UnmarshalJSON(data []byte) error {
	var in shareJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	set := 0
	if in.Bytes != nil {
		set++
	}
	if in.Fields != nil {
		set++
	}
	if in.Items != nil {
		set++
	}
	if set != 1 {
		return errors.New("share must have exactly one of bytes, fields, items")
	}
	switch {
	case in.Bytes != nil:
		b, err := hex.DecodeString(*in.Bytes)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedHex, err)
		}
		*s = Bytes(b)
	case in.Fields != nil:
		*s = Labeled(*in.Fields...)
	default:
		*s = Sequence(*in.Items...)
	}
	return nil
}
