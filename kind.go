package tyck

// Kind tags the base type a Descriptor describes.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindInteger
	KindBoolean
	KindArray
	KindDict
	KindSet
	KindTuple
	KindUnion
	KindLiteral
	KindEnum
	KindOptional
	KindAny
	KindNone
	KindBytes
	KindDecimal
	KindDateTime
	KindDate
	KindTime
	KindUUID
)

var kindNames = map[Kind]string{
	KindInvalid:  "invalid",
	KindString:   "string",
	KindNumber:   "number",
	KindInteger:  "integer",
	KindBoolean:  "boolean",
	KindArray:    "array",
	KindDict:     "dict",
	KindSet:      "set",
	KindTuple:    "tuple",
	KindUnion:    "union",
	KindLiteral:  "literal",
	KindEnum:     "enum",
	KindOptional: "optional",
	KindAny:      "any",
	KindNone:     "none",
	KindBytes:    "bytes",
	KindDecimal:  "decimal",
	KindDateTime: "datetime",
	KindDate:     "date",
	KindTime:     "time",
	KindUUID:     "uuid",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}

// KindFromString resolves a kind by its canonical name. It returns
// KindInvalid for unknown names.
func KindFromString(s string) Kind {
	for k, n := range kindNames {
		if n == s {
			return k
		}
	}
	return KindInvalid
}
