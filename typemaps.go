package dbusarg

import (
	"github.com/creachadair/mds/mapset"
)

var (
	// codeToName maps the DBus type signature identifier of a basic
	// type to a human readable name, for error messages.
	codeToName = map[Basic]string{
		TypeBool:       "bool",
		TypeByte:       "byte",
		TypeInt16:      "int16",
		TypeInt32:      "int32",
		TypeInt64:      "int64",
		TypeUint16:     "uint16",
		TypeUint32:     "uint32",
		TypeUint64:     "uint64",
		TypeDouble:     "double",
		TypeString:     "string",
		TypeObjectPath: "object path",
		TypeSignature:  "signature",
		TypeFD:         "file descriptor",
	}

	// basicCodes is the set of signature codes that can be a DBus
	// dict key.
	basicCodes = mapset.New(
		TypeBool,
		TypeByte,
		TypeInt16,
		TypeInt32,
		TypeInt64,
		TypeUint16,
		TypeUint32,
		TypeUint64,
		TypeDouble,
		TypeString,
		TypeObjectPath,
		TypeSignature,
		TypeFD,
	)

	// literalTagToCode maps the trailing tag of a numeric literal to
	// the basic type it produces. Untagged integers are int32.
	literalTagToCode = map[byte]Basic{
		'n': TypeInt16,
		'i': TypeInt32,
		'x': TypeInt64,
		'q': TypeUint16,
		'u': TypeUint32,
		't': TypeUint64,
		'y': TypeByte,
		'd': TypeDouble,
	}
)

const (
	// maxSignatureLen is the longest signature DBus allows.
	maxSignatureLen = 255
	// maxNesting is the deepest array or struct nesting DBus allows,
	// counted separately for arrays and structs.
	maxNesting = 32
)
