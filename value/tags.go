package value

import "fmt"

// Reserved wire tags.
const (
	TagObj   = "@obj"
	TagSet   = "@set"
	TagRef   = "@ref"
	TagTime  = "@ts"
	TagDate  = "@date"
	TagBytes = "@bytes"
	TagQuery = "@query"
)

// objectWrapperKey wraps literal data objects in request parameters.
const objectWrapperKey = "object"

const (
	timeLayout = "2006-01-02T15:04:05.0000000Z"
	dateLayout = "2006-01-02"
)

// IsReservedTag reports whether key switches the reader into a special
// decoding rule when it is the only key of a JSON object.
func IsReservedTag(key string) bool {
	switch key {
	case TagObj, TagSet, TagRef, TagTime, TagDate, TagBytes, TagQuery:
		return true
	}
	return false
}

// ErrInvalidTag is the error returned when the content of a reserved tag
// cannot be decoded.
type ErrInvalidTag struct {
	Tag    string
	Reason string
}

func (e ErrInvalidTag) Error() string {
	return fmt.Sprintf("invalid %s value: %s", e.Tag, e.Reason)
}
