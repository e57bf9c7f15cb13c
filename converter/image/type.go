package image

import "fmt"

type Type struct {
	s string
}

var (
	WEBP = Type{"webp"}
	JPEG = Type{"jpeg"}
	PNG  = Type{"png"}
)

func (t Type) String() string {
	return t.s
}

func (t Type) IsZero() bool {
	return t.s == ""
}

// MakeFromString accepts "jpg" as an alias of JPEG.
func MakeFromString(s string) (Type, error) {
	switch s {
	case WEBP.s:
		return WEBP, nil
	case JPEG.s, "jpg":
		return JPEG, nil
	case PNG.s:
		return PNG, nil
	}

	return Type{}, fmt.Errorf("unknown type: %s", s)
}
