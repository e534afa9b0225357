package texture

import "fmt"

// DecodeError reports an I/O or format failure while reading a source image.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not load '%s': %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UnsupportedColorError reports a decoded image whose channel layout is
// neither RGB nor RGBA with 8 bits per channel.
type UnsupportedColorError struct {
	Layout string
	Source string
}

func (e *UnsupportedColorError) Error() string {
	return fmt.Sprintf("unsupported color type %s in '%s'", e.Layout, e.Source)
}
