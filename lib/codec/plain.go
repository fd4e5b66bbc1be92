package codec

import (
	"errors"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("invalid utf-8")

func init() {
	register("plain", func(Config) (Codec, error) {
		return plainCodec{}, nil
	})
}

// plainCodec emits the whole file as a single event.
type plainCodec struct{}

func (plainCodec) Decode(data []byte, emit func(Event)) error {
	if len(data) == 0 {
		return nil
	}
	if !utf8.Valid(data) {
		return errInvalidUTF8
	}
	emit(Event{MessageField: string(data)})
	return nil
}
