package codec

import "bytes"

func init() {
	register("line", func(config Config) (Codec, error) {
		return lineCodec{[]byte(config.Delimiter)}, nil
	})
}

// lineCodec emits one event per delimited record. A trailing record without a
// delimiter is emitted too, since a file is always decoded whole.
type lineCodec struct {
	delim []byte
}

func (c lineCodec) Decode(data []byte, emit func(Event)) error {
	for len(data) > 0 {
		i := bytes.Index(data, c.delim)
		if i < 0 {
			emit(Event{MessageField: string(data)})
			return nil
		}
		emit(Event{MessageField: string(data[:i])})
		data = data[i+len(c.delim):]
	}
	return nil
}
