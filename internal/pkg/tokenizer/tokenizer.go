package tokenizer

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

var (
	once    sync.Once
	codec   tokenizer.Codec
	initErr error
)

// Init loads the cl100k_base encoding. It is safe to call more than once.
func Init() error {
	once.Do(func() {
		codec, initErr = tokenizer.Get(tokenizer.Cl100kBase)
	})
	return initErr
}

// CountTokens returns the number of cl100k_base tokens in text.
func CountTokens(text string) (int, error) {
	if err := Init(); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}
	ids, _, err := codec.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
