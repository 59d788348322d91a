package paging

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// EncodeCursor packs the ordering key and id of the last item of a page into
// an opaque, URL-safe string.
func EncodeCursor(seq int64, id uuid.UUID) string {
	raw := strconv.FormatInt(seq, 10) + "|" + id.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(cursor string) (int64, uuid.UUID, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, uuid.Nil, ErrInvalidCursor
	}

	seqPart, idPart, ok := strings.Cut(string(b), "|")
	if !ok {
		return 0, uuid.Nil, ErrInvalidCursor
	}

	seq, err := strconv.ParseInt(seqPart, 10, 64)
	if err != nil || seq <= 0 {
		return 0, uuid.Nil, ErrInvalidCursor
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return 0, uuid.Nil, ErrInvalidCursor
	}
	return seq, id, nil
}
