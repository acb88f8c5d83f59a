package extract

import (
	"bytes"
	"context"
	"errors"
	"unicode/utf8"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PlainText returns UTF-8 documents unchanged, minus a leading BOM.
type PlainText struct{}

func (PlainText) ExtractText(_ context.Context, doc model.Document) (string, error) {
	data := bytes.TrimPrefix(doc.Data, utf8BOM)
	if !utf8.Valid(data) {
		return "", errors.New("text file is not valid UTF-8")
	}
	return string(data), nil
}
