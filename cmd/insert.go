package cmd

import (
	"bytes"

	"github.com/eykd/imgdrop-go/internal/drop"
)

// insertAt splices text into content at pos. Lines past the end append to
// the document; characters past the end of a line append to that line.
// Characters are counted in runes.
func insertAt(content []byte, pos drop.Position, text string) []byte {
	offset := len(content)
	lineStart := 0
	for l := 0; l < pos.Line; l++ {
		i := bytes.IndexByte(content[lineStart:], '\n')
		if i < 0 {
			lineStart = -1
			break
		}
		lineStart += i + 1
	}
	if lineStart >= 0 {
		lineEnd := len(content)
		if i := bytes.IndexByte(content[lineStart:], '\n'); i >= 0 {
			lineEnd = lineStart + i
		}
		offset = lineEnd
		runes := 0
		for i := range string(content[lineStart:lineEnd]) {
			if runes == pos.Character {
				offset = lineStart + i
				break
			}
			runes++
		}
	}

	out := make([]byte, 0, len(content)+len(text))
	out = append(out, content[:offset]...)
	out = append(out, text...)
	out = append(out, content[offset:]...)
	return out
}
