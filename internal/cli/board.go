package cli

import (
	"strconv"
	"strings"

	"github.com/benbeisheim/chess-backend/internal/model"
)

const fileHeader = "  a b c d e f g h"

// FormatBoard lays out g with a file header and rank numbers, rank 8 on top,
// followed by a blank line.
func FormatBoard(g model.Grid) string {
	var sb strings.Builder
	sb.WriteString(fileHeader)
	sb.WriteByte('\n')
	for row, cells := range g {
		sb.WriteString(strconv.Itoa(len(g) - row))
		for _, glyph := range cells {
			sb.WriteByte(' ')
			sb.WriteRune(glyph)
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	return sb.String()
}
