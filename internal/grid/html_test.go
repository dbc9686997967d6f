package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

const sampleDoc = `<!DOCTYPE html>
<html>
<head>
<style>
.s1 { background-color: #fce5cd; border: 1px solid; }
.s2 { background-color: rgb(201, 218, 248); }
</style>
</head>
<body>
<div class="grid-container">
<table>
<tbody>
<tr style="height: 20px;">
<td colspan="2">Понедельник
01.01.24</td>
<td class="freezebar-cell"></td>
<td rowspan="2">Вторник</td>
</tr>
<tr style="height: 2px;"><td>collapsed</td></tr>
<tr>
<td class="s1">Математика</td>
<td class="s2">Физика</td>
<td style="background-color: #00ff00" class="s1">Химия</td>
</tr>
</tbody>
</table>
</div>
</body>
</html>`

func TestTokenizeDocument(t *testing.T) {
	rows, err := TokenizeDocument(sampleDoc)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, 20.0, first.Height)
	require.Len(t, first.Cells, 3)

	// Nested line break flattened to a single space, NFC applied.
	assert.Equal(t, "Понедельник 01.01.24", first.Cells[0].Text)
	assert.Equal(t, 2, first.Cells[0].Colspan)
	assert.True(t, first.Cells[1].Separator)
	assert.Equal(t, 2, first.Cells[2].Rowspan)

	assert.Equal(t, 2.0, rows[1].Height)

	third := rows[2]
	require.Len(t, third.Cells, 3)

	// Class rules from <style> resolve cell colors.
	assert.True(t, third.Cells[0].Color.Equal(models.MustParseColor("#fce5cd")))
	assert.True(t, third.Cells[1].Color.Equal(models.MustParseColor("#c9daf8")))

	// Inline style wins over the class rule.
	assert.True(t, third.Cells[2].Color.Equal(models.Color{R: 0, G: 255, B: 0}))
}

func TestTokenizeDocumentNoContainer(t *testing.T) {
	rows, err := TokenizeDocument(`<html><body><table><tr><td>x</td></tr></table></body></html>`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "x", rows[0].Cells[0].Text)
	assert.True(t, rows[0].Cells[0].Color.Equal(models.White))
}

func TestTokenizeDocumentNoTable(t *testing.T) {
	_, err := TokenizeDocument(`<html><body><p>nothing</p></body></html>`)
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestTokenizeThenBuild(t *testing.T) {
	rows, err := TokenizeDocument(sampleDoc)
	require.NoError(t, err)

	schema := Build(rows)

	// The collapsed row disappears; the separator cell does not occupy
	// a column, so the rowspan cell lands right after the wide one.
	require.Len(t, schema, 2)
	assert.Equal(t, 2, schema[0][1].X)

	// The tall Tuesday cell pushes the first surviving body cell right.
	assert.Equal(t, "Вторник", schema[0][1].Text)
}
