package mlp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshot = `<!doctype html>
<html><body>
<div id="other"><table><tr><th>Ignore</th></tr></table></div>
<table id="standings-table">
  <thead>
    <tr>
      <th> Player </th><th>Games Won</th><th>Games Lost</th><th>Games Won %</th>
    </tr>
  </thead>
  <tbody>
    <tr>
      <td><span class="rank">3</span><div class="name">ab Lee</div><div class="team">Team X</div></td>
      <td> 10 </td><td>5</td><td>66.7</td>
    </tr>
    <tr><td colspan="4">Advertisement</td></tr>
    <tr>
      <td>1<br>jim   smith<br>socal hard eights</td>
      <td>20</td><td>2</td><td><b>90.9</b>%</td>
    </tr>
  </tbody>
</table>
</body></html>`

func TestParseSnapshot(t *testing.T) {
	table, err := ParseSnapshot(strings.NewReader(snapshot), "standings-table")
	require.NoError(t, err)

	assert.Equal(t, []string{"Player", "Games Won", "Games Lost", "Games Won %"}, table.Headers)
	require.Len(t, table.Rows, 2, "row with mismatched cell count must be dropped")

	assert.Equal(t, []string{"3\nab Lee\nTeam X", "10", "5", "66.7"}, table.Rows[0])
	assert.Equal(t, []string{"1\njim smith\nsocal hard eights", "20", "2", "90.9%"}, table.Rows[1])
}

func TestParseSnapshotMissingTable(t *testing.T) {
	_, err := ParseSnapshot(strings.NewReader(snapshot), "no-such-table")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestNewRawTableDropsMismatchedRows(t *testing.T) {
	headers := []string{" Player ", "Games Won", "Games Lost"}
	rows := [][]string{
		{"1\nA\nB", " 4 ", "2"},
		{"only one"},
		{"2\nC\nD", "3", "3", "extra"},
		{"3\nE\nF", "1", "5"},
	}

	table := NewRawTable(headers, rows)
	assert.Equal(t, []string{"Player", "Games Won", "Games Lost"}, table.Headers)
	require.Len(t, table.Rows, 2)
	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Headers))
	}
	assert.Equal(t, "4", table.Rows[0][1])
}
