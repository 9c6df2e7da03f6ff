package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptrack/backend/domain"
)

func TestParse_WellFormedLines(t *testing.T) {
	text := strings.Join([]string{
		"1 Submit annual report Pending 2024-01-10",
		"2 File audit Completed 2024-02-01",
	}, "\n")

	res, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Zero(t, res.Skipped)

	assert.Equal(t, "Submit annual report", res.Records[0].Title)
	assert.Equal(t, domain.StatusPending, res.Records[0].Status)
	assert.Equal(t, "2024-01-10", res.Records[0].DueDate)

	assert.Equal(t, "File audit", res.Records[1].Title)
	assert.Equal(t, domain.StatusCompleted, res.Records[1].Status)
}

func TestParse_ShortLineSkipped(t *testing.T) {
	text := strings.Join([]string{
		"1 Submit report Pending 2024-01-10",
		"2 broken",
		"3 File audit Completed 2024-02-01",
	}, "\n")

	res, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Skipped)
}

func TestParse_BadDateSkipped(t *testing.T) {
	text := strings.Join([]string{
		"1 Submit report Pending not-a-date",
		"2 File audit Pending 2024-13-45",
		"3 Renew license Pending 2024-03-01",
	}, "\n")

	res, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Renew license", res.Records[0].Title)
	assert.Equal(t, 2, res.Skipped)
}

func TestParse_BlankLinesIgnored(t *testing.T) {
	text := "\n\n1 Submit report Pending 2024-01-10\n\n"

	res, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)
	assert.Zero(t, res.Skipped)
}

func TestParse_StatusNormalized(t *testing.T) {
	res := ParseString("1 Submit report completed 2024-01-10")
	require.Len(t, res.Records, 1)
	assert.Equal(t, domain.StatusCompleted, res.Records[0].Status)
}

func TestParse_UnknownStatusPassesThrough(t *testing.T) {
	res := ParseString("1 Submit report Blocked 2024-01-10")
	require.Len(t, res.Records, 1)
	assert.Equal(t, domain.Status("Blocked"), res.Records[0].Status)
}
