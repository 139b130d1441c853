package subtitle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeline_SortsByStartTime(t *testing.T) {
	content := `{"materials":{"texts":[
		{"content":"second","start_time":2000000,"end_time":3000000},
		{"content":"first","start_time":1000000,"end_time":2000000}
	]}}`

	records, err := ParseTimeline([]byte(content))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].Index)
	assert.Equal(t, "first", records[0].Text)
	assert.Equal(t, "00:00:01,000 --> 00:00:02,000", records[0].Timing)
	assert.Equal(t, 2, records[1].Index)
	assert.Equal(t, "second", records[1].Text)
}

func TestParseTimeline_DropsBlankEntries(t *testing.T) {
	content := `{"materials":{"texts":[
		{"content":"   ","start_time":0,"end_time":1000000},
		{"content":"kept","start_time":1000000,"end_time":2000000}
	]}}`

	records, err := ParseTimeline([]byte(content))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Index)
	assert.Equal(t, "kept", records[0].Text)
}

func TestParseTimeline_FloorsToMilliseconds(t *testing.T) {
	content := `{"materials":{"texts":[
		{"content":"x","start_time":1999999,"end_time":3661001999}
	]}}`

	records, err := ParseTimeline([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, "00:00:01,999 --> 01:01:01,001", records[0].Timing)
}

func TestParseTimeline_InvalidJSON(t *testing.T) {
	_, err := ParseTimeline([]byte("not json"))
	assert.ErrorIs(t, err, ErrInvalidTimeline)
}

func TestParseTimeline_MissingTexts(t *testing.T) {
	_, err := ParseTimeline([]byte(`{"materials":{}}`))
	assert.ErrorIs(t, err, ErrInvalidTimeline)
}

func TestParseTimeline_AllBlank(t *testing.T) {
	_, err := ParseTimeline([]byte(`{"materials":{"texts":[{"content":"","start_time":0,"end_time":0}]}}`))
	assert.ErrorIs(t, err, ErrNoCaptions)
}
