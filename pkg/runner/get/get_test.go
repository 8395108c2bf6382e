package get

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
	"tableflip.dev/calendiary/pkg/diary/diarytest"
)

var jan15 = calendar.Date{Year: 2024, Month: time.January, Day: 15}

func init() {
	color.NoColor = true
}

func TestGetPrintsEntry(t *testing.T) {
	out := new(bytes.Buffer)
	g := Get{
		Storage: diarytest.NewMemory(diary.New(jan15, "Went skating.")),
		On:      jan15,
		Out:     out,
	}
	require.NoError(t, g.Do(context.Background()))
	assert.Contains(t, out.String(), "Monday, January 15, 2024")
	assert.Contains(t, out.String(), "  Went skating.")
}

func TestGetMissingEntry(t *testing.T) {
	out := new(bytes.Buffer)
	g := Get{Storage: diarytest.NewMemory(), On: jan15, Out: out}
	require.NoError(t, g.Do(context.Background()))
	assert.Contains(t, out.String(), "no entry")
}

func TestGetJSON(t *testing.T) {
	out := new(bytes.Buffer)
	g := Get{
		Storage: diarytest.NewMemory(diary.New(jan15, "Went skating.")),
		On:      jan15,
		JSON:    true,
		Out:     out,
	}
	require.NoError(t, g.Do(context.Background()))

	var got result
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "2024-01-15", got.Date)
	assert.True(t, got.Found)
	require.NotNil(t, got.Entry)
	assert.Equal(t, "Went skating.", got.Entry.Content)
}

func TestGetJSONMissing(t *testing.T) {
	out := new(bytes.Buffer)
	g := Get{Storage: diarytest.NewMemory(), On: jan15, JSON: true, Out: out}
	require.NoError(t, g.Do(context.Background()))

	var got result
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.False(t, got.Found)
	assert.Nil(t, got.Entry)
}

func TestGetRequiresStorage(t *testing.T) {
	g := Get{On: jan15}
	assert.Error(t, g.Do(context.Background()))
}
