package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
	"tableflip.dev/calendiary/pkg/diary/diarytest"
)

const (
	testDelay = 40 * time.Millisecond
	waitFor   = 2 * time.Second
	tick      = 5 * time.Millisecond
)

var day = calendar.Date{Year: 2024, Month: time.January, Day: 15}

func openEditor(t *testing.T, store diary.Storage) *Editor {
	t.Helper()
	e := New(context.Background(), day, store, WithDelay(testDelay))
	t.Cleanup(func() { _ = e.Close(context.Background()) })
	require.Eventually(t, func() bool { return !e.State().Loading }, waitFor, tick)
	return e
}

func waitIdle(t *testing.T, e *Editor) State {
	t.Helper()
	require.Eventually(t, func() bool {
		s := e.State()
		return !s.Saving && !s.HasUnsavedChanges
	}, waitFor, tick)
	return e.State()
}

func TestLoadExistingEntry(t *testing.T) {
	store := diarytest.NewMemory(diary.New(day, "hello"))
	e := openEditor(t, store)

	s := e.State()
	assert.Equal(t, "hello", s.Content)
	assert.False(t, s.HasUnsavedChanges)
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Equal(t, "Monday, January 15, 2024", s.DateDisplay)
}

func TestLoadMissingEntryStartsEmpty(t *testing.T) {
	e := openEditor(t, diarytest.NewMemory())

	s := e.State()
	assert.Empty(t, s.Content)
	assert.NoError(t, s.Err)
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestLoadFailureSurfacesError(t *testing.T) {
	store := diarytest.NewMemory()
	store.FailGet = errors.New("database locked")
	e := openEditor(t, store)

	s := e.State()
	assert.Equal(t, PhaseError, s.Phase())
	assert.ErrorIs(t, s.Err, diary.ErrPersistence)
	assert.Equal(t, "Failed to persist diary entry: database locked", s.ErrorMessage())
	assert.Len(t, store.CallsOf(diarytest.OpGet), 1, "load must not be retried")
}

func TestEditsBeforeLoadDoNotReplaceEntry(t *testing.T) {
	store := diarytest.NewMemory(diary.New(day, "a long stored entry"))
	store.LoadGate = make(chan struct{})
	e := New(context.Background(), day, store, WithDelay(testDelay))
	t.Cleanup(func() { _ = e.Close(context.Background()) })

	e.Edit("x")
	e.Save()
	e.Delete()
	assert.True(t, e.State().Loading)
	assert.Empty(t, e.State().Content)

	close(store.LoadGate)
	require.Eventually(t, func() bool { return !e.State().Loading }, waitFor, tick)

	s := e.State()
	assert.Equal(t, "a long stored entry", s.Content)
	assert.False(t, s.HasUnsavedChanges)

	time.Sleep(3 * testDelay)
	assert.Empty(t, store.CallsOf(diarytest.OpSave))
	assert.Empty(t, store.CallsOf(diarytest.OpDelete))
	got, _ := store.Content(day)
	assert.Equal(t, "a long stored entry", got)
}

func TestCloseBeforeLoadWritesNothing(t *testing.T) {
	store := diarytest.NewMemory(diary.New(day, "a long stored entry"))
	store.LoadGate = make(chan struct{})
	e := New(context.Background(), day, store, WithDelay(time.Hour))

	e.Edit("x")
	require.NoError(t, e.Close(context.Background()))

	assert.Empty(t, store.CallsOf(diarytest.OpSave))
	assert.Empty(t, store.CallsOf(diarytest.OpDelete))
	got, _ := store.Content(day)
	assert.Equal(t, "a long stored entry", got)
}

func TestEditAutoSavesAfterDelay(t *testing.T) {
	store := diarytest.NewMemory()
	e := openEditor(t, store)

	e.Edit("hello")
	assert.True(t, e.State().HasUnsavedChanges)
	assert.Equal(t, "hello", e.State().Content)

	s := waitIdle(t, e)
	assert.False(t, s.HasUnsavedChanges)

	time.Sleep(3 * testDelay)
	saves := store.CallsOf(diarytest.OpSave)
	require.Len(t, saves, 1)
	assert.Equal(t, "hello", saves[0].Content)
	assert.Equal(t, day, saves[0].Date)
}

func TestEditsWithinWindowCoalesce(t *testing.T) {
	store := diarytest.NewMemory()
	e := openEditor(t, store)

	e.Edit("h")
	e.Edit("he")
	e.Edit("hey")
	waitIdle(t, e)
	time.Sleep(3 * testDelay)

	saves := store.CallsOf(diarytest.OpSave)
	require.Len(t, saves, 1)
	assert.Equal(t, "hey", saves[0].Content)
}

func TestBlankAfterContentDeletes(t *testing.T) {
	store := diarytest.NewMemory(diary.New(day, "hello"))
	e := openEditor(t, store)

	e.Edit("")
	require.Eventually(t, func() bool { return len(store.CallsOf(diarytest.OpDelete)) == 1 }, waitFor, tick)
	waitIdle(t, e)

	assert.Empty(t, store.CallsOf(diarytest.OpSave))
	_, ok := store.Content(day)
	assert.False(t, ok)
	assert.Empty(t, e.State().Content)
}

func TestBlankWithoutEntryIsNoop(t *testing.T) {
	store := diarytest.NewMemory()
	e := openEditor(t, store)

	e.Edit("draft")
	e.Edit("")
	time.Sleep(3 * testDelay)
	e.Save()

	assert.Empty(t, store.CallsOf(diarytest.OpSave))
	assert.Empty(t, store.CallsOf(diarytest.OpDelete))
	assert.False(t, e.State().HasUnsavedChanges)
}

func TestCloseFlushesPendingEdit(t *testing.T) {
	store := diarytest.NewMemory()
	e := New(context.Background(), day, store, WithDelay(time.Hour))
	require.Eventually(t, func() bool { return !e.State().Loading }, waitFor, tick)

	e.Edit("final")
	require.NoError(t, e.Close(context.Background()))

	saves := store.CallsOf(diarytest.OpSave)
	require.Len(t, saves, 1)
	assert.Equal(t, "final", saves[0].Content)

	// The debounce timer is gone; closing twice is harmless.
	require.NoError(t, e.Close(context.Background()))
	assert.Len(t, store.CallsOf(diarytest.OpSave), 1)
}

func TestCloseFlushDeletesClearedEntry(t *testing.T) {
	store := diarytest.NewMemory(diary.New(day, "hello"))
	e := New(context.Background(), day, store, WithDelay(time.Hour))
	require.Eventually(t, func() bool { return !e.State().Loading }, waitFor, tick)

	e.Edit("   ")
	require.NoError(t, e.Close(context.Background()))

	assert.Len(t, store.CallsOf(diarytest.OpDelete), 1)
	assert.Empty(t, store.CallsOf(diarytest.OpSave))
}

func TestCloseWithoutChangesDoesNothing(t *testing.T) {
	store := diarytest.NewMemory(diary.New(day, "hello"))
	e := openEditor(t, store)

	require.NoError(t, e.Close(context.Background()))
	assert.Empty(t, store.CallsOf(diarytest.OpSave))
	assert.Empty(t, store.CallsOf(diarytest.OpDelete))

	e.Edit("ignored")
	assert.Equal(t, "hello", e.State().Content)
}

func TestCloseReportsFlushFailure(t *testing.T) {
	store := diarytest.NewMemory()
	store.FailSave = errors.New("read-only file system")
	e := New(context.Background(), day, store, WithDelay(time.Hour))
	require.Eventually(t, func() bool { return !e.State().Loading }, waitFor, tick)

	e.Edit("final")
	err := e.Close(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, diary.ErrPersistence)
}

func TestSaveFailureKeepsContent(t *testing.T) {
	store := diarytest.NewMemory()
	store.FailSave = errors.New("disk full")
	e := openEditor(t, store)

	e.Edit("precious words")
	require.Eventually(t, func() bool { return e.State().Phase() == PhaseError }, waitFor, tick)

	s := e.State()
	assert.Equal(t, "precious words", s.Content)
	assert.True(t, s.HasUnsavedChanges)
	assert.Contains(t, s.ErrorMessage(), "disk full")

	store.SetFailSave(nil)
	e.Edit("precious words!")
	assert.NoError(t, e.State().Err, "editing clears the error")
	s = waitIdle(t, e)
	assert.NoError(t, s.Err)
	content, ok := store.Content(day)
	require.True(t, ok)
	assert.Equal(t, "precious words!", content)
}

func TestExplicitSaveSkipsTimer(t *testing.T) {
	store := diarytest.NewMemory()
	e := New(context.Background(), day, store, WithDelay(time.Hour))
	t.Cleanup(func() { _ = e.Close(context.Background()) })
	require.Eventually(t, func() bool { return !e.State().Loading }, waitFor, tick)

	e.Edit("now")
	e.Save()
	waitIdle(t, e)
	assert.Len(t, store.CallsOf(diarytest.OpSave), 1)

	e.Save()
	time.Sleep(3 * testDelay)
	assert.Len(t, store.CallsOf(diarytest.OpSave), 1, "nothing left to save")
}

func TestExplicitDeleteClearsContent(t *testing.T) {
	store := diarytest.NewMemory(diary.New(day, "hello"))
	e := openEditor(t, store)

	e.Delete()
	require.Eventually(t, func() bool { return len(store.CallsOf(diarytest.OpDelete)) == 1 }, waitFor, tick)
	s := waitIdle(t, e)
	assert.Empty(t, s.Content)
	assert.NoError(t, s.Err)

	ok, err := store.HasEntry(context.Background(), day)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteFailureSurfacesError(t *testing.T) {
	store := diarytest.NewMemory(diary.New(day, "hello"))
	store.FailDelete = errors.New("permission denied")
	e := openEditor(t, store)

	e.Delete()
	require.Eventually(t, func() bool { return e.State().Phase() == PhaseError }, waitFor, tick)
	assert.Equal(t, "hello", e.State().Content)
}

func TestOneOperationInFlight(t *testing.T) {
	store := diarytest.NewMemory()
	store.Gate = make(chan struct{})
	e := New(context.Background(), day, store, WithDelay(time.Hour))
	require.Eventually(t, func() bool { return !e.State().Loading }, waitFor, tick)

	e.Edit("first")
	e.Save()
	require.Eventually(t, func() bool { return e.State().Saving }, waitFor, tick)

	// Edits keep landing while the save is blocked.
	e.Edit("second")
	assert.Equal(t, "second", e.State().Content)
	e.Save()

	store.Gate <- struct{}{}
	store.Gate <- struct{}{}
	waitIdle(t, e)
	require.NoError(t, e.Close(context.Background()))

	saves := store.CallsOf(diarytest.OpSave)
	require.Len(t, saves, 2)
	assert.Equal(t, "first", saves[0].Content)
	assert.Equal(t, "second", saves[1].Content)
	assert.Equal(t, 1, store.PeakConcurrent())
}

func TestCloseWaitsForInFlightSave(t *testing.T) {
	store := diarytest.NewMemory()
	store.Gate = make(chan struct{})
	e := New(context.Background(), day, store, WithDelay(time.Hour))
	require.Eventually(t, func() bool { return !e.State().Loading }, waitFor, tick)

	e.Edit("first")
	e.Save()
	require.Eventually(t, func() bool { return e.State().Saving }, waitFor, tick)
	e.Edit("second")

	done := make(chan error, 1)
	go func() { done <- e.Close(context.Background()) }()

	store.Gate <- struct{}{}
	store.Gate <- struct{}{}
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("close did not return")
	}

	content, ok := store.Content(day)
	require.True(t, ok)
	assert.Equal(t, "second", content)
	assert.Equal(t, 1, store.PeakConcurrent())
}

func TestUpdatesDeliverLatestState(t *testing.T) {
	store := diarytest.NewMemory(diary.New(day, "hello"))
	e := New(context.Background(), day, store, WithDelay(time.Hour))

	var last State
	require.Eventually(t, func() bool {
		select {
		case s := <-e.Updates():
			last = s
		default:
		}
		return !last.Loading && last.Content == "hello"
	}, waitFor, tick)

	e.Edit("a")
	e.Edit("ab")
	s := <-e.Updates()
	assert.Equal(t, "ab", s.Content)
	assert.True(t, s.HasUnsavedChanges)

	require.NoError(t, e.Close(context.Background()))
	_, open := <-e.Updates()
	assert.False(t, open)
}
