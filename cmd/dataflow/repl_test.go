package main

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/flowmesh/runtime"
)

func newTestREPL(t *testing.T) (*repl, *bytes.Buffer) {
	t.Helper()
	rt := runtime.New(runtime.WithBaseDir(t.TempDir()))
	out := &bytes.Buffer{}
	return newREPL(rt, bufio.NewReader(bytes.NewReader(nil)), out), out
}

func TestREPL_Help_PrintsCommandList(t *testing.T) {
	r, out := newTestREPL(t)
	r.dispatch(context.Background(), "help")
	assert.Contains(t, out.String(), "publish <topic> <value>")
}

func TestREPL_UnknownCommand_ReportsError(t *testing.T) {
	r, out := newTestREPL(t)
	r.dispatch(context.Background(), "frobnicate")
	assert.Contains(t, out.String(), "unknown command")
}

func TestREPL_Load_ThenPublishThenSnapshot(t *testing.T) {
	r, out := newTestREPL(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sum.cfg")
	require.NoError(t, os.WriteFile(path, []byte("add\nA,B\nS\n"), 0o644))

	r.dispatch(context.Background(), "load "+path)
	require.Contains(t, out.String(), "ok")
	out.Reset()

	r.dispatch(context.Background(), "publish A 2")
	require.Contains(t, out.String(), "ok")
	out.Reset()

	r.dispatch(context.Background(), "snapshot")
	assert.Contains(t, out.String(), "A")
	assert.Contains(t, out.String(), "S")
}

func TestREPL_Publish_UnknownTopicReportsError(t *testing.T) {
	r, out := newTestREPL(t)
	r.dispatch(context.Background(), "publish nope 1")
	assert.Contains(t, out.String(), "error:")
}

func TestREPL_Graph_PrintsCycleStatus(t *testing.T) {
	r, out := newTestREPL(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sum.cfg")
	require.NoError(t, os.WriteFile(path, []byte("add\nA,B\nS\n"), 0o644))

	r.dispatch(context.Background(), "load "+path)
	out.Reset()

	r.dispatch(context.Background(), "graph")
	assert.Contains(t, out.String(), "cycles: false")
}

func TestREPL_ShouldExit_RecognizesQuitAndExit(t *testing.T) {
	r, _ := newTestREPL(t)
	assert.True(t, r.shouldExit("quit"))
	assert.True(t, r.shouldExit("exit\n"))
	assert.False(t, r.shouldExit("snapshot"))
}

func TestREPL_Reset_RespondsOkWithNoConfigLoaded(t *testing.T) {
	r, out := newTestREPL(t)
	r.dispatch(context.Background(), "reset")
	assert.Contains(t, out.String(), "ok")
}
