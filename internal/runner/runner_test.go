package runner

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect polls p until it finishes.
func collect(t *testing.T, p *Process) []Event {
	t.Helper()
	var events []Event
	require.Eventually(t, func() bool {
		events = append(events, p.Poll()...)
		return p.Finished()
	}, 10*time.Second, 5*time.Millisecond)
	return events
}

func linesOf(events []Event, kind Kind) []string {
	var out []string
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev.Line)
		}
	}
	return out
}

func TestStart_CapturesBothStreams(t *testing.T) {
	log, _ := test.NewNullLogger()
	p, err := Start(log, "sh", "-c", "echo one; echo two; echo oops >&2")
	require.NoError(t, err)

	events := collect(t, p)
	assert.Equal(t, []string{"one", "two"}, linesOf(events, Stdout))
	assert.Equal(t, []string{"oops"}, linesOf(events, Stderr))

	last := events[len(events)-1]
	assert.Equal(t, Exited, last.Kind)
	assert.Equal(t, 0, last.ExitCode)
	assert.Contains(t, p.Name, "sh")
}

func TestStart_ExitStatus(t *testing.T) {
	p, err := Start(nil, "sh", "-c", "exit 3")
	require.NoError(t, err)

	events := collect(t, p)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, Exited, last.Kind)
	assert.Equal(t, 3, last.ExitCode)
	assert.Equal(t, "exited with status 3", last.String())
}

func TestStart_SpawnFailure(t *testing.T) {
	_, err := Start(nil, "/nonexistent/pacfront-command")
	assert.Error(t, err)

	_, err = Start(nil, "")
	assert.ErrorIs(t, err, ErrNoCommand)
}

func TestPoll_NeverBlocks(t *testing.T) {
	p, err := Start(nil, "sh", "-c", "sleep 1; echo late")
	require.NoError(t, err)

	start := time.Now()
	events := p.Poll()
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Empty(t, events)
	assert.False(t, p.Finished())

	events = collect(t, p)
	assert.Equal(t, []string{"late"}, linesOf(events, Stdout))

	// polling a finished process is harmless
	assert.Empty(t, p.Poll())
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "hello", Event{Kind: Stdout, Line: "hello"}.String())
	assert.Equal(t, "! bad", Event{Kind: Stderr, Line: "bad"}.String())
}
