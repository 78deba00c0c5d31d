// Package runner spawns an external command and streams its output lines
// back to a single consumer that polls without blocking.
package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrNoCommand is returned by Start when no command is given.
var ErrNoCommand = errors.New("no command configured")

// Kind classifies an Event.
type Kind int

const (
	Stdout Kind = iota
	Stderr
	Exited // the command finished; ExitCode is set
	Failed // waiting on the command or reading its output failed; Err is set
)

// Event is one line of output or the final status of the command.
type Event struct {
	Kind     Kind
	Line     string
	ExitCode int
	Err      error
}

func (e Event) String() string {
	switch e.Kind {
	case Stderr:
		return "! " + e.Line
	case Exited:
		return fmt.Sprintf("exited with status %d", e.ExitCode)
	case Failed:
		return "error: " + e.Err.Error()
	default:
		return e.Line
	}
}

// Process is a running or finished command.
type Process struct {
	Name string // command line as given to Start

	events   chan Event
	finished bool
}

// Start spawns name with args. Output is read by two goroutines, one per
// stream, and a third reports the exit status once both streams are drained.
// There is no cancellation; the command runs to completion.
func Start(log logrus.FieldLogger, name string, args ...string) (*Process, error) {
	if name == "" {
		return nil, ErrNoCommand
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	cmd := exec.Command(name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", name, err)
	}

	p := &Process{
		Name:   cmd.String(),
		events: make(chan Event, 256),
	}
	log = log.WithField("pid", cmd.Process.Pid)
	log.WithField("cmd", p.Name).Info("started command")

	var wg sync.WaitGroup
	wg.Add(2)
	go p.read(&wg, stdout, Stdout)
	go p.read(&wg, stderr, Stderr)

	go func() {
		defer close(p.events)
		// Wait closes the pipes, so both readers must be done first
		wg.Wait()

		err := cmd.Wait()
		var exitErr *exec.ExitError
		switch {
		case err == nil:
			p.events <- Event{Kind: Exited}
		case errors.As(err, &exitErr):
			p.events <- Event{Kind: Exited, ExitCode: exitErr.ExitCode()}
		default:
			p.events <- Event{Kind: Failed, Err: err}
		}
		log.WithError(err).Info("command finished")
	}()

	return p, nil
}

func (p *Process) read(wg *sync.WaitGroup, r io.Reader, kind Kind) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.events <- Event{Kind: kind, Line: scanner.Text()}
	}
	if err := scanner.Err(); err != nil {
		p.events <- Event{Kind: Failed, Err: fmt.Errorf("reading output: %w", err)}
		// keep draining so the command cannot block on a full pipe
		_, _ = io.Copy(io.Discard, r)
	}
}

// Poll returns every event available right now without blocking.
func (p *Process) Poll() []Event {
	var out []Event
	for !p.finished {
		select {
		case ev, ok := <-p.events:
			if !ok {
				p.finished = true
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
	return out
}

// Finished reports whether every event has been consumed.
func (p *Process) Finished() bool {
	return p.finished
}
