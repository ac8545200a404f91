package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/c360/flowmesh/runtime"
)

// repl drives a runtime.Runtime from line-oriented commands read from an
// io.Reader, writing results to an io.Writer. One command per line:
//
//	load <path>              replace the active configuration
//	publish <topic> <value>  publish value to an input-only topic
//	snapshot                 print every topic's name, last value and role
//	graph                    print the topic/agent graph and cycle status
//	reset                    reset every agent's state in place
//	help                     print this command list
//	quit | exit              stop the REPL
type repl struct {
	rt  *runtime.Runtime
	in  *bufio.Reader
	out io.Writer
}

func newREPL(rt *runtime.Runtime, in *bufio.Reader, out io.Writer) *repl {
	return &repl{rt: rt, in: in, out: out}
}

// Run reads commands until ctx is cancelled or the input stream ends.
func (r *repl) Run(ctx context.Context) error {
	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		for {
			line, err := r.in.ReadString('\n')
			if line != "" {
				lines <- line
			}
			if err != nil {
				errs <- err
				return
			}
		}
	}()

	fmt.Fprintf(r.out, "dataflow ready. type \"help\" for commands.\n> ")
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out, "\nshutting down")
			return nil
		case line := <-lines:
			r.dispatch(ctx, strings.TrimSpace(line))
			if r.shouldExit(line) {
				return nil
			}
			fmt.Fprint(r.out, "> ")
		case err := <-errs:
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (r *repl) shouldExit(line string) bool {
	cmd := strings.Fields(strings.TrimSpace(line))
	return len(cmd) > 0 && (cmd[0] == "quit" || cmd[0] == "exit")
}

func (r *repl) dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "load":
		r.cmdLoad(fields[1:])
	case "publish":
		r.cmdPublish(ctx, fields[1:])
	case "snapshot":
		r.cmdSnapshot()
	case "graph":
		r.cmdGraph(ctx)
	case "reset":
		r.rt.ResetAll()
		fmt.Fprintln(r.out, "ok")
	case "help":
		r.cmdHelp()
	case "quit", "exit":
		// handled by shouldExit after dispatch returns
	default:
		fmt.Fprintf(r.out, "unknown command %q, type \"help\"\n", fields[0])
	}
}

func (r *repl) cmdLoad(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: load <path>")
		return
	}
	if err := r.rt.LoadConfig(args[0]); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, "ok")
}

func (r *repl) cmdPublish(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(r.out, "usage: publish <topic> <value>")
		return
	}
	if err := r.rt.Publish(ctx, args[0], args[1]); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, "ok")
}

func (r *repl) cmdSnapshot() {
	for _, info := range r.rt.TopicSnapshot() {
		fmt.Fprintf(r.out, "%-20s %-12s value=%-10s subs=%v pubs=%v\n",
			info.Name, info.Role, info.LastValueText, info.SubscriberNames, info.PublisherNames)
	}
}

func (r *repl) cmdGraph(ctx context.Context) {
	g := r.rt.GraphSnapshot()
	for _, n := range g.Nodes {
		fmt.Fprintf(r.out, "node %s (%s) %s\n", n.ID, n.Kind, n.Name)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(r.out, "edge %s -> %s\n", e.From, e.To)
	}
	cyclic, err := g.HasCycles(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "cycle check error: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "cycles: %v\n", cyclic)
}

func (r *repl) cmdHelp() {
	fmt.Fprint(r.out, `commands:
  load <path>              replace the active configuration
  publish <topic> <value>  publish value to an input-only topic
  snapshot                 print every topic's name, last value and role
  graph                    print the topic/agent graph and cycle status
  reset                    reset every agent's state in place
  help                     print this command list
  quit | exit              stop the REPL
`)
}
