package frontend

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"anvil/internal/component"
	"anvil/internal/unit"

	"github.com/chzyer/readline"
)

// REPL is the replacement interactive front-end: a readline-driven command
// loop that also acts as the process output sink. It registers itself under
// RegisteredName once it can accept input and idles awaiting commands for
// the lifetime of the process.
type REPL struct {
	opts EnvOptions
	env  *component.Env

	rl   *readline.Instance
	unit *unit.Unit

	mu     sync.RWMutex
	report *component.Report

	done     chan struct{}
	doneOnce sync.Once
}

// NewREPL creates the interactive front-end. The boot report is attached
// later via SetReport once the boot sequence completes.
func NewREPL(opts EnvOptions, env *component.Env) *REPL {
	return &REPL{
		opts: opts,
		env:  env,
		done: make(chan struct{}),
	}
}

// Start brings up the readline instance, spawns the front-end unit with its
// output sink and registers it as the active front-end. It satisfies the
// manager's StartFunc contract.
func (r *REPL) Start(reg *unit.Registry) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          r.opts.Prompt + " » ",
		HistoryFile:     r.opts.HistoryFile,
		AutoComplete:    r.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	r.rl = rl

	u := reg.Spawn(unit.RoleFrontEnd,
		unit.WithSink(rl.Stdout()),
		unit.WithStop(func() { rl.Close() }),
	)
	r.unit = u

	if err := reg.Register(RegisteredName, u.ID()); err != nil {
		reg.Terminate(u.ID())
		return err
	}

	go r.loop()
	return nil
}

// Unit returns the front-end unit's ID.
func (r *REPL) Unit() unit.ID {
	return r.unit.ID()
}

// SetReport attaches the boot report so the report command can display it.
func (r *REPL) SetReport(report *component.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report = report
}

// Done is closed when the interactive loop exits.
func (r *REPL) Done() <-chan struct{} {
	return r.done
}

func (r *REPL) completer() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("report"),
		readline.PcItem("apps"),
		readline.PcItem("get"),
		readline.PcItem("set"),
		readline.PcItem("quit"),
		readline.PcItem("exit"),
	)
}

func (r *REPL) loop() {
	defer r.doneOnce.Do(func() { close(r.done) })

	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return
			}
			continue
		}
		if err == io.EOF {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !r.dispatch(line) {
			return
		}
	}
}

// dispatch executes one command line; it returns false when the session
// should end.
func (r *REPL) dispatch(line string) bool {
	out := r.rl.Stdout()
	fields := strings.Fields(line)

	switch fields[0] {
	case "quit", "exit":
		return false
	case "help":
		r.printHelp(out)
	case "report":
		r.printReport(out)
	case "apps":
		r.printApps(out)
	case "get":
		if len(fields) != 3 {
			fmt.Fprintln(out, "usage: get <component> <key>")
			break
		}
		if v, ok := r.env.Get(fields[1], fields[2]); ok {
			fmt.Fprintf(out, "%v\n", v)
		} else {
			fmt.Fprintf(out, "no setting %s for component %s\n", fields[2], fields[1])
		}
	case "set":
		if len(fields) < 4 {
			fmt.Fprintln(out, "usage: set <component> <key> <value>")
			break
		}
		r.env.Set(fields[1], fields[2], strings.Join(fields[3:], " "))
	default:
		fmt.Fprintf(out, "unknown command %q, try help\n", fields[0])
	}
	return true
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprint(out, `Commands:
  help                         show this help
  report                       show the component boot report
  apps                         list started components
  get <component> <key>        show a component runtime setting
  set <component> <key> <val>  change a component runtime setting
  quit, exit                   leave the shell
`)
}

func (r *REPL) printReport(out io.Writer) {
	r.mu.RLock()
	report := r.report
	r.mu.RUnlock()

	if report == nil {
		fmt.Fprintln(out, "no boot report available")
		return
	}
	fmt.Fprintln(out, report.Render())
}

func (r *REPL) printApps(out io.Writer) {
	r.mu.RLock()
	report := r.report
	r.mu.RUnlock()

	if report == nil || len(report.Started()) == 0 {
		fmt.Fprintln(out, "no components started")
		return
	}
	for _, name := range report.Started() {
		fmt.Fprintln(out, name)
	}
}
