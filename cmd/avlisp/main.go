// Command avlisp is the AVLisp CLI entry point.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robert-porter/avlisp/pkg/config"
	"github.com/robert-porter/avlisp/pkg/diagnostics"
	"github.com/robert-porter/avlisp/pkg/evaluator"
	"github.com/robert-porter/avlisp/pkg/interpreter"
	"github.com/robert-porter/avlisp/pkg/parser"
)

// demoProgram is evaluated when avlisp is started without arguments.
const demoProgram = `(begin
  (define fact (lambda (n) (if (= n 0) 1 (* n (fact (- n 1))))))
  (fact 10))`

const usage = `usage: avlisp [<command> [options]]
commands:
  run <expr> [--json] [--trace] [--pretty] [--strict]
  check <expr> [--pretty]
  fmt <expr>
  trace [--text]        summarize NDJSON trace events read from stdin
  config                print the effective configuration
with no command, evaluates the factorial of 10`

// Exit codes.
const (
	exitOK      = 0
	exitUsage   = 1
	exitDiag    = 2
	exitRuntime = 4
)

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// dir is searched for the project configuration file.
	dir string
}

func main() {
	cwd, _ := os.Getwd()
	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr, dir: cwd}
	os.Exit(c.main(os.Args[1:]))
}

func (c *cli) main(args []string) int {
	if len(args) == 0 {
		return c.cmdDemo()
	}

	cmd := args[0]
	switch cmd {
	case "run":
		return c.cmdRun(args[1:])
	case "check":
		return c.cmdCheck(args[1:])
	case "fmt":
		return c.cmdFmt(args[1:])
	case "trace":
		return c.cmdTrace(args[1:])
	case "config":
		return c.cmdConfig()
	case "help", "--help", "-h":
		fmt.Fprintln(c.stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(c.stderr, "Unknown command: %s\n%s\n", cmd, usage)
		return exitUsage
	}
}

// splitArgs separates --flags from the single positional expression.
func splitArgs(args []string, known ...string) (expr string, flags map[string]bool, err error) {
	flags = make(map[string]bool)
	allowed := make(map[string]bool, len(known))
	for _, k := range known {
		allowed[k] = true
	}
	found := false
	for _, a := range args {
		if strings.HasPrefix(a, "--") {
			if !allowed[a] {
				return "", nil, fmt.Errorf("unknown flag %s", a)
			}
			flags[a] = true
			continue
		}
		if found {
			return "", nil, fmt.Errorf("unexpected argument %q (quote the whole expression)", a)
		}
		expr, found = a, true
	}
	if !found {
		return "", nil, errors.New("missing expression")
	}
	return expr, flags, nil
}

func (c *cli) cmdDemo() int {
	in, code := c.newInterpreter(false, false)
	if in == nil {
		return code
	}
	fmt.Fprintln(c.stdout, in.Execute(demoProgram).String())
	return exitOK
}

func (c *cli) cmdRun(args []string) int {
	expr, flags, err := splitArgs(args, "--json", "--trace", "--pretty", "--strict")
	if err != nil {
		fmt.Fprintf(c.stderr, "%s\nusage: avlisp run <expr> [--json] [--trace] [--pretty] [--strict]\n", err)
		return exitUsage
	}
	pretty := flags["--pretty"]

	in, code := c.newInterpreter(flags["--trace"], flags["--strict"])
	if in == nil {
		return code
	}

	val, err := in.Run(expr)
	if err != nil {
		c.printDiags([]diagnostics.Diagnostic{diagnostics.FromError(err)}, pretty)
		var parseErr *parser.Error
		var diagErr *interpreter.DiagnosticError
		if errors.As(err, &parseErr) || errors.As(err, &diagErr) {
			return exitDiag
		}
		return exitRuntime
	}

	if flags["--json"] {
		fmt.Fprintln(c.stdout, evaluator.ValueToJSONString(val))
		return exitOK
	}
	// Procedures and definitions have no result; show what they are.
	fmt.Fprintln(c.stdout, evaluator.Display(val))
	return exitOK
}

func (c *cli) cmdCheck(args []string) int {
	expr, flags, err := splitArgs(args, "--pretty")
	if err != nil {
		fmt.Fprintf(c.stderr, "%s\nusage: avlisp check <expr> [--pretty]\n", err)
		return exitUsage
	}
	pretty := flags["--pretty"]

	diags := interpreter.New().Check(expr)
	if len(diags) > 0 {
		c.printDiags(diags, pretty)
		return exitDiag
	}

	if pretty {
		fmt.Fprintln(c.stdout, "No errors found.")
	} else {
		fmt.Fprintln(c.stdout, "[]")
	}
	return exitOK
}

func (c *cli) cmdFmt(args []string) int {
	expr, _, err := splitArgs(args)
	if err != nil {
		fmt.Fprintf(c.stderr, "%s\nusage: avlisp fmt <expr>\n", err)
		return exitUsage
	}
	formatted, err := interpreter.New().Format(expr)
	if err != nil {
		c.printDiags([]diagnostics.Diagnostic{diagnostics.FromError(err)}, false)
		return exitDiag
	}
	fmt.Fprint(c.stdout, formatted)
	return exitOK
}

func (c *cli) cmdTrace(args []string) int {
	textOutput := false
	for _, a := range args {
		switch a {
		case "--text":
			textOutput = true
		case "--json":
		default:
			fmt.Fprintf(c.stderr, "unknown argument %s\nusage: avlisp trace [--text|--json] < trace.jsonl\n", a)
			return exitUsage
		}
	}

	summary, err := computeTraceSummary(c.stdin)
	if err != nil {
		c.printDiags([]diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EIO, err.Error(), "", "")}, false)
		return exitUsage
	}
	if textOutput {
		printTraceSummaryText(c.stdout, summary)
		return exitOK
	}
	b, _ := json.Marshal(summary)
	fmt.Fprintln(c.stdout, string(b))
	return exitOK
}

func (c *cli) cmdConfig() int {
	cfg, err := config.Load(c.dir)
	if err != nil {
		c.printDiags([]diagnostics.Diagnostic{diagnostics.FromError(err)}, true)
		return exitUsage
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(c.stderr, "error serializing config: %s\n", err)
		return exitUsage
	}
	source := cfg.Path
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(c.stdout, "# source: %s\n%s", source, out)
	return exitOK
}

// newInterpreter loads the configuration and builds an interpreter. On a
// configuration error it prints the diagnostic and returns a nil interpreter.
func (c *cli) newInterpreter(trace, strict bool) (*interpreter.Interpreter, int) {
	cfg, err := config.Load(c.dir)
	if err != nil {
		c.printDiags([]diagnostics.Diagnostic{diagnostics.FromError(err)}, true)
		return nil, exitUsage
	}
	opts := []interpreter.Option{interpreter.WithConfig(cfg)}
	if trace || cfg.Trace {
		opts = append(opts, interpreter.WithTrace(c.writeTraceEvent))
	}
	if strict {
		opts = append(opts, interpreter.WithStrict())
	}
	return interpreter.New(opts...), exitOK
}

// writeTraceEvent writes one NDJSON line to stderr.
func (c *cli) writeTraceEvent(e evaluator.TraceEvent) {
	b, err := evaluator.TraceEventToJSON(e)
	if err != nil {
		return
	}
	fmt.Fprintln(c.stderr, string(b))
}

func (c *cli) printDiags(diags []diagnostics.Diagnostic, pretty bool) {
	fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(diags, pretty))
}

// TraceSummary aggregates the events of one or more traced runs.
type TraceSummary struct {
	RunID       string         `json:"runId"`
	TotalEvents int            `json:"totalEvents"`
	Runs        int            `json:"runs"`
	Failures    int            `json:"failures"`
	Calls       int            `json:"calls"`
	CallsByName map[string]int `json:"callsByName"`
	Defines     int            `json:"defines"`
	Sets        int            `json:"sets"`
	MaxDepth    int            `json:"maxDepth"`
	StartTime   string         `json:"startTime,omitempty"`
	EndTime     string         `json:"endTime,omitempty"`
	DurationMs  float64        `json:"durationMs"`
}

func computeTraceSummary(r io.Reader) (*TraceSummary, error) {
	summary := &TraceSummary{
		CallsByName: make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event evaluator.TraceEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue // skip invalid lines
		}

		summary.TotalEvents++
		if summary.RunID == "" {
			summary.RunID = event.RunID
		}

		switch event.Event {
		case evaluator.TraceRunStart:
			summary.Runs++
			if summary.StartTime == "" {
				summary.StartTime = event.Timestamp
			}
		case evaluator.TraceRunEnd:
			summary.EndTime = event.Timestamp
			if ok, found := event.Data["ok"].(bool); found && !ok {
				summary.Failures++
			}
		case evaluator.TraceCallStart:
			summary.Calls++
			if name, ok := event.Data["callee"].(string); ok {
				summary.CallsByName[name]++
			}
			// JSON numbers decode as float64.
			if depth, ok := event.Data["depth"].(float64); ok && int(depth) > summary.MaxDepth {
				summary.MaxDepth = int(depth)
			}
		case evaluator.TraceDefine:
			summary.Defines++
		case evaluator.TraceSet:
			summary.Sets++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}

	if summary.StartTime != "" && summary.EndTime != "" {
		start, err1 := time.Parse(time.RFC3339Nano, summary.StartTime)
		end, err2 := time.Parse(time.RFC3339Nano, summary.EndTime)
		if err1 == nil && err2 == nil {
			summary.DurationMs = float64(end.Sub(start).Microseconds()) / 1000
		}
	}

	return summary, nil
}

func printTraceSummaryText(w io.Writer, s *TraceSummary) {
	fmt.Fprintf(w, "Run: %s\n", s.RunID)
	fmt.Fprintf(w, "Events: %d (%d runs, %d failed)\n", s.TotalEvents, s.Runs, s.Failures)
	fmt.Fprintf(w, "Calls: %d (max depth %d)\n", s.Calls, s.MaxDepth)
	names := make([]string, 0, len(s.CallsByName))
	for name := range s.CallsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d\n", name, s.CallsByName[name])
	}
	fmt.Fprintf(w, "Defines: %d, sets: %d\n", s.Defines, s.Sets)
	if s.DurationMs > 0 {
		fmt.Fprintf(w, "Duration: %.3fms\n", s.DurationMs)
	}
}
