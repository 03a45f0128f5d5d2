// slotmapctl is an interactive REPL for exercising a slotmap.Map and its
// companion slotmap.SecondaryMap.
//
// Usage:
//
//	slotmapctl [--capacity N] [--debug-tag]
//
// There is no --config flag: the config file is always read from
// $XDG_CONFIG_HOME/slotmapctl/config.jsonc, or ~/.config/slotmapctl/config.jsonc
// when XDG_CONFIG_HOME is unset.
//
// Commands (in REPL):
//
//	alloc                         Reserve a slot, print a handle id and its future key
//	insert <handle> <value>       Consume a handle, storing value
//	release <handle>              Consume a handle without storing a value
//	get <key>                     Retrieve a value by key
//	remove <key>                  Remove a value by key
//	contains <key>                Report whether a key is currently valid
//	len / cap / isempty           Report map statistics
//	reserve <n>                   Pre-grow storage for n additional slots
//	clear                         Drop every occupied value, keep reservations
//	iter [limit]                  List occupied (key, value) pairs
//	sec-insert <key> <value>      Insert into the secondary map
//	sec-get <key>                 Retrieve from the secondary map
//	sec-remove <key>              Remove from the secondary map
//	sec-retain                    Sweep secondary entries whose key is no longer live
//	sec-len                       Count secondary entries
//	snapshot <path>                Atomically write a diagnostic text dump
//	help                          Show this help
//	exit / quit / q               Exit
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/nilkey/slotmap/internal/democonfig"
	"github.com/nilkey/slotmap/pkg/slotmap"
)

var errMissingArg = fmt.Errorf("missing argument")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, cfgPath, err := democonfig.Load(os.Environ())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fs := flag.NewFlagSet("slotmapctl", flag.ExitOnError)
	capacity := fs.Int("capacity", cfg.DefaultCapacity, "pre-reserve storage for this many slots")
	debugTag := fs.Bool("debug-tag", cfg.DebugTag, "print a note on start that cross-map handle checks are always enforced (diagnostic)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: slotmapctl [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if cfgPath != "" {
		fmt.Fprintf(os.Stderr, "loaded config: %s\n", cfgPath)
	}

	repl := &REPL{
		m:        slotmap.WithCapacity[string](*capacity),
		sec:      slotmap.NewSecondaryMap[string](),
		pending:  make(map[string]slotmap.Handle),
		debugTag: *debugTag,

		historyPath: cfg.HistoryPath,
	}

	return repl.Run()
}

// REPL is the interactive command loop.
type REPL struct {
	m       *slotmap.Map[string]
	sec     *slotmap.SecondaryMap[string]
	pending map[string]slotmap.Handle
	nextID  int

	debugTag    bool
	historyPath string // from config; empty means ~/.slotmapctl_history
	liner       *liner.State
}

func (r *REPL) historyFile() string {
	if r.historyPath != "" {
		return r.historyPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".slotmapctl_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(r.historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("slotmapctl - in-memory generational slot map (capacity=%d)\n", r.m.Capacity())

	if r.debugTag {
		fmt.Println("debug: cross-map handle checks are always enforced, not just in debug builds")
	}

	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("slotmapctl> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "alloc":
			r.cmdAlloc()

		case "insert":
			r.cmdInsert(args)

		case "release":
			r.cmdRelease(args)

		case "get":
			r.cmdGet(args)

		case "remove", "rm":
			r.cmdRemove(args)

		case "contains":
			r.cmdContains(args)

		case "len":
			fmt.Println(r.m.Len())

		case "cap":
			fmt.Println(r.m.Capacity())

		case "isempty":
			fmt.Println(r.m.IsEmpty())

		case "reserve":
			r.cmdReserve(args)

		case "clear":
			r.m.Clear()
			fmt.Println("OK: cleared")

		case "iter":
			r.cmdIter(args)

		case "sec-insert":
			r.cmdSecInsert(args)

		case "sec-get":
			r.cmdSecGet(args)

		case "sec-remove":
			r.cmdSecRemove(args)

		case "sec-retain":
			r.cmdSecRetain()

		case "sec-len":
			fmt.Println(r.sec.Len())

		case "snapshot":
			r.cmdSnapshot(args)

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

func (r *REPL) saveHistory() {
	if path := r.historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		"alloc", "insert", "release",
		"get", "remove", "rm", "contains",
		"len", "cap", "isempty", "reserve", "clear", "iter",
		"sec-insert", "sec-get", "sec-remove", "sec-retain", "sec-len",
		"snapshot",
		"help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  alloc                       Reserve a slot, print a handle id and its future key")
	fmt.Println("  insert <handle> <value>     Consume a handle, storing value")
	fmt.Println("  release <handle>            Consume a handle without storing a value")
	fmt.Println("  get <key>                   Retrieve a value by key")
	fmt.Println("  remove <key>                Remove a value by key")
	fmt.Println("  contains <key>              Report whether a key is currently valid")
	fmt.Println("  len / cap / isempty         Report map statistics")
	fmt.Println("  reserve <n>                 Pre-grow storage for n additional slots")
	fmt.Println("  clear                       Drop every occupied value, keep reservations")
	fmt.Println("  iter [limit]                List occupied (key, value) pairs")
	fmt.Println("  sec-insert <key> <value>    Insert into the secondary map")
	fmt.Println("  sec-get <key>               Retrieve from the secondary map")
	fmt.Println("  sec-remove <key>            Remove from the secondary map")
	fmt.Println("  sec-retain                  Sweep secondary entries whose key is no longer live")
	fmt.Println("  sec-len                     Count secondary entries")
	fmt.Println("  snapshot <path>             Atomically write a diagnostic text dump")
	fmt.Println("  help                        Show this help")
	fmt.Println("  exit / quit / q             Exit")
	fmt.Println()
	fmt.Println("Keys print and parse as decimal uint64s; handles are referenced by")
	fmt.Println("the small ids 'alloc' prints (h1, h2, ...), since a Handle is not a")
	fmt.Println("plain value a REPL can round-trip through text.")
}

func (r *REPL) cmdAlloc() {
	h, err := r.m.AllocateHandle()
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	r.nextID++
	id := fmt.Sprintf("h%d", r.nextID)
	r.pending[id] = h

	fmt.Printf("OK: %s reserved (index=%d generation=%d future-key=%d)\n", id, h.Index(), h.Generation(), uint64(h.Key()))
}

func (r *REPL) cmdInsert(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: insert <handle> <value>")

		return
	}

	h, ok := r.pending[args[0]]
	if !ok {
		fmt.Printf("Unknown handle: %s\n", args[0])

		return
	}

	value := strings.Join(args[1:], " ")

	key, err := r.m.Insert(h, value)
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	delete(r.pending, args[0])
	fmt.Printf("OK: key=%d\n", uint64(key))
}

func (r *REPL) cmdRelease(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: release <handle>")

		return
	}

	h, ok := r.pending[args[0]]
	if !ok {
		fmt.Printf("Unknown handle: %s\n", args[0])

		return
	}

	if err := r.m.ReleaseHandle(h); err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	delete(r.pending, args[0])
	fmt.Println("OK: released")
}

func (r *REPL) cmdGet(args []string) {
	key, err := r.parseKeyArg(args, "get")
	if err != nil {
		return
	}

	value, ok := r.m.Get(key)
	if !ok {
		fmt.Println("(not found)")

		return
	}

	fmt.Println(value)
}

func (r *REPL) cmdRemove(args []string) {
	key, err := r.parseKeyArg(args, "remove")
	if err != nil {
		return
	}

	value, ok := r.m.Remove(key)
	if !ok {
		fmt.Println("(not found)")

		return
	}

	fmt.Printf("OK: removed %q\n", value)
}

func (r *REPL) cmdContains(args []string) {
	key, err := r.parseKeyArg(args, "contains")
	if err != nil {
		return
	}

	fmt.Println(r.m.ContainsKey(key))
}

func (r *REPL) cmdReserve(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: reserve <n>")

		return
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("Error parsing n: %v\n", err)

		return
	}

	r.m.Reserve(n)
	fmt.Printf("OK: capacity is now %d\n", r.m.Capacity())
}

func (r *REPL) cmdIter(args []string) {
	limit := 0

	if len(args) >= 1 {
		var err error

		limit, err = strconv.Atoi(args[0])
		if err != nil {
			fmt.Printf("Error parsing limit: %v\n", err)

			return
		}
	}

	count := 0

	for k, v := range r.m.All() {
		fmt.Printf("%d => %q\n", uint64(k), v)

		count++
		if limit > 0 && count >= limit {
			break
		}
	}

	if count == 0 {
		fmt.Println("(empty)")
	}
}

func (r *REPL) cmdSecInsert(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: sec-insert <key> <value>")

		return
	}

	key, err := parseKey(args[0])
	if err != nil {
		fmt.Printf("Error parsing key: %v\n", err)

		return
	}

	r.sec.Insert(key, strings.Join(args[1:], " "))
	fmt.Println("OK")
}

func (r *REPL) cmdSecGet(args []string) {
	key, err := r.parseKeyArg(args, "sec-get")
	if err != nil {
		return
	}

	value, ok := r.sec.Get(key)
	if !ok {
		fmt.Println("(not found)")

		return
	}

	fmt.Println(value)
}

func (r *REPL) cmdSecRemove(args []string) {
	key, err := r.parseKeyArg(args, "sec-remove")
	if err != nil {
		return
	}

	value, ok := r.sec.Remove(key)
	if !ok {
		fmt.Println("(not found)")

		return
	}

	fmt.Printf("OK: removed %q\n", value)
}

func (r *REPL) cmdSecRetain() {
	before := r.sec.Len()
	r.sec.Retain(func(key slotmap.Key, _ string) bool {
		return r.m.ContainsKey(key)
	})
	fmt.Printf("OK: swept %d stale entries\n", before-r.sec.Len())
}

// cmdSnapshot dumps a human-readable view of the map's current contents
// to path, written atomically so a reader never observes a partial
// file. This is a diagnostic convenience for slotmapctl only: there is
// deliberately no matching "load" verb, since the library itself takes
// no position on persistence.
func (r *REPL) cmdSnapshot(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: snapshot <path>")

		return
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "len=%d capacity=%d retired=%d\n", r.m.Len(), r.m.Capacity(), r.m.RetiredSlots())

	for k, v := range r.m.All() {
		fmt.Fprintf(&buf, "%d\t%q\n", uint64(k), v)
	}

	if err := atomic.WriteFile(args[0], &buf); err != nil {
		fmt.Printf("Error writing snapshot: %v\n", err)

		return
	}

	fmt.Printf("OK: wrote %s\n", args[0])
}

func (r *REPL) parseKeyArg(args []string, usage string) (slotmap.Key, error) {
	if len(args) < 1 {
		fmt.Printf("Usage: %s <key>\n", usage)

		return 0, errMissingArg
	}

	key, err := parseKey(args[0])
	if err != nil {
		fmt.Printf("Error parsing key: %v\n", err)

		return 0, err
	}

	return key, nil
}

func parseKey(s string) (slotmap.Key, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("key must be a decimal uint64: %w", err)
	}

	return slotmap.Key(n), nil
}
