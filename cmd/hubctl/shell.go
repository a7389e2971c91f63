package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/search"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/tree"
)

const shellHelp = `commands:
  expand <id>      fetch and show a node's children
  index <id>       show a node's children with workflow status
  toggle <id>      toggle a node's selection
  state <id>       show a node's tri-state selection state
  selection        list selected ids
  clear            clear the selection
  approve          approve the selected ids
  reject           reject the selected ids
  delete           delete the selected ids
  search <query>   full-text search
  notices          show recent action outcomes
  node <id>        dump a node as JSON
  help             this help
  exit             leave the shell
`

// shellState tracks what the interactive session has seen: every node that
// came back from a fetch, keyed by id, plus the live selection.
type shellState struct {
	svc   *services
	nodes map[string]tree.Node
	sel   tree.Set
}

func runShell(ctx context.Context, svc *services, args []string) error {
	rootID := "root"
	if len(args) > 0 {
		rootID = args[0]
	}

	root, err := svc.client.Node(ctx, rootID)
	if err != nil {
		return err
	}
	if root == nil {
		return fmt.Errorf("root node %s not found", rootID)
	}

	st := &shellState{
		svc:   svc,
		nodes: map[string]tree.Node{root.ID: *root},
		sel:   tree.NewSet(),
	}

	rl, err := readline.New("hub> ")
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	fmt.Printf("moderation shell, root %s (%s). Type help.\n", root.ID, root.Title)
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, rest := fields[0], fields[1:]
		if cmd == "exit" || cmd == "quit" {
			return nil
		}
		if err := st.dispatch(ctx, cmd, rest); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

func (st *shellState) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Print(shellHelp)
		return nil
	case "expand":
		return st.expand(ctx, args)
	case "index":
		return st.index(ctx, args)
	case "toggle":
		return st.toggle(ctx, args)
	case "state":
		return st.state(ctx, args)
	case "selection":
		ids := st.sel.IDs()
		fmt.Printf("%d selected: %s\n", len(ids), strings.Join(ids, " "))
		return nil
	case "clear":
		tree.ClearAll(st.sel)
		fmt.Println("selection cleared")
		return nil
	case "approve", "reject", "delete":
		return st.moderate(ctx, cmd)
	case "search":
		if len(args) == 0 {
			return fmt.Errorf("usage: search <query>")
		}
		resp := st.svc.search.Search(ctx, search.Query{Text: strings.Join(args, " "), Limit: 10})
		for _, r := range resp.Results {
			fmt.Printf("  %s  %s\n", r.ID, r.Title)
		}
		return nil
	case "notices":
		for _, n := range st.svc.notify.Active() {
			fmt.Printf("  [%s] %s\n", n.Level, n.Message)
		}
		return nil
	case "node":
		if len(args) != 1 {
			return fmt.Errorf("usage: node <id>")
		}
		node, ok := st.nodes[args[0]]
		if !ok {
			return fmt.Errorf("node %s not seen yet; expand its parent first", args[0])
		}
		printJSON(node)
		return nil
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
}

func (st *shellState) lookup(args []string) (tree.Node, error) {
	if len(args) != 1 {
		return tree.Node{}, fmt.Errorf("expected exactly one node id")
	}
	node, ok := st.nodes[args[0]]
	if !ok {
		return tree.Node{}, fmt.Errorf("node %s not seen yet; expand its parent first", args[0])
	}
	return node, nil
}

func (st *shellState) expand(ctx context.Context, args []string) error {
	node, err := st.lookup(args)
	if err != nil {
		return err
	}
	children, err := st.svc.loader.Children(ctx, node)
	if err != nil {
		return err
	}
	if len(children) == 0 {
		fmt.Println("(no children)")
		return nil
	}
	for _, child := range children {
		st.nodes[child.ID] = child
		loaded, _ := st.svc.loader.Loaded(ctx, child.ID)
		state := tree.NodeState(child, loaded, st.sel)
		marker := " "
		if child.HasChildren {
			marker = "+"
		}
		fmt.Printf("  %s [%s] %s  %s\n", marker, stateGlyph(state), child.ID, child.Title)
	}
	return nil
}

func (st *shellState) index(ctx context.Context, args []string) error {
	node, err := st.lookup(args)
	if err != nil {
		return err
	}
	rows, err := st.svc.moderationService().Index(ctx, node)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no children)")
		return nil
	}
	for _, row := range rows {
		st.nodes[row.ID] = row.Node
		manage := " "
		if row.CanManage {
			manage = "*"
		}
		fmt.Printf("  %s %-14s %s  %s  %s\n", manage, row.Status, row.ID, row.Title, row.Author)
	}
	return nil
}

func (st *shellState) toggle(ctx context.Context, args []string) error {
	node, err := st.lookup(args)
	if err != nil {
		return err
	}
	loaded, _ := st.svc.loader.Loaded(ctx, node.ID)
	descendants := st.svc.loader.LoadedDescendants(ctx, node)
	batch, added := tree.Toggle(st.sel, node, loaded, descendants)
	verb := "removed"
	if added {
		verb = "added"
	}
	fmt.Printf("%s %d id(s): %s\n", verb, len(batch), strings.Join(batch, " "))
	return nil
}

func (st *shellState) state(ctx context.Context, args []string) error {
	node, err := st.lookup(args)
	if err != nil {
		return err
	}
	loaded, _ := st.svc.loader.Loaded(ctx, node.ID)
	fmt.Println(tree.NodeState(node, loaded, st.sel))
	return nil
}

func (st *shellState) moderate(ctx context.Context, verb string) error {
	ids := st.sel.IDs()
	if len(ids) == 0 {
		return fmt.Errorf("selection is empty")
	}
	if err := cmdModerate(ctx, st.svc, verb, ids); err != nil {
		return err
	}
	tree.ClearAll(st.sel)
	return nil
}

func stateGlyph(s tree.State) string {
	switch s {
	case tree.Checked:
		return "x"
	case tree.Indeterminate:
		return "-"
	default:
		return " "
	}
}
