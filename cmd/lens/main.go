package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/Hirdyansh9/priv-lens/pkg/lens/agentrun"
	"github.com/Hirdyansh9/priv-lens/pkg/lens/api"
	"github.com/Hirdyansh9/priv-lens/pkg/lens/classify"
	"github.com/Hirdyansh9/priv-lens/pkg/lens/conversation"
	"github.com/Hirdyansh9/priv-lens/pkg/lens/format"
	"github.com/Hirdyansh9/priv-lens/pkg/lens/navigation"
)

// The default selection matches the hub's designated starting agent.
const defaultAgent = "gdpr_compliance"

type app struct {
	client    *api.Client
	sync      *navigation.Synchronizer
	conv      *conversation.Manager
	selection *agentrun.Selection
	in        *bufio.Scanner
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:5001", "PrivacyLens API base URL")
	flag.Parse()

	client := api.NewClient(*baseURL)
	conv := conversation.NewManager(client)

	a := &app{
		client:    client,
		sync:      navigation.NewSynchronizer(client, conv),
		conv:      conv,
		selection: agentrun.NewSelection(defaultAgent),
		in:        bufio.NewScanner(os.Stdin),
	}
	a.in.Buffer(make([]byte, 1024*1024), 1024*1024)

	ctx := context.Background()
	if err := a.sync.Start(ctx, ""); err != nil {
		fmt.Printf("session check failed: %v\n", err)
	}
	a.loop(ctx)
}

func (a *app) loop(ctx context.Context) {
	for {
		switch a.sync.State() {
		case navigation.Unauthenticated:
			if !a.authPrompt(ctx) {
				return
			}
		case navigation.Picker:
			if !a.picker(ctx) {
				return
			}
		case navigation.Conversation:
			a.chat(ctx)
		case navigation.AgentHub:
			a.agentHub(ctx)
		default:
			return
		}
	}
}

func (a *app) prompt(label string) (string, bool) {
	fmt.Print(label)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *app) authPrompt(ctx context.Context) bool {
	line, ok := a.prompt("login <user> <pass> | signup <user> <pass> | quit > ")
	if !ok {
		return false
	}
	parts := strings.Fields(line)
	switch {
	case len(parts) == 3 && parts[0] == "login":
		if err := a.sync.Login(ctx, parts[1], parts[2]); err != nil {
			fmt.Printf("login failed: %v\n", err)
		}
	case len(parts) == 3 && parts[0] == "signup":
		if err := a.client.Signup(ctx, parts[1], parts[2]); err != nil {
			fmt.Printf("signup failed: %v\n", err)
		} else {
			fmt.Println("account created, log in to continue")
		}
	case line == "quit":
		return false
	}
	return true
}

func (a *app) picker(ctx context.Context) bool {
	docs, err := a.sync.Documents(ctx)
	if err != nil {
		fmt.Printf("could not load documents: %v\n", err)
	}
	fmt.Println()
	color.New(color.Bold).Println("Your analyzed policies")
	for _, d := range docs {
		fmt.Printf("  #%s  %s\n", d.PolicyID, d.Title)
	}

	line, ok := a.prompt("open <id> | new-text | new-url <url> | rename <id> <title> | delete <id> | agents | logout | quit > ")
	if !ok {
		return false
	}
	parts := strings.Fields(line)
	switch {
	case len(parts) == 2 && parts[0] == "open":
		if err := a.sync.HandleFragment(ctx, parts[1]); err != nil {
			fmt.Printf("open failed: %v\n", err)
		}
	case line == "new-text":
		fmt.Println("paste the policy text, end with a single '.' line:")
		var b strings.Builder
		for a.in.Scan() {
			if a.in.Text() == "." {
				break
			}
			b.WriteString(a.in.Text())
			b.WriteString("\n")
		}
		a.create(ctx, "text", b.String())
	case len(parts) == 2 && parts[0] == "new-url":
		a.create(ctx, "url", parts[1])
	case len(parts) >= 3 && parts[0] == "rename":
		if err := a.sync.RenameDocument(ctx, parts[1], strings.Join(parts[2:], " ")); err != nil {
			fmt.Printf("rename failed: %v\n", err)
		}
	case len(parts) == 2 && parts[0] == "delete":
		if err := a.sync.DeleteDocument(ctx, parts[1]); err != nil {
			fmt.Printf("delete failed: %v\n", err)
		}
	case line == "agents":
		_ = a.sync.HandleFragment(ctx, navigation.FragmentAgents)
	case line == "logout":
		_ = a.sync.Logout(ctx)
	case line == "quit":
		return false
	}
	return true
}

func (a *app) create(ctx context.Context, sourceType, data string) {
	fmt.Println("analyzing...")
	id, err := a.sync.CreateAnalysis(ctx, sourceType, data)
	if err != nil {
		fmt.Printf("analysis failed: %v\n", err)
		return
	}
	fmt.Printf("analysis complete, opened #%s\n", id)
}

func (a *app) chat(ctx context.Context) {
	a.printSummary()
	for _, msg := range a.conv.Messages() {
		printMessage(msg)
	}

	for a.sync.State() == navigation.Conversation {
		line, ok := a.prompt("\nask a question | /agents | /back > ")
		if !ok || line == "/back" {
			_ = a.sync.HandleFragment(ctx, "")
			return
		}
		if line == "/agents" {
			_ = a.sync.HandleFragment(ctx, navigation.FragmentAgents)
			return
		}
		if line == "" {
			continue
		}
		if err := a.conv.SendQuestion(ctx, line); err != nil {
			// The error is already visible as a conversation entry.
			fmt.Printf("(%v)\n", err)
		}
		msgs := a.conv.Messages()
		for _, msg := range msgs[maxInt(0, len(msgs)-2):] {
			printMessage(msg)
		}
	}
}

func (a *app) agentHub(ctx context.Context) {
	agents, err := a.sync.Agents(ctx)
	if err != nil {
		fmt.Printf("could not load agents: %v\n", err)
	}
	fmt.Println()
	color.New(color.Bold).Println("Privacy Agent Hub")
	for _, ag := range agents {
		mark := " "
		if a.selection.Contains(ag.Key) {
			mark = "x"
		}
		fmt.Printf("  [%s] %-24s %s\n", mark, ag.Key, ag.Description)
	}

	line, ok := a.prompt("toggle <key> | run | back > ")
	if !ok || line == "back" {
		_ = a.sync.HandleFragment(ctx, "")
		return
	}
	parts := strings.Fields(line)
	switch {
	case len(parts) == 2 && parts[0] == "toggle":
		a.selection.Toggle(parts[1])
	case line == "run":
		outcomes, err := a.conv.RunSelectedAgents(ctx, a.selection, nil)
		if err != nil {
			fmt.Printf("run finished with error: %v\n", err)
		}
		for _, o := range outcomes {
			printOutcome(o)
		}
	}
}

func (a *app) printSummary() {
	analysis, ok := a.conv.Analysis()
	if !ok {
		return
	}
	tier := classify.TierForScore(analysis.RiskScore)
	fmt.Println()
	color.New(color.Bold).Printf("%s — ", analysis.CompanyName)
	tierColor(tier).Printf("%s Risk (%.1f/10)\n", tier, analysis.RiskScore)
	fmt.Println(analysis.FinalSummary)
}

func printMessage(msg format.Message) {
	if msg.IsFromUser {
		color.New(color.FgCyan).Printf("\nyou> ")
		fmt.Println(msg.Body)
		return
	}
	color.New(color.FgGreen).Printf("\nlens> ")
	fmt.Println(format.FormatMessage(msg).Body)
}

func printOutcome(o agentrun.Outcome) {
	fmt.Println()
	color.New(color.Bold).Printf("=== %s ===\n", o.AgentName)
	formatted := format.Format(o.AgentName, o.Result)
	for _, ind := range formatted.Priority {
		printIndicator(ind)
	}
	fmt.Println(formatted.Body)
}

func printIndicator(ind format.Indicator) {
	label := format.HumanizeFieldName(ind.Name)
	switch ind.Category {
	case classify.Boolean:
		if ind.Value.(bool) {
			color.New(color.FgGreen).Printf("  %s: Yes ✓\n", label)
		} else {
			color.New(color.FgRed).Printf("  %s: No ✗\n", label)
		}
	case classify.NumericScore:
		score, _ := ind.Value.(float64)
		tierColor(classify.TierForScore(score)).Printf("  %s: %v\n", label, ind.Value)
	case classify.StringRiskLevel:
		level, _ := ind.Value.(string)
		tierColor(classify.TierForLevel(level)).Printf("  %s: %s\n", label, level)
	default:
		fmt.Printf("  %s: %v\n", label, ind.Value)
	}
}

func tierColor(t classify.Tier) *color.Color {
	switch t {
	case classify.TierHigh:
		return color.New(color.FgRed)
	case classify.TierMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
