package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kzone/internal/config"
	"kzone/internal/exitcode"
	"kzone/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "kzone help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, renderHelp(out, DefaultRegistry.All()))
	return exitcode.Success
}

// renderHelp builds the usage text. Styling is dropped automatically when
// out is not a terminal.
func renderHelp(out io.Writer, cmds []Command) string {
	r := lipgloss.NewRenderer(out)
	heading := r.NewStyle().Bold(true)
	name := r.NewStyle().Foreground(lipgloss.Color("6")).Width(14)
	usage := r.NewStyle().Faint(true).PaddingLeft(16)

	var b strings.Builder
	b.WriteString(heading.Render("Usage:") + "\n")
	b.WriteString("  kzone <command> [common flags] [command flags]\n\n")

	b.WriteString(heading.Render("Commands:") + "\n")
	for _, cmd := range cmds {
		b.WriteString("  " + name.Render(cmd.Name()) + cmd.Synopsis() + "\n")
		b.WriteString(usage.Render(cmd.Usage()) + "\n")
	}

	b.WriteString("\n" + heading.Render("Common flags:") + "\n")
	b.WriteString(commonFlags)

	b.WriteString("\n" + heading.Render("Environment:") + "\n")
	fmt.Fprintf(&b, "  %-22s Raw API key (Base64-encoded automatically)\n", config.EnvAPIKey)
	fmt.Fprintf(&b, "  %-22s Default board public ID\n", config.EnvBoardID)
	fmt.Fprintf(&b, "  %-22s API root (default %s)\n", config.EnvBaseURL, config.DefaultBaseURL)

	b.WriteString("\nAll commands print JSON. On failure an error document is printed and the exit code is 1.\n")
	return b.String()
}

const commonFlags = `  --board <id>          Board public ID (overrides KANBANZONE_BOARD_ID)
  --config <dir>        Override config directory (reads <dir>/env)
  --timeout <duration>  Per-request timeout (default 30s)
  --debug               Print debug logs to stderr
`
