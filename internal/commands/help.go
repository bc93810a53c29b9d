package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for jornada",
	Long:  `Display detailed help for all jornada commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp(cmd.OutOrStdout())
	},
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
     ██╗ ██████╗ ██████╗ ███╗   ██╗ █████╗ ██████╗  █████╗
     ██║██╔═══██╗██╔══██╗████╗  ██║██╔══██╗██╔══██╗██╔══██╗
     ██║██║   ██║██████╔╝██╔██╗ ██║███████║██║  ██║███████║
██   ██║██║   ██║██╔══██╗██║╚██╗██║██╔══██║██║  ██║██╔══██║
╚█████╔╝╚██████╔╝██║  ██║██║ ╚████║██║  ██║██████╔╝██║  ██║
 ╚════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝╚═════╝ ╚═╝  ╚═╝

jornada - Work-day time tracker

COMMANDS:

  init                    Create or update the config
    --user, --company     Who sessions are recorded for
    --target-hours        Daily target (default 8)
    --policy              single-open | one-per-day
    --timezone            IANA zone for calendar dates
    --late-after          HH:MM after which a check-in is late
    --driver              sqlite | postgres
    --db-path, --dsn      Where the database lives

  start                   Check in and open the live timer
    --no-ui               Check in without the timer

  pause                   Start a break
  resume                  End the break and keep working
  stop                    Check out and complete the day
    --session             Act on a specific session id

  status                  Show the open session
    --no-ui               One-shot summary
    --watch               Plain output refreshed every second
    --audit               Compare checkpoint and break accounting

    Timer keys:
      p             Pause
      r             Resume
      s             Stop (check out)
      ?             Toggle help
      q/esc         Close the timer, the session keeps running

  history (ls)            List completed sessions for a month
    --period              yyyy-mm, mm/yyyy, "marzo", "last month"
    --no-ui               Plain table

  report                  Monthly statistics and charts
    --period              Month to report
    --copy                Copy the report to the clipboard

  export                  Write a month to a file
    --format              csv | pdf | yaml
    --period              Month to export
    -o, --output          File or directory

  version                 Print version information
  help                    Show this help

GLOBAL FLAGS:
  --config                Config file (default ~/.config/jornada/config.toml)
  -v, --verbose           Debug logging and SQL on stderr

`)
}
