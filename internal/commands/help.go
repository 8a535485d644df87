package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show help for tick or a command",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				target, _, err := cmd.Root().Find(args)
				if err != nil || target == cmd.Root() {
					return fmt.Errorf("unknown command %q", args[0])
				}
				return target.Help()
			}
			showOverview(cmd.OutOrStdout())
			return nil
		},
	}
}

func showOverview(w io.Writer) {
	fmt.Fprint(w, headerStyle.Render("tick - personal task list")+`

COMMANDS:

  add <task>              Create a task with smart parsing
    -d, --desc            Description
    -p, --priority        Priority: low|medium|high
    -t, --tags            Comma-separated tags
    --due                 Due date
    -r, --recur           Repeat: daily|weekly|monthly|yearly

    Example:
      tick add "Pay rent #home +high due:2024-05-01 *monthly"

  recur <pattern> <task>  Create a recurring task
  ls                      List tasks
    -s, --status          all|pending|done
    -p, --priority        low|medium|high
    -t, --tag             Exact tag
    -o, --sort            id|title|created_at|due_date|priority
    -r, --reverse         Reverse the order
    --json                JSON output

  show <id>               Show every field of a task
  edit <id>               Change fields (--title, --desc, --priority, --tags, --due, --clear-due)
  done <id>               Mark task as completed
  undone <id>             Mark task as pending
  toggle <id>             Flip completion
  rm <id>                 Delete a task
  search <query>          Search title and description
  import <file>           Add tasks from a JSON file
  export <file>           Write all tasks to a JSON file
  stats                   Show statistics
  roll                    Create due recurring occurrences
    -w, --watch           Keep checking on a cron schedule
  ui                      Interactive browser
  version                 Print version information

GLOBAL FLAGS:

  --file                  Task data file (default ~/.tick/tasks.json)
  --config                Config file (default ~/.tick/config.toml)
  --log-level             debug|info|warn|error

`)
}
