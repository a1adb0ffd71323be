package cli

import (
	"context"
	"fmt"
	"strings"
)

const helpText = `Available commands:
  list                 show the loaded users
  add                  create a user (prompts for name and email)
  show <n|id>          show one user
  update <n|id>        change a user's name or email
  delete <n|id>        delete a user
  search <text>        find users by name or email
  refresh              reload the list from the server
  health               check the server
  help                 this text
  exit | quit          leave`

// Run loads the user list and enters the command loop. It returns when
// the operator types exit or input reaches EOF.
func (a *App) Run(ctx context.Context) error {
	_ = a.Refresh(ctx)

	for {
		fmt.Fprint(a.out, "users> ")
		line, err := a.reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			if err != nil {
				return nil
			}
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		switch cmd {
		case "help", "?":
			a.printf("%s", helpText)
		case "l", "list":
			_ = a.List(ctx)
		case "add":
			_ = a.Add(ctx)
		case "show", "get":
			_ = a.Show(ctx, arg)
		case "update":
			_ = a.Update(ctx, arg)
		case "delete", "rm":
			_ = a.Delete(ctx, arg)
		case "search":
			_ = a.Search(ctx, arg)
		case "refresh":
			_ = a.Refresh(ctx)
		case "health":
			_ = a.Health(ctx)
		case "exit", "quit":
			a.printf("Bye!")
			return nil
		default:
			a.printf("Unknown command: %s (try help)", cmd)
		}

		if err != nil {
			return nil
		}
	}
}
