// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the backend session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Full name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "google",
				Usage: "Sign in with Google via the system browser",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "credential",
						Usage: "Pre-obtained ID token, skips the browser flow",
					},
				},
				Action: r.AuthGoogle,
			},
			{
				Name:   "logout",
				Usage:  "End the current session",
				Action: r.AuthLogout,
			},
			{
				Name:    "whoami",
				Aliases: []string{"status"},
				Usage:   "Show the signed-in account",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthWhoami,
			},
		},
	}
}

// urlCommand handles short URL operations
func urlCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "url",
		Aliases: []string{"urls"},
		Usage:   "Shorten and manage URLs",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your shortened URLs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Filter by original or short URL substring",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.URLList,
			},
			{
				Name:  "shorten",
				Usage: "Shorten a long URL",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "url",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.URLShorten,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete a shortened URL",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.URLDelete,
			},
			{
				Name:  "stats",
				Usage: "Show totals for your shortened URLs",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.URLStats,
			},
		},
	}
}

// apiCommand handles direct backend API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// setupCommand initializes the local session database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file and session database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand returns the top-level TUI command for interactive URL management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive dashboard",
		Action:  r.TUI,
	}
}
