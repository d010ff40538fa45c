package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/provlog/pkg/model"
	"github.com/m-mizutani/provlog/pkg/usecase/recorder"
	"github.com/urfave/cli/v3"
)

const consoleHelp = `Commands:
  session <id>                 start observing a new session
  utter <text...>              an utterance was heard
  intent <skill> <type>        the last utterance matched an intent
  invoke <skill> <host> [lat lng]  a skill invoked an external service
  explain                      narrate the recorded activity
  help                         show this help
  exit                         flush and quit`

// consoleCommand plays the host runtime for local use: notifications
// are typed instead of delivered by the event bus, one at a time.
func consoleCommand() *cli.Command {
	var (
		cfg       config
		user      string
		assistant string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Usage:       "User identity for recorded bindings",
			Value:       "local-user",
			Sources:     cli.EnvVars("PROVLOG_USER"),
			Destination: &user,
		},
		&cli.StringFlag{
			Name:        "assistant",
			Usage:       "Assistant identity for recorded bindings",
			Value:       "assistant",
			Sources:     cli.EnvVars("PROVLOG_ASSISTANT"),
			Destination: &assistant,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, toolFlags(&cfg)...)

	return &cli.Command{
		Name:  "console",
		Usage: "Interactive console that plays the host runtime",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			ldg := cfg.newLedger()
			rec := recorder.New(ldg)

			rl, err := readline.New("provlog> ")
			if err != nil {
				return goerr.Wrap(err, "failed to open console")
			}
			defer rl.Close()

			w := c.Root().Writer
			fmt.Fprintln(w, "Type 'help' for commands, 'exit' to quit.")

			var (
				session       *model.Session
				lastUtterance []string
			)

		loop:
			for {
				line, err := rl.Readline()
				if err == readline.ErrInterrupt || err == io.EOF {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read console input")
				}

				fields := strings.Fields(line)
				if len(fields) == 0 {
					continue
				}

				switch fields[0] {
				case "exit":
					break loop

				case "help":
					fmt.Fprintln(w, consoleHelp)

				case "session":
					if len(fields) != 2 {
						fmt.Fprintln(w, "usage: session <id>")
						continue
					}
					session = model.NewSession(model.SessionID(fields[1]), time.Now().Unix())
					fmt.Fprintf(w, "observing session %s\n", session.ID)

				case "utter":
					if session == nil {
						fmt.Fprintln(w, "no session; use 'session <id>' first")
						continue
					}
					if len(fields) < 2 {
						fmt.Fprintln(w, "usage: utter <text...>")
						continue
					}
					lastUtterance = []string{strings.Join(fields[1:], " ")}
					id, err := rec.OnUtterance(ctx, session, lastUtterance)
					if err != nil {
						fmt.Fprintf(w, "error: %v\n", err)
						continue
					}
					fmt.Fprintf(w, "%s\n", id)

				case "intent":
					if session == nil {
						fmt.Fprintln(w, "no session; use 'session <id>' first")
						continue
					}
					if len(fields) != 3 {
						fmt.Fprintln(w, "usage: intent <skill> <type>")
						continue
					}
					if len(lastUtterance) == 0 {
						fmt.Fprintln(w, "no utterance; use 'utter <text...>' first")
						continue
					}
					id, err := rec.OnIntentMatched(ctx, session, recorder.IntentMatch{
						User:       user,
						Assistant:  assistant,
						Utterance:  lastUtterance,
						SkillID:    fields[1],
						IntentType: fields[1] + "/" + fields[2],
						Timestamp:  time.Now(),
					})
					if err != nil {
						fmt.Fprintf(w, "error: %v\n", err)
						continue
					}
					fmt.Fprintf(w, "%s\n", id)

				case "invoke":
					if session == nil {
						fmt.Fprintln(w, "no session; use 'session <id>' first")
						continue
					}
					if len(fields) != 3 && len(fields) != 5 {
						fmt.Fprintln(w, "usage: invoke <skill> <host> [lat lng]")
						continue
					}
					in := recorder.SkillInvocation{
						SkillID:      fields[1],
						ServiceHost:  fields[2],
						User:         user,
						RequestType:  "service-request",
						RequestedAt:  time.Now(),
						ResponseType: "service-response",
						RespondedAt:  time.Now(),
					}
					if len(fields) == 5 {
						lat, latErr := strconv.ParseFloat(fields[3], 64)
						lng, lngErr := strconv.ParseFloat(fields[4], 64)
						if latErr != nil || lngErr != nil {
							fmt.Fprintln(w, "invalid coordinates")
							continue
						}
						in.Location = &model.Coordinate{Lat: lat, Lng: lng}
					}
					if err := rec.OnSkillInvoked(ctx, session, in); err != nil {
						fmt.Fprintf(w, "error: %v\n", err)
						continue
					}
					fmt.Fprintln(w, "recorded")

				case "explain":
					aud, err := cfg.newAudit(ldg)
					if err != nil {
						fmt.Fprintf(w, "error: %v\n", err)
						continue
					}
					sentences, err := aud.Explain(ctx)
					if err != nil {
						fmt.Fprintf(w, "error: %v\n", err)
						continue
					}
					for _, s := range sentences {
						fmt.Fprintf(w, "%s\n\n", s)
					}

				default:
					fmt.Fprintf(w, "unknown command %q; type 'help'\n", fields[0])
				}
			}

			return rec.Shutdown(ctx)
		},
	}
}
