package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"enchanted-day/backend/internal/agent"
	"enchanted-day/backend/internal/chat"
)

func newAskCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Send a prompt and stream the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := agent.NewClient(v.GetString("endpoint"),
				agent.WithBearerToken(v.GetString("token")),
				agent.WithRateLimit(rate.Limit(1), 1),
			)
			return ask(cmd, chat.NewSession(client), strings.Join(args, " "), v.GetString("wedding"), v.GetBool("show-thinking"))
		},
	}

	cmd.Flags().StringP("wedding", "w", "", "wedding the question is about")
	cmd.Flags().Bool("show-thinking", false, "print the assistant's reasoning")
	_ = v.BindPFlag("wedding", cmd.Flags().Lookup("wedding"))
	_ = v.BindPFlag("show-thinking", cmd.Flags().Lookup("show-thinking"))
	return cmd
}

func ask(cmd *cobra.Command, session *chat.Session, prompt, weddingID string, showThinking bool) error {
	out := cmd.OutOrStdout()
	printed := ""
	var actions []chat.Action

	msg, err := session.Send(cmd.Context(), prompt, weddingID, chat.Callbacks{
		AssistantUpdated: func(m chat.Message) {
			// Content can shrink while a thinking block is still open; only
			// print growth that extends what is already on screen.
			if strings.HasPrefix(m.Content, printed) {
				fmt.Fprint(out, m.Content[len(printed):])
				printed = m.Content
			}
		},
		AssistantFinalized: func(_ chat.Message, a []chat.Action) { actions = a },
	})
	if !strings.HasPrefix(msg.Content, printed) {
		fmt.Fprint(out, "\n"+msg.Content)
	} else {
		fmt.Fprint(out, msg.Content[len(printed):])
	}
	fmt.Fprintln(out)
	if err != nil {
		return err
	}

	if showThinking && msg.Thinking != "" {
		fmt.Fprintf(out, "\nThinking: %s\n", msg.Thinking)
	}
	printActions(out, actions)
	return nil
}

func printActions(out io.Writer, actions []chat.Action) {
	if len(actions) == 0 {
		return
	}
	fmt.Fprintln(out, "\nSuggested:")
	for _, a := range actions {
		if path, ok := a.Data["path"].(string); ok {
			fmt.Fprintf(out, "  - %s (%s)\n", a.Label, path)
			continue
		}
		fmt.Fprintf(out, "  - %s\n", a.Label)
	}
}
