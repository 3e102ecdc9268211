package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lazypower/bestfriend/internal/client"
	"github.com/spf13/cobra"
)

var (
	serverURL    string
	chatFriendID int64
)

var chatCmd = &cobra.Command{
	Use:   "chat <message...>",
	Short: "Ask a running server for suggestions",
	Long:  "Send a message to the suggestion engine. Use --friend to personalize gift ideas with a friend's favorites.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChat,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the server is running",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	for _, c := range []*cobra.Command{chatCmd, statusCmd} {
		c.Flags().StringVar(&serverURL, "server", "", "Server URL (default $BESTFRIEND_URL or "+client.DefaultURL+")")
	}
	chatCmd.Flags().Int64VarP(&chatFriendID, "friend", "f", 0, "Friend id to personalize suggestions")
}

func runChat(cmd *cobra.Command, args []string) error {
	var friendID *int64
	if chatFriendID > 0 {
		friendID = &chatFriendID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := client.New(serverURL)
	reply, err := c.Chat(ctx, strings.Join(args, " "), friendID)
	if err != nil {
		if !c.Healthy(ctx) {
			return fmt.Errorf("no bestfriend server at %s (start one with `bestfriend serve`): %w", c.URL(), err)
		}
		return fmt.Errorf("chat: %w", err)
	}
	printChat(cmd.OutOrStdout(), reply)
	return nil
}

func printChat(w io.Writer, reply *client.ChatReply) {
	fmt.Fprintln(w, reply.Reply)
	for _, s := range reply.Suggestions {
		fmt.Fprintf(w, "  - %s\n", s)
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	c := client.New(serverURL)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	h, err := c.Health(ctx)
	if err != nil {
		return fmt.Errorf("server at %s is not reachable: %w", c.URL(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c.URL(), h.Status)
	fmt.Fprintf(cmd.OutOrStdout(), "  version: %s\n", h.Version)
	fmt.Fprintf(cmd.OutOrStdout(), "  uptime:  %s\n", time.Duration(h.Uptime*float64(time.Second)).Round(time.Second))
	fmt.Fprintf(cmd.OutOrStdout(), "  db:      %s (ok=%t)\n", h.DBPath, h.DB)
	return nil
}
