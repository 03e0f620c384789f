package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func init() {
	var threadID string
	chatCmd := &cobra.Command{
		Use:   "chat MESSAGE...",
		Short: "Send one chat turn and print the assistant reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := threadID
			if id == "" {
				id = uuid.New().String()
				fmt.Fprintf(os.Stderr, "thread: %s\n", id)
			}
			body := map[string]string{"threadId": id, "message": strings.Join(args, " ")}
			data, err := do(newClient().R().SetBody(body), http.MethodPost, "/api/chat")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	chatCmd.Flags().StringVarP(&threadID, "thread", "T", "", "Thread ID (a new one is generated when omitted)")
	rootCmd.AddCommand(chatCmd)
}
