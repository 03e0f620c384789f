package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	threadsCmd := &cobra.Command{Use: "threads", Short: "Thread operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List threads, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := do(newClient().R(), http.MethodGet, "/api/threads")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	threadsCmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get THREAD_ID",
		Short: "Print a thread's message log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := do(newClient().R(), http.MethodGet, "/api/threads/"+args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	threadsCmd.AddCommand(getCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete THREAD_ID",
		Short: "Delete a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := do(newClient().R(), http.MethodDelete, "/api/threads/"+args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	threadsCmd.AddCommand(deleteCmd)

	var title string
	renameCmd := &cobra.Command{
		Use:   "rename THREAD_ID",
		Short: "Rename a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"title": title}
			data, err := do(newClient().R().SetBody(body), http.MethodPatch, "/api/threads/"+args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	renameCmd.Flags().StringVarP(&title, "title", "T", "", "New title (required)")
	_ = renameCmd.MarkFlagRequired("title")
	threadsCmd.AddCommand(renameCmd)

	rootCmd.AddCommand(threadsCmd)
}
