package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for movies",
	Long: `Search for movies.

Without a query the server returns its default selection.
With --user, results carry that user's favorite flags.

Examples:
  flick search "The Matrix"
  flick search "The Matrix" --user neo
  flick search                        # default selection`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringP("user", "u", "", "Username for favorite flags")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	username, _ := cmd.Flags().GetString("user")

	client := NewClient(serverURL)
	movies, err := client.Search(query, username)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(movies)
	}

	if len(movies) == 0 {
		fmt.Println("No movies found")
		return nil
	}

	rows := make([][]string, len(movies))
	for i, m := range movies {
		rows[i] = []string{m.ID, m.Title, m.Year, m.Runtime, m.Genre, favMark(m.IsFavorite)}
	}
	fmt.Println(renderTable([]string{"ID", "TITLE", "YEAR", "RUNTIME", "GENRE", "FAV"}, rows))
	if username != "" && strings.TrimSpace(query) == "" {
		fmt.Printf("%d movies (default selection, user %s)\n", len(movies), username)
	}
	return nil
}
