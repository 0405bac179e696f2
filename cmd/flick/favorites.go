package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage a user's movie collection",
	Long: `Manage a user's movie collection.

Examples:
  flick favorites list --user neo
  flick favorites add tt0133093 --user neo
  flick favorites add tt0133093 --user neo --unfavorite
  flick favorites rm tt0133093 --user neo`,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's movies",
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <imdb-id>",
	Short: "Add a movie to a user's collection",
	Long:  "Fetches the movie details from the server and records them with the favorite flag set, unless --unfavorite is given.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRmCmd = &cobra.Command{
	Use:   "rm <imdb-id>",
	Short: "Remove a movie from a user's collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesRm,
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.PersistentFlags().StringP("user", "u", "", "Username (required)")
	_ = favoritesCmd.MarkPersistentFlagRequired("user")

	favoritesAddCmd.Flags().Bool("unfavorite", false, "Record the movie without the favorite flag")
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRmCmd)
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("user")

	client := NewClient(serverURL)
	movies, err := client.UserMovies(username)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(movies)
	}

	if len(movies) == 0 {
		fmt.Printf("No movies recorded for %s\n", username)
		return nil
	}

	rows := make([][]string, len(movies))
	for i, m := range movies {
		rows[i] = []string{m.ID, m.Title, m.Year, m.Runtime, m.Genre, favMark(m.IsFavorite)}
	}
	fmt.Println(renderTable([]string{"ID", "TITLE", "YEAR", "RUNTIME", "GENRE", "FAV"}, rows))
	return nil
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("user")
	unfavorite, _ := cmd.Flags().GetBool("unfavorite")
	id := args[0]

	client := NewClient(serverURL)

	// Resolve details first so the stored record carries real fields
	detail, err := client.Movie(id)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	movie := map[string]any{
		"id":         detail.ImdbID,
		"title":      detail.Title,
		"year":       detail.Year,
		"runtime":    detail.Runtime,
		"genre":      detail.Genre,
		"director":   detail.Director,
		"poster":     detail.Poster,
		"isFavorite": !unfavorite,
	}
	if err := client.SaveUserMovie(username, movie); err != nil {
		return fmt.Errorf("save failed: %w", err)
	}

	fmt.Printf("Added %s (%s) for %s\n", detail.Title, detail.ImdbID, username)
	return nil
}

func runFavoritesRm(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("user")
	id := args[0]

	client := NewClient(serverURL)
	if err := client.DeleteUserMovie(username, id); err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	fmt.Printf("Removed %s for %s\n", id, username)
	return nil
}
