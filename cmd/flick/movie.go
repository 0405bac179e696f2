package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var movieCmd = &cobra.Command{
	Use:   "movie <imdb-id>",
	Short: "Show movie details",
	Long: `Show full details for one movie by IMDb identifier.

Use --title to look up by title instead; the closest-matching
search hit is resolved.

Examples:
  flick movie tt0133093
  flick movie --title "The Matrix"`,
	RunE: runMovie,
}

func init() {
	rootCmd.AddCommand(movieCmd)
	movieCmd.Flags().StringP("title", "t", "", "Look up by title instead of identifier")
}

func runMovie(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	if title == "" && len(args) != 1 {
		return fmt.Errorf("an IMDb identifier or --title is required")
	}

	client := NewClient(serverURL)

	var movie *MovieDetail
	var err error
	if title != "" {
		movie, err = client.MovieByTitle(title)
	} else {
		movie, err = client.Movie(args[0])
	}
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(movie)
	}

	fmt.Printf("%s (%s)\n", movie.Title, movie.Year)
	fmt.Printf("  IMDb:     %s\n", movie.ImdbID)
	fmt.Printf("  Runtime:  %s\n", movie.Runtime)
	fmt.Printf("  Genre:    %s\n", movie.Genre)
	fmt.Printf("  Director: %s\n", movie.Director)
	if plot := strings.TrimSpace(movie.Plot); plot != "" && plot != "N/A" {
		fmt.Printf("  Plot:     %s\n", plot)
	}
	return nil
}
