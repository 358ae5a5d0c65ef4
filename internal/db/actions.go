package db

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

// InitAction creates or refreshes the schema in place.
func InitAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := database.InitSchema(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	fmt.Printf("Database initialized: %s\n", database.Path())
	return nil
}

func StatsAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	stats, err := database.GetStats()
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Printf("Database: %s\n", database.Path())
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("%-15s %d\n", "Runs:", stats.Runs)
	fmt.Printf("%-15s %d\n", "Documents:", stats.RunDocuments)
	fmt.Printf("%-15s %d\n", "Sections:", stats.RunSections)

	if stats.Runs == 0 {
		fmt.Printf("\nTip: Run 'llm-doc-ranker analyze --input <dir>' to record your first run\n")
	}

	return nil
}

// ClearAction deletes all recorded history. Asks first unless --force.
func ClearAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	stats, err := database.GetStats()
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	if stats.Runs == 0 {
		fmt.Println("Database is already empty")
		return nil
	}

	if !c.Bool("force") {
		fmt.Printf("This will delete %d runs (%d documents, %d sections) from %s\n",
			stats.Runs, stats.RunDocuments, stats.RunSections, database.Path())
		fmt.Print("Continue? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := database.Clear(); err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}

	fmt.Printf("Cleared %d runs\n", stats.Runs)
	return nil
}
