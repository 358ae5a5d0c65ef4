package db

import (
	dbpkg "github.com/dtnitsch/llm-doc-ranker/pkg/db"
	"github.com/urfave/cli/v2"
)

// openDatabase honors the --db flag, falling back to the default location.
func openDatabase(c *cli.Context) (*dbpkg.DB, error) {
	if path := c.String("db"); path != "" {
		return dbpkg.OpenAt(path)
	}
	return dbpkg.Open()
}
