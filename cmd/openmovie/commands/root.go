package commands

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X ...commands.version=..."
var version = "dev"

// Execute runs the root command
func Execute() error {
	root := &cobra.Command{
		Use:          "openmovie",
		Short:        "Discover and trending movies from TMDb",
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd(), homeCmd())
	return root.Execute()
}
