package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wirecraft",
		Short: "Wireframe world viewer and its data backend",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(viewCmd())
	rootCmd.AddCommand(snapshotCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a world and its structures as JSON",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "localhost:5000", "listen address")
	cmd.Flags().StringVar(&opts.dataDir, "data", "", "data directory with world.yaml and structures/ (built-in demo when empty)")
	cmd.Flags().StringVar(&opts.terrain, "terrain", "", "generate a WxD Perlin terrain instead of the demo world")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "terrain noise seed")
	cmd.Flags().IntVar(&opts.height, "height", 4, "terrain maximum height in cells")
	return cmd
}

func viewCmd() *cobra.Command {
	var opts viewOptions

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.serverSet = cmd.Flags().Changed("server")
			return runView(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&opts.server, "server", "", "backend base URL (overrides the config)")
	cmd.Flags().StringVar(&opts.controlAddr, "control", "", "serve the websocket control channel on this address")
	return cmd
}

func snapshotCmd() *cobra.Command {
	var opts snapshotOptions

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one frame offscreen to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.serverSet = cmd.Flags().Changed("server")
			return runSnapshot(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&opts.server, "server", "", "backend base URL (overrides the config)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "wirecraft.png", "output PNG path")
	cmd.Flags().IntVar(&opts.size, "size", 800, "image width and height in pixels")
	return cmd
}
