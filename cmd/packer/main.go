package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/maja42/sfx/embedding"
	"github.com/maja42/sfx/internal"
)

// Manifest describes the payload of a packaged launcher.
type Manifest struct {
	// ExecutableName is the file name the target executable gets inside the
	// working directory, e.g. "app.exe". It also determines the name of the
	// working directory itself.
	ExecutableName string `yaml:"executable-name"`
	// AppArchive is the path to the zip archive with the application payload.
	AppArchive string `yaml:"app-archive"`
	// RuntimeArchive is the path to the zip archive with the bundled runtime.
	RuntimeArchive string `yaml:"runtime-archive"`
	// Executable is the path to the target executable binary.
	Executable string `yaml:"executable"`
}

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.ExecutableName == "" || m.AppArchive == "" || m.RuntimeArchive == "" || m.Executable == "" {
		return nil, fmt.Errorf("manifest %q is incomplete: all four fields are required", path)
	}
	return &m, nil
}

func pack(stubPath, manifestPath, outPath string) error {
	manifest, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}

	stub, err := os.Open(stubPath)
	if err != nil {
		return fmt.Errorf("open stub %q: %w", stubPath, err)
	}
	defer stub.Close()

	out, err := os.OpenFile(outPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0755)
	if err != nil {
		return fmt.Errorf("open output %q: %w", outPath, err)
	}
	defer out.Close()

	// the executable name is embedded as a string resource, everything else
	// comes from files
	resources := map[uint32]io.ReadSeeker{
		internal.IDExecutableName: strings.NewReader(manifest.ExecutableName),
	}
	for id, path := range map[uint32]string{
		internal.IDAppContents:     manifest.AppArchive,
		internal.IDRuntimeContents: manifest.RuntimeArchive,
		internal.IDAppExecutable:   manifest.Executable,
	} {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open resource %d (%q): %w", id, path, err)
		}
		defer file.Close()
		resources[id] = file
	}

	fmt.Printf("Packing %q --> %q\n", stubPath, outPath)

	logger := func(format string, args ...interface{}) {
		fmt.Printf("\t"+format+"\n", args...)
	}
	if err := embedding.Embed(out, stub, resources, logger); err != nil {
		return fmt.Errorf("embed resources: %w", err)
	}

	fmt.Println("Finished")
	return nil
}

func main() {
	var stubPath, manifestPath, outPath string

	rootCmd := &cobra.Command{
		Use:   "packer",
		Short: "Build a self-extracting launcher",
		Long: `packer embeds an application payload, a bundled runtime and a target
executable into a launcher stub, producing a single self-extracting
executable. What to embed is described by a YAML manifest:

    executable-name: app.exe
    app-archive: build/app.zip
    runtime-archive: build/runtime.zip
    executable: build/app.exe`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pack(stubPath, manifestPath, outPath)
		},
	}
	rootCmd.Flags().StringVar(&stubPath, "stub", "", "launcher stub executable to augment (windows or linux)")
	rootCmd.Flags().StringVar(&manifestPath, "manifest", "manifest.yaml", "path to the YAML manifest describing the payload")
	rootCmd.Flags().StringVar(&outPath, "out", "", "path for the resulting launcher executable")
	_ = rootCmd.MarkFlagRequired("stub")
	_ = rootCmd.MarkFlagRequired("out")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
